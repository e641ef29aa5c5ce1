package models

import (
	"fmt"
	"time"
)

// Block types stored in the "block_type" column.
const (
	BlockTypeAutomatic = "automatic"
	BlockTypeManual    = "manual"
)

// UserBlock is the authoritative block/unblock state for one account. Rows
// are never deleted; deactivated rows remain for audit.
type UserBlock struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UUID         string     `json:"uuid" gorm:"uniqueIndex"`
	UserID       uint       `json:"user_id" gorm:"index:idx_user_blocks_user_active,priority:1"`
	BlockedBy    *uint      `json:"blocked_by"` // nil = system-issued
	Reason       string     `json:"reason"`
	BlockType    string     `json:"block_type" gorm:"default:'automatic'"`
	IPAddress    string     `json:"ip_address,omitempty"`
	BlockedAt    time.Time  `json:"blocked_at"`
	BlockedUntil *time.Time `json:"blocked_until" gorm:"index:idx_user_blocks_until_active,priority:1"` // nil = permanent
	IsActive     bool       `json:"is_active" gorm:"default:true;index:idx_user_blocks_user_active,priority:2;index:idx_user_blocks_until_active,priority:2"`
	UnblockedAt  *time.Time `json:"unblocked_at"`
	UnblockedBy  *uint      `json:"unblocked_by"`
	Metadata     string     `json:"-" gorm:"type:text"` // JSON-encoded map
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (UserBlock) TableName() string {
	return "user_blocks"
}

// IsCurrentlyBlocked reports whether the block is in force at time now:
// active and either permanent or not yet past its end.
func (b *UserBlock) IsCurrentlyBlocked(now time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.BlockedUntil == nil {
		return true
	}
	return now.Before(*b.BlockedUntil)
}

// IsExpired reports whether an active block's end time has lapsed. Permanent
// blocks never expire.
func (b *UserBlock) IsExpired(now time.Time) bool {
	return b.IsActive && b.BlockedUntil != nil && !now.Before(*b.BlockedUntil)
}

// RemainingTime renders the time left on the block in descending units,
// matching the strings shown to end users: "Permanente", "2 días 3 horas",
// "1 hora 15 minutos", "29 minutos". Returns "" when the block is not in
// force.
func (b *UserBlock) RemainingTime(now time.Time) string {
	if !b.IsCurrentlyBlocked(now) {
		return ""
	}
	if b.BlockedUntil == nil {
		return "Permanente"
	}

	diff := b.BlockedUntil.Sub(now)
	days := int(diff.Hours()) / 24
	hours := int(diff.Hours()) % 24
	minutes := int(diff.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%s %s", pluralize(days, "día", "días"), pluralize(hours, "hora", "horas"))
	case hours > 0:
		return fmt.Sprintf("%s %s", pluralize(hours, "hora", "horas"), pluralize(minutes, "minuto", "minutos"))
	default:
		return pluralize(minutes, "minuto", "minutos")
	}
}

// BlockTypeLabel returns the human-readable label for the block type.
func (b *UserBlock) BlockTypeLabel() string {
	switch b.BlockType {
	case BlockTypeAutomatic:
		return "Automático"
	case BlockTypeManual:
		return "Manual"
	default:
		return "Desconocido"
	}
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
