package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// SecurityEventType enumerates the kinds of security-relevant occurrences
// recorded in the append-only event log.
type SecurityEventType string

const (
	EventFailedLogin       SecurityEventType = "failed_login"
	EventSuccessfulLogin   SecurityEventType = "successful_login"
	EventMultipleIPs       SecurityEventType = "multiple_ip_detected"
	EventSuspiciousIP      SecurityEventType = "suspicious_ip_activity"
	EventBlockIssued       SecurityEventType = "block_issued"
	EventBlockLifted       SecurityEventType = "block_lifted"
	EventPasswordChanged   SecurityEventType = "password_changed"
	EventLoginWhileBlocked SecurityEventType = "login_while_blocked"
)

// SecurityEventSeverity is an ordinal severity: info < warning < critical.
type SecurityEventSeverity string

const (
	SeverityInfo     SecurityEventSeverity = "info"
	SeverityWarning  SecurityEventSeverity = "warning"
	SeverityCritical SecurityEventSeverity = "critical"
)

// Ordinal returns the severity rank so callers can compare severities.
func (s SecurityEventSeverity) Ordinal() int {
	switch s {
	case SeverityWarning:
		return 1
	case SeverityCritical:
		return 2
	default:
		return 0
	}
}

// SecurityEvent is one immutable row in the event log. Rows are only ever
// created; there is no update or delete path outside retention pruning.
type SecurityEvent struct {
	ID        uint                  `json:"id" gorm:"primaryKey"`
	UUID      string                `json:"uuid" gorm:"uniqueIndex"`
	UserID    *uint                 `json:"user_id" gorm:"index:idx_security_events_user_type_time,priority:1"`
	EventType SecurityEventType     `json:"event_type" gorm:"index:idx_security_events_user_type_time,priority:2"`
	Severity  SecurityEventSeverity `json:"severity" gorm:"default:'info'"`
	IPAddress string                `json:"ip_address" gorm:"index:idx_security_events_ip_time,priority:1"`
	UserAgent string                `json:"user_agent"`
	Metadata  string                `json:"-" gorm:"type:text"` // JSON-encoded map
	CreatedAt time.Time             `json:"created_at" gorm:"index:idx_security_events_user_type_time,priority:3;index:idx_security_events_ip_time,priority:2"`
}

func (SecurityEvent) TableName() string {
	return "security_events"
}

func (e *SecurityEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.Severity == "" {
		e.Severity = SeverityInfo
	}
	return
}

// SetMetadata serializes the given map into the metadata column.
func (e *SecurityEvent) SetMetadata(m map[string]interface{}) error {
	if m == nil {
		e.Metadata = ""
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	e.Metadata = string(raw)
	return nil
}

// MetadataMap decodes the metadata column. A missing or malformed column
// yields an empty map rather than an error.
func (e *SecurityEvent) MetadataMap() map[string]interface{} {
	if e.Metadata == "" {
		return map[string]interface{}{}
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(e.Metadata), &m); err != nil {
		return map[string]interface{}{}
	}
	return m
}
