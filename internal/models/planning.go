package models

import (
	"time"
)

const (
	ProposalStatusPending  = "pending"
	ProposalStatusApproved = "approved"
	ProposalStatusRejected = "rejected"
)

// ProposalStatuses are the valid proposal lifecycle states.
var ProposalStatuses = []string{ProposalStatusPending, ProposalStatusApproved, ProposalStatusRejected}

// Proposal is a submitted improvement proposal tracked by the planning area.
type Proposal struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description" gorm:"type:text"`
	Status      string    `json:"status" gorm:"default:'pending'"`
	AuthorID    *uint     `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StrategicGoal is one institutional goal that proposals can be aligned to.
type StrategicGoal struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name"`
	Description string     `json:"description" gorm:"type:text"`
	TargetDate  *time.Time `json:"target_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
