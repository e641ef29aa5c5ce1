package models

import (
	"time"
)

// Software is a catalog entry that licenses are purchased against.
type Software struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UUID         string    `json:"uuid" gorm:"uniqueIndex"`
	SoftwareName string    `json:"software_name" gorm:"index"`
	Version      string    `json:"version,omitempty"`
	Type         string    `json:"type,omitempty"` // "os", "office", "development", ...
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Licenses []License `json:"licenses,omitempty" gorm:"foreignKey:SoftwareID"`
}
