package models

import (
	"time"
)

// License statuses.
const (
	LicenseStatusActive  = "active"
	LicenseStatusExpired = "expired"
	LicenseStatusRevoked = "revoked"
)

// License is a purchased software license, assignable to assets through
// LicenseAssignment rows.
type License struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	UUID           string     `json:"uuid" gorm:"uniqueIndex"`
	SoftwareID     uint       `json:"software_id" gorm:"index"`
	KeyCode        string     `json:"key_code,omitempty"`
	Provider       string     `json:"provider,omitempty"`
	PurchaseDate   *time.Time `json:"purchase_date"`
	ExpirationDate *time.Time `json:"expiration_date"`
	Cost           float64    `json:"cost"`
	Status         string     `json:"status" gorm:"default:'active'"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Software    *Software           `json:"software,omitempty" gorm:"foreignKey:SoftwareID"`
	Assignments []LicenseAssignment `json:"assignments,omitempty" gorm:"foreignKey:LicenseID"`
}
