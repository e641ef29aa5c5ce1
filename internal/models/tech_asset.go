package models

import (
	"time"
)

// TechAsset statuses.
const (
	AssetStatusInUse       = "in_use"
	AssetStatusInStorage   = "in_storage"
	AssetStatusMaintenance = "maintenance"
	AssetStatusRetired     = "retired"
)

// TechAsset is one piece of technology inventory (workstation, projector,
// server) optionally assigned to a user.
type TechAsset struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	UUID            string     `json:"uuid" gorm:"uniqueIndex"`
	Name            string     `json:"name" gorm:"index"`
	Type            string     `json:"type,omitempty"` // "laptop", "desktop", "server", ...
	Status          string     `json:"status" gorm:"default:'in_storage'"`
	UserID          *uint      `json:"user_id"`
	AcquisitionDate *time.Time `json:"acquisition_date"`
	ExpirationDate  *time.Time `json:"expiration_date"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	LicenseAssignments []LicenseAssignment `json:"license_assignments,omitempty" gorm:"foreignKey:AssetID"`
}
