package models

import (
	"time"
)

// LicenseAssignment links one license seat to one tech asset.
type LicenseAssignment struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	LicenseID    uint       `json:"license_id" gorm:"index:idx_license_assignments_license_asset,priority:1"`
	AssetID      uint       `json:"asset_id" gorm:"index:idx_license_assignments_license_asset,priority:2"`
	AssignedDate *time.Time `json:"assigned_date"`
	Status       string     `json:"status" gorm:"default:'active'"` // "active", "released"
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	License *License   `json:"license,omitempty" gorm:"foreignKey:LicenseID"`
	Asset   *TechAsset `json:"asset,omitempty" gorm:"foreignKey:AssetID"`
}
