package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/incadev/coreadmin/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.SecuritySetting{},
		&models.SecurityEvent{},
		&models.UserBlock{},
		&models.Content{},
		&models.TechAsset{},
		&models.Software{},
		&models.License{},
		&models.LicenseAssignment{},
		&models.Proposal{},
		&models.StrategicGoal{},
	)
	assert.NoError(t, err)

	return db
}

// setupEnforcement wires the whole engine on one test DB.
func setupEnforcement(t *testing.T) (*gorm.DB, *SettingsService, *EventService, *BlockService, *EnforcementService) {
	db := setupTestDB(t)
	settings := NewSettingsService(db)
	events := NewEventService(db)
	blocks := NewBlockService(db)
	detector := NewAnomalyDetector(settings, events, blocks)
	enforcement := NewEnforcementService(events, blocks, detector)
	return db, settings, events, blocks, enforcement
}

func intPtr(n int) *int    { return &n }
func uintPtr(n uint) *uint { return &n }
