package main

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/incadev/coreadmin/internal/config"
	"github.com/incadev/coreadmin/internal/database"
	"github.com/incadev/coreadmin/internal/models"
)

type settingSeed struct {
	Key         string
	Value       string
	Type        string
	Group       string
	Description string
}

var defaultSettings = []settingSeed{
	{"max_failed_login_attempts", "5", models.SettingTypeInteger, "authentication", "Failed logins inside the window before an automatic block"},
	{"failed_login_window_minutes", "10", models.SettingTypeInteger, "authentication", "Sliding window for counting failed logins"},
	{"block_duration_minutes", "30", models.SettingTypeInteger, "authentication", "Duration of automatic blocks"},
	{"detect_multiple_ips", "true", models.SettingTypeBoolean, "anomaly", "Flag logins arriving from several IPs in a short window"},
	{"multiple_ip_window_minutes", "30", models.SettingTypeInteger, "anomaly", "Sliding window for the multiple IP check"},
	{"session_timeout_minutes", "30", models.SettingTypeInteger, "session", "Idle timeout enforced by the session subsystem"},
	{"max_concurrent_sessions", "5", models.SettingTypeInteger, "session", "Concurrent session cap enforced by the session subsystem"},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	if err := db.AutoMigrate(
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
	); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	log.Println("database migrated")

	seedSettings(db)
	seedAdmin(db)
	seedInventory(db)
	seedPlanning(db)

	log.Println("seed complete")
}

func seedSettings(db *gorm.DB) {
	for _, s := range defaultSettings {
		setting := models.SecuritySetting{
			Key:         s.Key,
			Value:       s.Value,
			Type:        s.Type,
			Group:       s.Group,
			Description: s.Description,
		}
		if err := db.Where("key = ?", s.Key).FirstOrCreate(&setting).Error; err != nil {
			log.Fatalf("seed setting %s: %v", s.Key, err)
		}
	}
	log.Printf("seeded %d security settings", len(defaultSettings))
}

// seedAdmin creates the initial administrator account when none exists.
// Credentials come from the environment so they never land in the repo.
func seedAdmin(db *gorm.DB) {
	email := os.Getenv("COREADMIN_ADMIN_EMAIL")
	password := os.Getenv("COREADMIN_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("COREADMIN_ADMIN_EMAIL/COREADMIN_ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		log.Fatalf("check admin: %v", err)
	}
	if count > 0 {
		log.Printf("admin %s already exists", email)
		return
	}

	admin := models.User{
		UUID:    uuid.NewString(),
		Email:   email,
		Name:    "Administrator",
		Role:    "admin",
		Enabled: true,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("created admin %s", email)
}

// seedInventory loads a small demo catalog so the inventory endpoints have
// data to show on a fresh install.
func seedInventory(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Software{}).Count(&count).Error; err != nil {
		log.Fatalf("check inventory: %v", err)
	}
	if count > 0 {
		log.Println("inventory already seeded")
		return
	}

	now := time.Now()
	nextYear := now.AddDate(1, 0, 0)

	software := []models.Software{
		{UUID: uuid.NewString(), SoftwareName: "Windows 11 Pro", Version: "23H2", Type: "os"},
		{UUID: uuid.NewString(), SoftwareName: "Microsoft Office", Version: "2024", Type: "office"},
		{UUID: uuid.NewString(), SoftwareName: "JetBrains All Products", Version: "2025.2", Type: "development"},
	}
	if err := db.Create(&software).Error; err != nil {
		log.Fatalf("seed software: %v", err)
	}

	licenses := []models.License{
		{UUID: uuid.NewString(), SoftwareID: software[0].ID, Provider: "Microsoft", PurchaseDate: &now, ExpirationDate: &nextYear, Cost: 199.99, Status: models.LicenseStatusActive},
		{UUID: uuid.NewString(), SoftwareID: software[1].ID, Provider: "Microsoft", PurchaseDate: &now, ExpirationDate: &nextYear, Cost: 149.99, Status: models.LicenseStatusActive},
		{UUID: uuid.NewString(), SoftwareID: software[2].ID, Provider: "JetBrains", PurchaseDate: &now, ExpirationDate: &nextYear, Cost: 289.00, Status: models.LicenseStatusActive},
	}
	if err := db.Create(&licenses).Error; err != nil {
		log.Fatalf("seed licenses: %v", err)
	}

	assets := []models.TechAsset{
		{UUID: uuid.NewString(), Name: "Lab Workstation 01", Type: "desktop", Status: models.AssetStatusInUse, AcquisitionDate: &now},
		{UUID: uuid.NewString(), Name: "Lab Workstation 02", Type: "desktop", Status: models.AssetStatusInStorage, AcquisitionDate: &now},
		{UUID: uuid.NewString(), Name: "Staff Laptop 01", Type: "laptop", Status: models.AssetStatusInUse, AcquisitionDate: &now},
	}
	if err := db.Create(&assets).Error; err != nil {
		log.Fatalf("seed assets: %v", err)
	}

	assignment := models.LicenseAssignment{
		LicenseID:    licenses[0].ID,
		AssetID:      assets[0].ID,
		AssignedDate: &now,
		Status:       "active",
	}
	if err := db.Create(&assignment).Error; err != nil {
		log.Fatalf("seed assignment: %v", err)
	}

	log.Println("seeded demo inventory")
}

// seedPlanning loads the initial strategic goals the planning area reviews
// proposals against.
func seedPlanning(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.StrategicGoal{}).Count(&count).Error; err != nil {
		log.Fatalf("check planning: %v", err)
	}
	if count > 0 {
		log.Println("planning already seeded")
		return
	}

	target := time.Now().AddDate(1, 0, 0)
	goals := []models.StrategicGoal{
		{Name: "Modernize lab infrastructure", Description: "Replace aging lab workstations and keep software licensing current", TargetDate: &target},
		{Name: "Strengthen account security", Description: "Reduce compromised-account incidents through monitoring and enforcement", TargetDate: &target},
	}
	if err := db.Create(&goals).Error; err != nil {
		log.Fatalf("seed strategic goals: %v", err)
	}
	log.Printf("seeded %d strategic goals", len(goals))
}
