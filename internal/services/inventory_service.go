package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/incadev/coreadmin/internal/logger"
	"github.com/incadev/coreadmin/internal/models"
)

var (
	// ErrAssetNotFound is returned when an asset lookup misses.
	ErrAssetNotFound = errors.New("tech asset not found")
	// ErrLicenseNotFound is returned when a license lookup misses.
	ErrLicenseNotFound = errors.New("license not found")
	// ErrLicenseNotAssignable is returned when assigning an expired or
	// revoked license.
	ErrLicenseNotAssignable = errors.New("license is not assignable")
)

// InventoryService manages technology assets, the software catalog,
// licenses, and license assignments.
type InventoryService struct {
	db *gorm.DB
}

// NewInventoryService returns an InventoryService using the provided DB.
func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// CreateAsset stores a new tech asset.
func (s *InventoryService) CreateAsset(asset *models.TechAsset) (*models.TechAsset, error) {
	if asset.UUID == "" {
		asset.UUID = uuid.NewString()
	}
	if asset.Status == "" {
		asset.Status = models.AssetStatusInStorage
	}
	if err := s.db.Create(asset).Error; err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	return asset, nil
}

// GetAsset loads one asset with its license assignments.
func (s *InventoryService) GetAsset(id uint) (*models.TechAsset, error) {
	var asset models.TechAsset
	if err := s.db.Preload("LicenseAssignments.License").First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("load asset: %w", err)
	}
	return &asset, nil
}

// ListAssets returns assets filtered by status and optional assigned user.
func (s *InventoryService) ListAssets(status string, userID *uint) ([]models.TechAsset, error) {
	q := s.db.Order("name")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var assets []models.TechAsset
	if err := q.Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

// UpdateAsset stores edited asset fields.
func (s *InventoryService) UpdateAsset(asset *models.TechAsset) error {
	if err := s.db.Save(asset).Error; err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	return nil
}

// CreateSoftware adds a catalog entry.
func (s *InventoryService) CreateSoftware(sw *models.Software) (*models.Software, error) {
	if sw.UUID == "" {
		sw.UUID = uuid.NewString()
	}
	if err := s.db.Create(sw).Error; err != nil {
		return nil, fmt.Errorf("create software: %w", err)
	}
	return sw, nil
}

// ListSoftware returns the catalog with licenses preloaded.
func (s *InventoryService) ListSoftware() ([]models.Software, error) {
	var sw []models.Software
	if err := s.db.Preload("Licenses").Order("software_name").Find(&sw).Error; err != nil {
		return nil, fmt.Errorf("list software: %w", err)
	}
	return sw, nil
}

// CreateLicense stores a purchased license for a catalog entry.
func (s *InventoryService) CreateLicense(lic *models.License) (*models.License, error) {
	if lic.UUID == "" {
		lic.UUID = uuid.NewString()
	}
	if lic.Status == "" {
		lic.Status = models.LicenseStatusActive
	}
	if err := s.db.Create(lic).Error; err != nil {
		return nil, fmt.Errorf("create license: %w", err)
	}
	return lic, nil
}

// AssignLicense links a license seat to an asset. Only active licenses are
// assignable.
func (s *InventoryService) AssignLicense(licenseID, assetID uint) (*models.LicenseAssignment, error) {
	var lic models.License
	if err := s.db.First(&lic, licenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLicenseNotFound
		}
		return nil, fmt.Errorf("load license: %w", err)
	}
	if lic.Status != models.LicenseStatusActive {
		return nil, ErrLicenseNotAssignable
	}

	var asset models.TechAsset
	if err := s.db.First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("load asset: %w", err)
	}

	now := time.Now()
	assignment := &models.LicenseAssignment{
		LicenseID:    licenseID,
		AssetID:      assetID,
		AssignedDate: &now,
		Status:       "active",
	}
	if err := s.db.Create(assignment).Error; err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	return assignment, nil
}

// ReleaseAssignment marks an assignment released.
func (s *InventoryService) ReleaseAssignment(assignmentID uint) error {
	res := s.db.Model(&models.LicenseAssignment{}).
		Where("id = ? AND status = ?", assignmentID, "active").
		Update("status", "released")
	if res.Error != nil {
		return fmt.Errorf("release assignment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLicenseNotFound
	}
	return nil
}

// RefreshLicenseStatuses marks active licenses whose expiration date has
// passed as expired. Called by the scheduler.
func (s *InventoryService) RefreshLicenseStatuses() (int64, error) {
	res := s.db.Model(&models.License{}).
		Where("status = ? AND expiration_date IS NOT NULL AND expiration_date < ?", models.LicenseStatusActive, time.Now()).
		Update("status", models.LicenseStatusExpired)
	if res.Error != nil {
		return 0, fmt.Errorf("refresh license statuses: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		logger.WithFields(map[string]interface{}{"expired": res.RowsAffected}).Info("licenses marked expired")
	}
	return res.RowsAffected, nil
}
