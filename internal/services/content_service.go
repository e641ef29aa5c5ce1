package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/incadev/coreadmin/internal/models"
)

var (
	// ErrContentNotFound is returned when a content lookup misses.
	ErrContentNotFound = errors.New("content not found")
	// ErrInvalidContentStatus is returned when a status is not valid for the
	// content type (news has an editorial lifecycle, announcements and
	// alerts are active/inactive).
	ErrInvalidContentStatus = errors.New("status not valid for content type")
	// ErrInvalidNewsCategory is returned for unknown news categories.
	ErrInvalidNewsCategory = errors.New("unknown news category")
)

// ContentService manages published items: news, announcements, and alerts.
type ContentService struct {
	db *gorm.DB
}

// NewContentService returns a ContentService using the provided DB.
func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

// Create validates the type/status/category combination and stores the item.
func (s *ContentService) Create(content *models.Content) (*models.Content, error) {
	if content.Status != "" && !content.Type.AllowsStatus(content.Status) {
		return nil, ErrInvalidContentStatus
	}
	if content.Type == models.ContentTypeNews && content.Category != "" && !validNewsCategory(content.Category) {
		return nil, ErrInvalidNewsCategory
	}
	if content.UUID == "" {
		content.UUID = uuid.NewString()
	}
	if err := s.db.Create(content).Error; err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return content, nil
}

// UpdateStatus moves an item to a new status, validating it for the type.
// Publishing news stamps published_at.
func (s *ContentService) UpdateStatus(id uint, status models.ContentStatus) (*models.Content, error) {
	content, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !content.Type.AllowsStatus(status) {
		return nil, ErrInvalidContentStatus
	}

	updates := map[string]interface{}{"status": status}
	if content.Type == models.ContentTypeNews && status == models.ContentStatusPublished && content.PublishedAt == nil {
		updates["published_at"] = time.Now()
	}
	if err := s.db.Model(content).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update content status: %w", err)
	}
	return s.Get(id)
}

// Get loads one item.
func (s *ContentService) Get(id uint) (*models.Content, error) {
	var content models.Content
	if err := s.db.First(&content, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("load content: %w", err)
	}
	return &content, nil
}

// List returns items filtered by type and/or status, newest first.
func (s *ContentService) List(contentType models.ContentType, status models.ContentStatus, limit int) ([]models.Content, error) {
	q := s.db.Order("created_at desc")
	if contentType != "" {
		q = q.Where("type = ?", contentType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var items []models.Content
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return items, nil
}

// Update stores edited fields, re-validating the status for the type.
func (s *ContentService) Update(content *models.Content) error {
	if !content.Type.AllowsStatus(content.Status) {
		return ErrInvalidContentStatus
	}
	if err := s.db.Save(content).Error; err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	return nil
}

// Delete removes an item.
func (s *ContentService) Delete(id uint) error {
	res := s.db.Delete(&models.Content{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete content: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrContentNotFound
	}
	return nil
}

func validNewsCategory(category string) bool {
	for _, c := range models.NewsCategories {
		if c == category {
			return true
		}
	}
	return false
}
