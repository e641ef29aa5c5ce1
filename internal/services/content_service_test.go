package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/incadev/coreadmin/internal/models"
)

func TestContentService_Create(t *testing.T) {
	db := setupTestDB(t)
	service := NewContentService(db)

	t.Run("news draft", func(t *testing.T) {
		item, err := service.Create(&models.Content{
			Type:     models.ContentTypeNews,
			Status:   models.ContentStatusDraft,
			Title:    "Campus network upgrade",
			Category: "technology",
		})
		assert.NoError(t, err)
		assert.NotZero(t, item.ID)
		assert.NotEmpty(t, item.UUID)
	})

	t.Run("status invalid for type", func(t *testing.T) {
		_, err := service.Create(&models.Content{
			Type:   models.ContentTypeAnnouncement,
			Status: models.ContentStatusPublished,
			Title:  "Bad status",
		})
		assert.ErrorIs(t, err, ErrInvalidContentStatus)
	})

	t.Run("unknown news category", func(t *testing.T) {
		_, err := service.Create(&models.Content{
			Type:     models.ContentTypeNews,
			Status:   models.ContentStatusDraft,
			Title:    "Bad category",
			Category: "astrology",
		})
		assert.ErrorIs(t, err, ErrInvalidNewsCategory)
	})

	t.Run("announcement toggle", func(t *testing.T) {
		item, err := service.Create(&models.Content{
			Type:   models.ContentTypeAnnouncement,
			Status: models.ContentStatusActive,
			Title:  "Enrollment open",
		})
		assert.NoError(t, err)
		assert.Equal(t, models.ContentStatusActive, item.Status)
	})
}

func TestContentService_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	service := NewContentService(db)

	item, err := service.Create(&models.Content{
		Type:     models.ContentTypeNews,
		Status:   models.ContentStatusDraft,
		Title:    "Exam schedule",
		Category: "education",
	})
	assert.NoError(t, err)

	t.Run("publishing news stamps published_at", func(t *testing.T) {
		updated, err := service.UpdateStatus(item.ID, models.ContentStatusPublished)
		assert.NoError(t, err)
		assert.Equal(t, models.ContentStatusPublished, updated.Status)
		assert.NotNil(t, updated.PublishedAt)
	})

	t.Run("archiving keeps the original publish time", func(t *testing.T) {
		published, err := service.Get(item.ID)
		assert.NoError(t, err)
		firstPublish := *published.PublishedAt

		archived, err := service.UpdateStatus(item.ID, models.ContentStatusArchived)
		assert.NoError(t, err)
		assert.Equal(t, models.ContentStatusArchived, archived.Status)
		assert.Equal(t, firstPublish.Unix(), archived.PublishedAt.Unix())
	})

	t.Run("invalid transition target", func(t *testing.T) {
		_, err := service.UpdateStatus(item.ID, models.ContentStatusActive)
		assert.ErrorIs(t, err, ErrInvalidContentStatus)
	})

	t.Run("missing item", func(t *testing.T) {
		_, err := service.UpdateStatus(9999, models.ContentStatusPublished)
		assert.ErrorIs(t, err, ErrContentNotFound)
	})
}

func TestContentService_ListAndDelete(t *testing.T) {
	db := setupTestDB(t)
	service := NewContentService(db)

	seed := []models.Content{
		{Type: models.ContentTypeNews, Status: models.ContentStatusPublished, Title: "News A", Category: "science"},
		{Type: models.ContentTypeNews, Status: models.ContentStatusDraft, Title: "News B", Category: "science"},
		{Type: models.ContentTypeAlert, Status: models.ContentStatusActive, Title: "Alert A"},
	}
	for i := range seed {
		_, err := service.Create(&seed[i])
		assert.NoError(t, err)
	}

	t.Run("filter by type", func(t *testing.T) {
		items, err := service.List(models.ContentTypeNews, "", 0)
		assert.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("filter by type and status", func(t *testing.T) {
		items, err := service.List(models.ContentTypeNews, models.ContentStatusPublished, 0)
		assert.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, "News A", items[0].Title)
	})

	t.Run("delete", func(t *testing.T) {
		assert.NoError(t, service.Delete(seed[2].ID))
		assert.ErrorIs(t, service.Delete(seed[2].ID), ErrContentNotFound)

		_, err := service.Get(seed[2].ID)
		assert.ErrorIs(t, err, ErrContentNotFound)
	})
}
