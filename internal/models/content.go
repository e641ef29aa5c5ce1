package models

import (
	"time"

	"gorm.io/gorm"
)

// ContentType distinguishes the publishing formats handled by the admin
// surface.
type ContentType string

const (
	ContentTypeNews         ContentType = "news"
	ContentTypeAnnouncement ContentType = "announcement"
	ContentTypeAlert        ContentType = "alert"
	ContentTypeEvent        ContentType = "event"
)

// ContentStatus values. News moves through an editorial lifecycle;
// announcements and alerts are simply switched on and off.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
	ContentStatusScheduled ContentStatus = "scheduled"
	ContentStatusActive    ContentStatus = "active"
	ContentStatusInactive  ContentStatus = "inactive"
)

// NewsCategories lists the valid category tags for news items.
var NewsCategories = []string{
	"technology", "science", "business", "health", "sports",
	"entertainment", "politics", "education", "travel", "lifestyle",
}

// ValidStatuses returns the status set allowed for a given content type.
func (t ContentType) ValidStatuses() []ContentStatus {
	switch t {
	case ContentTypeNews:
		return []ContentStatus{ContentStatusDraft, ContentStatusPublished, ContentStatusArchived, ContentStatusScheduled}
	default:
		return []ContentStatus{ContentStatusActive, ContentStatusInactive}
	}
}

// AllowsStatus reports whether the status is valid for the content type.
func (t ContentType) AllowsStatus(s ContentStatus) bool {
	for _, v := range t.ValidStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// Content is one published item: news article, announcement, or alert.
type Content struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	UUID        string        `json:"uuid" gorm:"uniqueIndex"`
	Type        ContentType   `json:"type" gorm:"index"`
	Status      ContentStatus `json:"status" gorm:"index"`
	Title       string        `json:"title"`
	Body        string        `json:"body" gorm:"type:text"`
	Category    string        `json:"category,omitempty"` // news only
	AuthorID    *uint         `json:"author_id"`
	PublishedAt *time.Time    `json:"published_at"`
	ExpiresAt   *time.Time    `json:"expires_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (c *Content) BeforeCreate(tx *gorm.DB) (err error) {
	if c.Status == "" {
		switch c.Type {
		case ContentTypeNews:
			c.Status = ContentStatusDraft
		default:
			c.Status = ContentStatusInactive
		}
	}
	return
}
