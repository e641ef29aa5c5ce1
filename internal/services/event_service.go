package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/incadev/coreadmin/internal/metrics"
	"github.com/incadev/coreadmin/internal/models"
)

// EventService owns the append-only security event log. Other components
// read it through the query methods and never mutate rows.
type EventService struct {
	db *gorm.DB
}

// NewEventService returns an EventService using the provided DB.
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// Append stores one event. UUID, severity, and timestamp are filled in when
// the caller leaves them zero.
func (s *EventService) Append(e *models.SecurityEvent) (*models.SecurityEvent, error) {
	if e == nil {
		return nil, nil
	}
	if e.UUID == "" {
		e.UUID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if err := s.db.Create(e).Error; err != nil {
		return nil, fmt.Errorf("append security event: %w", err)
	}
	metrics.IncSecurityEvent()
	return e, nil
}

// CountByTypeInWindow counts a user's events of one type inside the trailing
// window. The window boundary is inclusive; future-dated rows are excluded.
func (s *EventService) CountByTypeInWindow(userID uint, eventType models.SecurityEventType, windowMinutes int) (int64, error) {
	now := time.Now()
	since := now.Add(-time.Duration(windowMinutes) * time.Minute)

	var count int64
	err := s.db.Model(&models.SecurityEvent{}).
		Where("user_id = ? AND event_type = ? AND created_at >= ? AND created_at <= ?", userID, eventType, since, now).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count events in window: %w", err)
	}
	return count, nil
}

// CountByIPInWindow counts events of one type from a single IP inside the
// trailing window, for unauthenticated attempts that lack a user identity.
func (s *EventService) CountByIPInWindow(ip string, eventType models.SecurityEventType, windowMinutes int) (int64, error) {
	now := time.Now()
	since := now.Add(-time.Duration(windowMinutes) * time.Minute)

	var count int64
	err := s.db.Model(&models.SecurityEvent{}).
		Where("ip_address = ? AND event_type = ? AND created_at >= ? AND created_at <= ?", ip, eventType, since, now).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count events by ip in window: %w", err)
	}
	return count, nil
}

// DistinctIPCountInWindow counts how many distinct IP addresses produced
// events for one user inside the trailing window.
func (s *EventService) DistinctIPCountInWindow(userID uint, windowMinutes int) (int64, error) {
	now := time.Now()
	since := now.Add(-time.Duration(windowMinutes) * time.Minute)

	var count int64
	err := s.db.Model(&models.SecurityEvent{}).
		Where("user_id = ? AND ip_address <> '' AND created_at >= ? AND created_at <= ?", userID, since, now).
		Distinct("ip_address").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count distinct ips in window: %w", err)
	}
	return count, nil
}

// Recent returns the newest events for audit views, newest first.
func (s *EventService) Recent(limit int) ([]models.SecurityEvent, error) {
	var events []models.SecurityEvent
	q := s.db.Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}
	return events, nil
}

// ForUser returns one user's events, newest first.
func (s *EventService) ForUser(userID uint, limit int) ([]models.SecurityEvent, error) {
	var events []models.SecurityEvent
	q := s.db.Where("user_id = ?", userID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events for user: %w", err)
	}
	return events, nil
}

// Critical returns recent critical-severity events.
func (s *EventService) Critical(limit int) ([]models.SecurityEvent, error) {
	var events []models.SecurityEvent
	q := s.db.Where("severity = ?", models.SeverityCritical).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list critical events: %w", err)
	}
	return events, nil
}

// PruneOlderThan deletes events older than the retention horizon. Called by
// the scheduler, never by request paths.
func (s *EventService) PruneOlderThan(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res := s.db.Where("created_at < ?", cutoff).Delete(&models.SecurityEvent{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune security events: %w", res.Error)
	}
	return res.RowsAffected, nil
}
