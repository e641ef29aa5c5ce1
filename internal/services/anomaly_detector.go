package services

import (
	"errors"

	"github.com/incadev/coreadmin/internal/logger"
	"github.com/incadev/coreadmin/internal/metrics"
	"github.com/incadev/coreadmin/internal/models"
)

// Defaults used when the corresponding setting is absent or malformed.
const (
	DefaultMaxFailedLoginAttempts = 5
	DefaultFailedLoginWindowMin   = 10
	DefaultBlockDurationMin       = 30
	DefaultMultipleIPWindowMin    = 30

	// multipleIPThreshold is the fixed fan-out: 2+ distinct IPs attributable
	// to one account inside the window raises a warning event.
	multipleIPThreshold = 2

	// AutoBlockReason is the reason recorded on threshold-triggered blocks.
	AutoBlockReason = "exceeded failed login threshold"
)

// AnomalyDetector decides, after each failed login, whether to escalate to
// an automatic block. Detection errors never block a login decision: on any
// settings or counting failure the event is treated as insufficient data and
// no escalation happens.
type AnomalyDetector struct {
	settings *SettingsService
	events   *EventService
	blocks   *BlockService
}

// NewAnomalyDetector wires the detector to its stores.
func NewAnomalyDetector(settings *SettingsService, events *EventService, blocks *BlockService) *AnomalyDetector {
	return &AnomalyDetector{settings: settings, events: events, blocks: blocks}
}

// EvaluateFailedLogin runs the threshold and multiple-IP checks for one
// user after a failed_login event has been appended. It returns the block it
// issued, or the pre-existing block when a concurrent caller won the race,
// or nil when no block applies.
func (d *AnomalyDetector) EvaluateFailedLogin(userID uint, ip string) *models.UserBlock {
	block := d.checkFailedLoginThreshold(userID, ip)
	d.checkMultipleIPs(userID, ip)
	return block
}

func (d *AnomalyDetector) checkFailedLoginThreshold(userID uint, ip string) *models.UserBlock {
	maxAttempts := d.settings.GetInt(SettingMaxFailedLoginAttempts, DefaultMaxFailedLoginAttempts)
	windowMin := d.settings.GetInt(SettingFailedLoginWindowMin, DefaultFailedLoginWindowMin)

	count, err := d.events.CountByTypeInWindow(userID, models.EventFailedLogin, windowMin)
	if err != nil {
		logger.WithFields(map[string]interface{}{"user_id": userID}).
			WithError(err).Warn("failed-login count unavailable, skipping escalation")
		return nil
	}
	// The Nth attempt, inclusive, triggers the block.
	if count < int64(maxAttempts) {
		return nil
	}

	blocked, existing, err := d.blocks.IsBlocked(userID)
	if err != nil {
		logger.WithFields(map[string]interface{}{"user_id": userID}).
			WithError(err).Warn("block lookup unavailable, skipping escalation")
		return nil
	}
	if blocked {
		return existing
	}

	duration := d.settings.GetInt(SettingBlockDurationMin, DefaultBlockDurationMin)
	block, err := d.blocks.Block(userID, AutoBlockReason, models.BlockTypeAutomatic, &duration, nil, "")
	if err != nil {
		if errors.Is(err, ErrAlreadyBlocked) {
			// A concurrent evaluation won the race; report its block.
			_, existing, lookupErr := d.blocks.IsBlocked(userID)
			if lookupErr != nil {
				return nil
			}
			return existing
		}
		logger.WithFields(map[string]interface{}{"user_id": userID}).
			WithError(err).Error("automatic block failed")
		return nil
	}

	event := &models.SecurityEvent{
		UserID:    &userID,
		EventType: models.EventBlockIssued,
		Severity:  models.SeverityCritical,
		IPAddress: ip,
	}
	_ = event.SetMetadata(map[string]interface{}{
		"block_id":       block.ID,
		"block_type":     models.BlockTypeAutomatic,
		"failed_count":   count,
		"threshold":      maxAttempts,
		"window_minutes": windowMin,
	})
	if _, err := d.events.Append(event); err != nil {
		logger.WithError(err).Warn("block_issued event append failed")
	}

	return block
}

// EvaluateUnknownFailedLogin runs the per-IP threshold check for attempts
// that matched no account. With nobody to block, crossing the threshold
// raises a warning event keyed by the address for abuse review.
func (d *AnomalyDetector) EvaluateUnknownFailedLogin(ip string) {
	if ip == "" {
		return
	}
	maxAttempts := d.settings.GetInt(SettingMaxFailedLoginAttempts, DefaultMaxFailedLoginAttempts)
	windowMin := d.settings.GetInt(SettingFailedLoginWindowMin, DefaultFailedLoginWindowMin)

	count, err := d.events.CountByIPInWindow(ip, models.EventFailedLogin, windowMin)
	if err != nil {
		logger.WithFields(map[string]interface{}{"ip": ip}).
			WithError(err).Warn("per-ip failed-login count unavailable, skipping detection")
		return
	}
	if count < int64(maxAttempts) {
		return
	}

	event := &models.SecurityEvent{
		EventType: models.EventSuspiciousIP,
		Severity:  models.SeverityWarning,
		IPAddress: ip,
	}
	_ = event.SetMetadata(map[string]interface{}{
		"failed_count":   count,
		"threshold":      maxAttempts,
		"window_minutes": windowMin,
	})
	if _, err := d.events.Append(event); err != nil {
		logger.WithError(err).Warn("suspicious_ip_activity event append failed")
	}
}

func (d *AnomalyDetector) checkMultipleIPs(userID uint, ip string) {
	if !d.settings.GetBool(SettingDetectMultipleIPs, true) {
		return
	}
	windowMin := d.settings.GetInt(SettingMultipleIPWindowMin, DefaultMultipleIPWindowMin)

	count, err := d.events.DistinctIPCountInWindow(userID, windowMin)
	if err != nil {
		logger.WithFields(map[string]interface{}{"user_id": userID}).
			WithError(err).Warn("distinct-ip count unavailable, skipping detection")
		return
	}
	if count < multipleIPThreshold {
		return
	}

	// Detection only: this path logs a warning event and never blocks, so
	// stricter handling can be wired later without touching the counting.
	event := &models.SecurityEvent{
		UserID:    &userID,
		EventType: models.EventMultipleIPs,
		Severity:  models.SeverityWarning,
		IPAddress: ip,
	}
	_ = event.SetMetadata(map[string]interface{}{
		"distinct_ips":   count,
		"window_minutes": windowMin,
	})
	if _, err := d.events.Append(event); err != nil {
		logger.WithError(err).Warn("multiple_ip_detected event append failed")
		return
	}
	metrics.IncMultipleIPDetected()
}
