package services

import (
	"errors"
	"fmt"

	"github.com/incadev/coreadmin/internal/logger"
	"github.com/incadev/coreadmin/internal/metrics"
	"github.com/incadev/coreadmin/internal/models"
)

// EnforcementService is the single entry point the login path and the admin
// tooling call. It orchestrates the event log, the anomaly detector, and the
// block ledger.
type EnforcementService struct {
	events   *EventService
	blocks   *BlockService
	detector *AnomalyDetector
}

// NewEnforcementService wires the facade to its collaborators.
func NewEnforcementService(events *EventService, blocks *BlockService, detector *AnomalyDetector) *EnforcementService {
	return &EnforcementService{events: events, blocks: blocks, detector: detector}
}

// LoginAttemptResult is what the login path learns from recording an
// attempt: whether the account is now blocked and, when so, the block.
type LoginAttemptResult struct {
	Blocked bool
	Block   *models.UserBlock
}

// RecordFailedLogin appends a failed_login event and runs the anomaly
// detector synchronously, so the caller sees the resulting block state in
// the same call. An event-log outage does not abort the call: the login path
// fails open rather than locking users out on a logging failure.
func (s *EnforcementService) RecordFailedLogin(userID uint, ip, userAgent string) *LoginAttemptResult {
	event := &models.SecurityEvent{
		UserID:    &userID,
		EventType: models.EventFailedLogin,
		Severity:  models.SeverityWarning,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if _, err := s.events.Append(event); err != nil {
		logger.WithFields(map[string]interface{}{"user_id": userID}).
			WithError(err).Warn("failed_login event append failed, proceeding")
	}
	metrics.IncFailedLogin()

	block := s.detector.EvaluateFailedLogin(userID, ip)
	if block != nil {
		return &LoginAttemptResult{Blocked: true, Block: block}
	}
	return &LoginAttemptResult{}
}

// RecordUnknownLoginFailure appends a failed_login event carrying no user
// identity, for attempts against addresses that match no account. The per-IP
// count feeds the detector's suspicious-address check.
func (s *EnforcementService) RecordUnknownLoginFailure(ip, userAgent string) {
	event := &models.SecurityEvent{
		EventType: models.EventFailedLogin,
		Severity:  models.SeverityWarning,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if _, err := s.events.Append(event); err != nil {
		logger.WithFields(map[string]interface{}{"ip": ip}).
			WithError(err).Warn("failed_login event append failed, proceeding")
	}
	metrics.IncFailedLogin()

	s.detector.EvaluateUnknownFailedLogin(ip)
}

// RecordSuccessfulLogin appends a successful_login event. It does not reset
// the failed-attempt window: the policy is time-based, so interleaved
// successes do not clear prior failures.
func (s *EnforcementService) RecordSuccessfulLogin(userID uint, ip, userAgent string) {
	event := &models.SecurityEvent{
		UserID:    &userID,
		EventType: models.EventSuccessfulLogin,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if _, err := s.events.Append(event); err != nil {
		logger.WithFields(map[string]interface{}{"user_id": userID}).
			WithError(err).Warn("successful_login event append failed, proceeding")
	}
}

// IsBlocked answers whether the user is currently blocked, with the reason
// and remaining-time string the login flow shows to the user.
func (s *EnforcementService) IsBlocked(userID uint) (bool, *models.UserBlock, error) {
	return s.blocks.IsBlocked(userID)
}

// ManualBlock issues an administrator block. Attribution is mandatory; nil
// duration means permanent. An audit event is appended alongside.
func (s *EnforcementService) ManualBlock(userID uint, reason string, durationMinutes *int, blockedBy uint) (*models.UserBlock, error) {
	if blockedBy == 0 {
		return nil, fmt.Errorf("manual block requires attribution")
	}

	block, err := s.blocks.Block(userID, reason, models.BlockTypeManual, durationMinutes, &blockedBy, "")
	if err != nil {
		return nil, err
	}

	event := &models.SecurityEvent{
		UserID:    &userID,
		EventType: models.EventBlockIssued,
		Severity:  models.SeverityCritical,
	}
	_ = event.SetMetadata(map[string]interface{}{
		"block_id":   block.ID,
		"block_type": models.BlockTypeManual,
		"blocked_by": blockedBy,
		"reason":     reason,
	})
	if _, err := s.events.Append(event); err != nil {
		logger.WithError(err).Warn("manual block audit event append failed")
	}

	return block, nil
}

// ManualUnblock lifts a block with administrator attribution, appending an
// audit event. ErrNotBlocked propagates so the admin surface can report the
// conflict; concurrent unblockers treat it as a benign no-op.
func (s *EnforcementService) ManualUnblock(userID uint, unblockedBy uint) (*models.UserBlock, error) {
	if unblockedBy == 0 {
		return nil, fmt.Errorf("manual unblock requires attribution")
	}

	block, err := s.blocks.Unblock(userID, &unblockedBy)
	if err != nil {
		return nil, err
	}

	event := &models.SecurityEvent{
		UserID:    &userID,
		EventType: models.EventBlockLifted,
	}
	_ = event.SetMetadata(map[string]interface{}{
		"block_id":     block.ID,
		"unblocked_by": unblockedBy,
	})
	if _, err := s.events.Append(event); err != nil {
		logger.WithError(err).Warn("unblock audit event append failed")
	}

	return block, nil
}

// IsBenignConflict reports whether an error is one of the expected state
// conflicts the admin surface maps to a 409 rather than a 5xx.
func IsBenignConflict(err error) bool {
	return errors.Is(err, ErrAlreadyBlocked) || errors.Is(err, ErrNotBlocked)
}
