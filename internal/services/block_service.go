package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/incadev/coreadmin/internal/metrics"
	"github.com/incadev/coreadmin/internal/models"
)

var (
	// ErrAlreadyBlocked is returned when blocking a user who already has an
	// active, non-expired block. Callers wanting to extend a block must
	// unblock first.
	ErrAlreadyBlocked = errors.New("user is already blocked")
	// ErrNotBlocked is returned when unblocking a user with no active block.
	ErrNotBlocked = errors.New("user is not blocked")
)

// BlockService is the authoritative ledger of block state per account.
// Expiry is resolved lazily on read: there is no background sweeper, so
// every status check can deactivate at most one lapsed row.
type BlockService struct {
	db *gorm.DB
}

// NewBlockService returns a BlockService using the provided DB.
func NewBlockService(db *gorm.DB) *BlockService {
	return &BlockService{db: db}
}

// ActiveBlock returns the user's active block row, or nil when none exists.
// Expired rows are returned as-is; IsBlocked handles reconciliation.
func (s *BlockService) ActiveBlock(userID uint) (*models.UserBlock, error) {
	var block models.UserBlock
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).First(&block).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load active block: %w", err)
	}
	return &block, nil
}

// IsBlocked reports whether the user is currently blocked, returning the
// in-force block when so. When an active row's end time has lapsed it is
// deactivated as a side effect of the read. The conditional update keyed on
// is_active guarantees exactly one unblocked_at write under concurrent
// readers.
func (s *BlockService) IsBlocked(userID uint) (bool, *models.UserBlock, error) {
	block, err := s.ActiveBlock(userID)
	if err != nil {
		return false, nil, err
	}
	if block == nil {
		return false, nil, nil
	}

	now := time.Now()
	if block.IsExpired(now) {
		if err := s.expire(block, now); err != nil {
			return false, nil, err
		}
		return false, nil, nil
	}

	return true, block, nil
}

func (s *BlockService) expire(block *models.UserBlock, now time.Time) error {
	res := s.db.Model(&models.UserBlock{}).
		Where("id = ? AND is_active = ?", block.ID, true).
		Updates(map[string]interface{}{
			"is_active":    false,
			"unblocked_at": now,
			"unblocked_by": nil,
		})
	if res.Error != nil {
		return fmt.Errorf("expire block: %w", res.Error)
	}
	// RowsAffected == 0 means a concurrent reader already expired the row;
	// either way the user is no longer blocked.
	if res.RowsAffected > 0 {
		metrics.IncBlockExpired()
	}
	return nil
}

// Block creates a new block for the user. A nil duration means permanent;
// otherwise blocked_until = blocked_at + duration. Fails with
// ErrAlreadyBlocked when an active, non-expired block exists. The check and
// insert run in one transaction so two racing callers cannot both create an
// active row.
func (s *BlockService) Block(userID uint, reason, blockType string, durationMinutes *int, blockedBy *uint, metadata string) (*models.UserBlock, error) {
	now := time.Now()
	block := &models.UserBlock{
		UUID:      uuid.NewString(),
		UserID:    userID,
		BlockedBy: blockedBy,
		Reason:    reason,
		BlockType: blockType,
		BlockedAt: now,
		IsActive:  true,
		Metadata:  metadata,
	}
	if durationMinutes != nil {
		until := now.Add(time.Duration(*durationMinutes) * time.Minute)
		block.BlockedUntil = &until
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.UserBlock
		err := tx.Where("user_id = ? AND is_active = ?", userID, true).First(&existing).Error
		if err == nil {
			if existing.IsExpired(now) {
				// Lapsed but not yet reconciled; retire it and proceed.
				res := tx.Model(&models.UserBlock{}).
					Where("id = ? AND is_active = ?", existing.ID, true).
					Updates(map[string]interface{}{
						"is_active":    false,
						"unblocked_at": now,
						"unblocked_by": nil,
					})
				if res.Error != nil {
					return res.Error
				}
			} else {
				return ErrAlreadyBlocked
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(block).Error
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyBlocked) {
			return nil, ErrAlreadyBlocked
		}
		return nil, fmt.Errorf("create block: %w", err)
	}

	metrics.IncBlockIssued(blockType)
	return block, nil
}

// Unblock deactivates the user's active block, attributing the transition.
// Fails with ErrNotBlocked when no active row exists; a second concurrent
// unblock therefore reports ErrNotBlocked, which callers treat as a benign
// no-op.
func (s *BlockService) Unblock(userID uint, unblockedBy *uint) (*models.UserBlock, error) {
	now := time.Now()

	var block models.UserBlock
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND is_active = ?", userID, true).First(&block).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotBlocked
			}
			return err
		}

		res := tx.Model(&models.UserBlock{}).
			Where("id = ? AND is_active = ?", block.ID, true).
			Updates(map[string]interface{}{
				"is_active":    false,
				"unblocked_at": now,
				"unblocked_by": unblockedBy,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotBlocked
		}

		block.IsActive = false
		block.UnblockedAt = &now
		block.UnblockedBy = unblockedBy
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotBlocked) {
			return nil, ErrNotBlocked
		}
		return nil, fmt.Errorf("unblock: %w", err)
	}

	metrics.IncUnblock()
	return &block, nil
}

// ListBlocks returns block history, newest first, for the admin surface.
// When activeOnly is set, only rows still marked active are returned.
func (s *BlockService) ListBlocks(activeOnly bool, limit int) ([]models.UserBlock, error) {
	q := s.db.Order("blocked_at desc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var blocks []models.UserBlock
	if err := q.Find(&blocks).Error; err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return blocks, nil
}

// BlocksForUser returns one user's block history, newest first.
func (s *BlockService) BlocksForUser(userID uint) ([]models.UserBlock, error) {
	var blocks []models.UserBlock
	if err := s.db.Where("user_id = ?", userID).Order("blocked_at desc").Find(&blocks).Error; err != nil {
		return nil, fmt.Errorf("list blocks for user: %w", err)
	}
	return blocks, nil
}
