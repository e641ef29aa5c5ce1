package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/incadev/coreadmin/internal/services"
)

// SecurityHandler is the administrative surface over the enforcement engine:
// block listing, manual block/unblock, event audit views, and the security
// settings store.
type SecurityHandler struct {
	enforcement *services.EnforcementService
	blocks      *services.BlockService
	events      *services.EventService
	settings    *services.SettingsService
}

// NewSecurityHandler creates a SecurityHandler.
func NewSecurityHandler(enforcement *services.EnforcementService, blocks *services.BlockService, events *services.EventService, settings *services.SettingsService) *SecurityHandler {
	return &SecurityHandler{enforcement: enforcement, blocks: blocks, events: events, settings: settings}
}

// blockView is the JSON shape for a block, with the presentation-only
// remaining time computed on demand.
type blockView struct {
	ID             uint       `json:"id"`
	UserID         uint       `json:"user_id"`
	BlockedBy      *uint      `json:"blocked_by"`
	Reason         string     `json:"reason"`
	BlockType      string     `json:"block_type"`
	BlockTypeLabel string     `json:"block_type_label"`
	BlockedAt      time.Time  `json:"blocked_at"`
	BlockedUntil   *time.Time `json:"blocked_until"`
	IsActive       bool       `json:"is_active"`
	UnblockedAt    *time.Time `json:"unblocked_at"`
	UnblockedBy    *uint      `json:"unblocked_by"`
	RemainingTime  string     `json:"remaining_time,omitempty"`
}

// ListBlocks returns block history; ?active=true filters to active rows.
func (h *SecurityHandler) ListBlocks(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	blocks, err := h.blocks.ListBlocks(activeOnly, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list blocks"})
		return
	}

	now := time.Now()
	views := make([]blockView, 0, len(blocks))
	for i := range blocks {
		b := &blocks[i]
		views = append(views, blockView{
			ID:             b.ID,
			UserID:         b.UserID,
			BlockedBy:      b.BlockedBy,
			Reason:         b.Reason,
			BlockType:      b.BlockType,
			BlockTypeLabel: b.BlockTypeLabel(),
			BlockedAt:      b.BlockedAt,
			BlockedUntil:   b.BlockedUntil,
			IsActive:       b.IsActive,
			UnblockedAt:    b.UnblockedAt,
			UnblockedBy:    b.UnblockedBy,
			RemainingTime:  b.RemainingTime(now),
		})
	}
	c.JSON(http.StatusOK, views)
}

// GetBlockStatus answers whether one user is currently blocked.
func (h *SecurityHandler) GetBlockStatus(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	blocked, block, err := h.enforcement.IsBlocked(uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check block status"})
		return
	}

	resp := gin.H{"blocked": blocked}
	if blocked {
		resp["reason"] = block.Reason
		resp["remaining_time"] = block.RemainingTime(time.Now())
		resp["block_type"] = block.BlockType
	}
	c.JSON(http.StatusOK, resp)
}

type ManualBlockRequest struct {
	UserID          uint   `json:"user_id" binding:"required"`
	Reason          string `json:"reason" binding:"required"`
	DurationMinutes *int   `json:"duration_minutes"` // null = permanent
}

// ManualBlock issues an administrator block, attributed to the caller.
func (h *SecurityHandler) ManualBlock(c *gin.Context) {
	var req ManualBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	block, err := h.enforcement.ManualBlock(req.UserID, req.Reason, req.DurationMinutes, adminID)
	if err != nil {
		if services.IsBenignConflict(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "user is already blocked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to block user"})
		return
	}

	c.JSON(http.StatusCreated, block)
}

// ManualUnblock lifts a block, attributed to the caller. A missing active
// block maps to 409, never a 5xx.
func (h *SecurityHandler) ManualUnblock(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	adminID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	block, unblockErr := h.enforcement.ManualUnblock(uint(userID), adminID)
	if unblockErr != nil {
		if services.IsBenignConflict(unblockErr) {
			c.JSON(http.StatusConflict, gin.H{"error": "user is not blocked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unblock user"})
		return
	}

	c.JSON(http.StatusOK, block)
}

// ListEvents returns recent security events for audit views.
func (h *SecurityHandler) ListEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	var (
		events interface{}
		err    error
	)
	if c.Query("severity") == "critical" {
		events, err = h.events.Critical(limit)
	} else {
		events, err = h.events.Recent(limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// ListUserEvents returns one user's security events.
func (h *SecurityHandler) ListUserEvents(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	events, err := h.events.ForUser(uint(userID), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetSettings returns all security settings.
func (h *SecurityHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

type UpdateSettingRequest struct {
	Key         string `json:"key" binding:"required"`
	Value       string `json:"value" binding:"required"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Group       string `json:"group"`
}

// UpdateSetting upserts a setting; the store evicts its cache entry so the
// next enforcement read sees the new value.
func (h *SecurityHandler) UpdateSetting(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setting, err := h.settings.Set(req.Key, req.Value, req.Type, req.Description, req.Group)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save setting"})
		return
	}
	c.JSON(http.StatusOK, setting)
}
