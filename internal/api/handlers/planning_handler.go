package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/incadev/coreadmin/internal/models"
	"github.com/incadev/coreadmin/internal/services"
)

// PlanningHandler exposes CRUD for improvement proposals and strategic goals.
type PlanningHandler struct {
	planning *services.PlanningService
}

// NewPlanningHandler creates a PlanningHandler.
func NewPlanningHandler(planning *services.PlanningService) *PlanningHandler {
	return &PlanningHandler{planning: planning}
}

type CreateProposalRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateProposal stores a new proposal, authored by the caller.
func (h *PlanningHandler) CreateProposal(c *gin.Context) {
	var req CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	proposal := &models.Proposal{
		Title:       req.Title,
		Description: req.Description,
		AuthorID:    &author,
	}
	created, err := h.planning.CreateProposal(proposal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create proposal"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListProposals returns proposals filtered by ?status=.
func (h *PlanningHandler) ListProposals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	proposals, err := h.planning.ListProposals(c.Query("status"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list proposals"})
		return
	}
	c.JSON(http.StatusOK, proposals)
}

// GetProposal returns one proposal.
func (h *PlanningHandler) GetProposal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
		return
	}

	proposal, err := h.planning.GetProposal(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrProposalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "proposal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load proposal"})
		return
	}
	c.JSON(http.StatusOK, proposal)
}

type ReviewProposalRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReviewProposal moves a proposal to a new lifecycle status.
func (h *PlanningHandler) ReviewProposal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
		return
	}

	var req ReviewProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposal, err := h.planning.ReviewProposal(uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProposalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "proposal not found"})
		case errors.Is(err, services.ErrInvalidProposalStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to review proposal"})
		}
		return
	}
	c.JSON(http.StatusOK, proposal)
}

// DeleteProposal removes a proposal.
func (h *PlanningHandler) DeleteProposal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
		return
	}

	if err := h.planning.DeleteProposal(uint(id)); err != nil {
		if errors.Is(err, services.ErrProposalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "proposal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete proposal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "proposal deleted"})
}

type CreateGoalRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"target_date"`
}

// CreateGoal stores a new strategic goal.
func (h *PlanningHandler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal := &models.StrategicGoal{
		Name:        req.Name,
		Description: req.Description,
		TargetDate:  req.TargetDate,
	}
	created, err := h.planning.CreateGoal(goal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create goal"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListGoals returns all strategic goals.
func (h *PlanningHandler) ListGoals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	goals, err := h.planning.ListGoals(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list goals"})
		return
	}
	c.JSON(http.StatusOK, goals)
}

// DeleteGoal removes a strategic goal.
func (h *PlanningHandler) DeleteGoal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}

	if err := h.planning.DeleteGoal(uint(id)); err != nil {
		if errors.Is(err, services.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete goal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "goal deleted"})
}
