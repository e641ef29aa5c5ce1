package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/incadev/coreadmin/internal/models"
)

var (
	// ErrProposalNotFound is returned when a proposal lookup misses.
	ErrProposalNotFound = errors.New("proposal not found")
	// ErrInvalidProposalStatus is returned for statuses outside the proposal
	// lifecycle (pending, approved, rejected).
	ErrInvalidProposalStatus = errors.New("unknown proposal status")
	// ErrGoalNotFound is returned when a strategic goal lookup misses.
	ErrGoalNotFound = errors.New("strategic goal not found")
)

// PlanningService manages improvement proposals and the strategic goals they
// are weighed against.
type PlanningService struct {
	db *gorm.DB
}

// NewPlanningService returns a PlanningService using the provided DB.
func NewPlanningService(db *gorm.DB) *PlanningService {
	return &PlanningService{db: db}
}

// CreateProposal stores a new proposal. An empty status starts as pending.
func (s *PlanningService) CreateProposal(proposal *models.Proposal) (*models.Proposal, error) {
	if proposal.Status == "" {
		proposal.Status = models.ProposalStatusPending
	}
	if !validProposalStatus(proposal.Status) {
		return nil, ErrInvalidProposalStatus
	}
	if err := s.db.Create(proposal).Error; err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}
	return proposal, nil
}

// ReviewProposal moves a proposal to a new lifecycle status.
func (s *PlanningService) ReviewProposal(id uint, status string) (*models.Proposal, error) {
	if !validProposalStatus(status) {
		return nil, ErrInvalidProposalStatus
	}
	proposal, err := s.GetProposal(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(proposal).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("review proposal: %w", err)
	}
	return s.GetProposal(id)
}

// GetProposal loads one proposal.
func (s *PlanningService) GetProposal(id uint) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := s.db.First(&proposal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("load proposal: %w", err)
	}
	return &proposal, nil
}

// ListProposals returns proposals filtered by status, newest first.
func (s *PlanningService) ListProposals(status string, limit int) ([]models.Proposal, error) {
	q := s.db.Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var proposals []models.Proposal
	if err := q.Find(&proposals).Error; err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	return proposals, nil
}

// DeleteProposal removes a proposal.
func (s *PlanningService) DeleteProposal(id uint) error {
	res := s.db.Delete(&models.Proposal{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete proposal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProposalNotFound
	}
	return nil
}

// CreateGoal stores a new strategic goal.
func (s *PlanningService) CreateGoal(goal *models.StrategicGoal) (*models.StrategicGoal, error) {
	if err := s.db.Create(goal).Error; err != nil {
		return nil, fmt.Errorf("create strategic goal: %w", err)
	}
	return goal, nil
}

// ListGoals returns all strategic goals, newest first.
func (s *PlanningService) ListGoals(limit int) ([]models.StrategicGoal, error) {
	q := s.db.Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var goals []models.StrategicGoal
	if err := q.Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("list strategic goals: %w", err)
	}
	return goals, nil
}

// DeleteGoal removes a strategic goal.
func (s *PlanningService) DeleteGoal(id uint) error {
	res := s.db.Delete(&models.StrategicGoal{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete strategic goal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func validProposalStatus(status string) bool {
	for _, s := range models.ProposalStatuses {
		if s == status {
			return true
		}
	}
	return false
}
