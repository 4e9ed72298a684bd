package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/dto"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/repository"
	"github.com/prohmpiriya/tournament-registration/pkg/logger"
)

// CompetitionService defines the interface for competition lifecycle operations
type CompetitionService interface {
	// Create creates an inactive, closed competition
	Create(ctx context.Context, req *dto.CreateCompetitionRequest) (*domain.Competition, error)
	// UpdateFlags toggles isActive/isOpen; activating deactivates every other competition
	UpdateFlags(ctx context.Context, id string, req *dto.UpdateCompetitionRequest) (*domain.Competition, error)
	// List retrieves all competitions, newest first
	List(ctx context.Context) ([]*domain.Competition, error)
	// GetActive retrieves the active competition
	GetActive(ctx context.Context) (*domain.Competition, error)
}

// competitionService implements CompetitionService
type competitionService struct {
	competitionRepo repository.CompetitionRepository
}

// NewCompetitionService creates a new CompetitionService
func NewCompetitionService(competitionRepo repository.CompetitionRepository) CompetitionService {
	return &competitionService{competitionRepo: competitionRepo}
}

// Create creates an inactive, closed competition
func (s *competitionService) Create(ctx context.Context, req *dto.CreateCompetitionRequest) (*domain.Competition, error) {
	competition, err := domain.NewCompetition(req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.competitionRepo.Create(ctx, competition); err != nil {
		return nil, fmt.Errorf("failed to create competition: %w", err)
	}

	logger.InfoCtx(ctx, "competition created",
		zap.String("competition_id", competition.ID),
		zap.String("name", competition.Name),
	)
	return competition, nil
}

// UpdateFlags applies a partial flag update. An update without flags
// returns the stored competition unchanged.
func (s *competitionService) UpdateFlags(ctx context.Context, id string, req *dto.UpdateCompetitionRequest) (*domain.Competition, error) {
	flags := req.ToFlags()
	if flags.IsEmpty() {
		competition, err := s.competitionRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get competition: %w", err)
		}
		if competition == nil {
			return nil, domain.ErrCompetitionNotFound
		}
		return competition, nil
	}

	competition, err := s.competitionRepo.UpdateFlags(ctx, id, flags)
	if err != nil {
		return nil, err
	}

	if flags.Activates() {
		logger.InfoCtx(ctx, "competition activated", zap.String("competition_id", id))
	}
	return competition, nil
}

// List retrieves all competitions, newest first
func (s *competitionService) List(ctx context.Context) ([]*domain.Competition, error) {
	return s.competitionRepo.List(ctx)
}

// GetActive retrieves the active competition
func (s *competitionService) GetActive(ctx context.Context) (*domain.Competition, error) {
	competition, err := s.competitionRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if competition == nil {
		return nil, domain.ErrNoActiveCompetition
	}
	return competition, nil
}
