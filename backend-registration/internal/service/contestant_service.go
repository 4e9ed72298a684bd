package service

import (
	"context"
	"fmt"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/repository"
)

// ContestantService defines the interface for the admin contestant listing
type ContestantService interface {
	// List retrieves contestants matching filter, newest first, with their competition embedded
	List(ctx context.Context, filter domain.ContestantFilter) ([]*domain.Contestant, error)
}

// contestantService implements ContestantService
type contestantService struct {
	contestantRepo repository.ContestantRepository
}

// NewContestantService creates a new ContestantService
func NewContestantService(contestantRepo repository.ContestantRepository) ContestantService {
	return &contestantService{contestantRepo: contestantRepo}
}

// List pushes the competition down to the repository and applies the rest in memory
func (s *contestantService) List(ctx context.Context, filter domain.ContestantFilter) ([]*domain.Contestant, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	contestants, err := s.contestantRepo.List(ctx, filter.CompetitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contestants: %w", err)
	}
	return filter.Apply(contestants), nil
}
