package repository

import (
	"context"
	"time"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
)

// CompetitionRepository defines the interface for competition data access
type CompetitionRepository interface {
	// Create stores a new competition
	Create(ctx context.Context, competition *domain.Competition) error
	// GetByID retrieves a competition by ID, nil if absent
	GetByID(ctx context.Context, id string) (*domain.Competition, error)
	// GetActive retrieves the active competition, nil if none
	GetActive(ctx context.Context) (*domain.Competition, error)
	// List retrieves all competitions, newest first
	List(ctx context.Context) ([]*domain.Competition, error)
	// UpdateFlags applies a partial flag update. Activating a competition
	// deactivates every other one atomically.
	UpdateFlags(ctx context.Context, id string, flags domain.CompetitionFlags) (*domain.Competition, error)
}

// ContestantRepository defines the interface for contestant data access
type ContestantRepository interface {
	// Create stores a new contestant
	Create(ctx context.Context, contestant *domain.Contestant) error
	// GetByID retrieves a contestant by ID, nil if absent
	GetByID(ctx context.Context, id string) (*domain.Contestant, error)
	// List retrieves contestants newest first with their competition embedded.
	// An empty competitionID lists every competition.
	List(ctx context.Context, competitionID string) ([]*domain.Contestant, error)
	// MarkPaid sets paid=true if not already paid
	MarkPaid(ctx context.Context, id string, at time.Time) (changed bool, err error)
}

var (
	_ CompetitionRepository = (*PostgresCompetitionRepository)(nil)
	_ CompetitionRepository = (*MemoryCompetitionRepository)(nil)
	_ ContestantRepository  = (*PostgresContestantRepository)(nil)
	_ ContestantRepository  = (*MemoryContestantRepository)(nil)
)
