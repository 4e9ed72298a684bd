package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
)

// MemoryCompetitionRepository keeps competitions in process memory.
// A single mutex makes every flag update atomic.
type MemoryCompetitionRepository struct {
	mu           sync.RWMutex
	competitions map[string]*domain.Competition
	seq          map[string]int64
	next         int64
}

// NewMemoryCompetitionRepository creates an empty repository
func NewMemoryCompetitionRepository() *MemoryCompetitionRepository {
	return &MemoryCompetitionRepository{
		competitions: make(map[string]*domain.Competition),
		seq:          make(map[string]int64),
	}
}

// Create stores a copy of competition
func (r *MemoryCompetitionRepository) Create(_ context.Context, competition *domain.Competition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if competition.IsActive {
		for _, c := range r.competitions {
			c.IsActive = false
		}
	}
	r.next++
	r.competitions[competition.ID] = copyCompetition(competition)
	r.seq[competition.ID] = r.next
	return nil
}

// GetByID retrieves a competition by ID
func (r *MemoryCompetitionRepository) GetByID(_ context.Context, id string) (*domain.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.competitions[id]
	if !ok {
		return nil, nil
	}
	return copyCompetition(c), nil
}

// GetActive retrieves the active competition
func (r *MemoryCompetitionRepository) GetActive(_ context.Context) (*domain.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.competitions {
		if c.IsActive {
			return copyCompetition(c), nil
		}
	}
	return nil, nil
}

// List retrieves all competitions, newest first
func (r *MemoryCompetitionRepository) List(_ context.Context) ([]*domain.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Competition, 0, len(r.competitions))
	for _, c := range r.competitions {
		out = append(out, copyCompetition(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out, nil
}

// UpdateFlags applies flags, clearing every other active competition on activation
func (r *MemoryCompetitionRepository) UpdateFlags(_ context.Context, id string, flags domain.CompetitionFlags) (*domain.Competition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.competitions[id]
	if !ok {
		return nil, domain.ErrCompetitionNotFound
	}

	now := time.Now().UTC()
	if flags.Activates() {
		for otherID, c := range r.competitions {
			if otherID != id && c.IsActive {
				c.IsActive = false
				c.UpdatedAt = now
			}
		}
	}
	target.Apply(flags, now)
	return copyCompetition(target), nil
}

func (r *MemoryCompetitionRepository) exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.competitions[id]
	return ok
}

func copyCompetition(c *domain.Competition) *domain.Competition {
	cp := *c
	if c.Description != nil {
		d := *c.Description
		cp.Description = &d
	}
	return &cp
}

// MemoryContestantRepository keeps contestants in process memory and resolves
// their competition through a MemoryCompetitionRepository
type MemoryContestantRepository struct {
	mu           sync.RWMutex
	competitions *MemoryCompetitionRepository
	contestants  map[string]*domain.Contestant
	seq          map[string]int64
	next         int64
}

// NewMemoryContestantRepository creates an empty repository
func NewMemoryContestantRepository(competitions *MemoryCompetitionRepository) *MemoryContestantRepository {
	return &MemoryContestantRepository{
		competitions: competitions,
		contestants:  make(map[string]*domain.Contestant),
		seq:          make(map[string]int64),
	}
}

// Create stores a copy of contestant
func (r *MemoryContestantRepository) Create(_ context.Context, contestant *domain.Contestant) error {
	if !r.competitions.exists(contestant.CompetitionID) {
		return domain.ErrCompetitionNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := copyContestant(contestant)
	cp.Competition = nil
	r.next++
	r.contestants[contestant.ID] = cp
	r.seq[contestant.ID] = r.next
	return nil
}

// GetByID retrieves a contestant by ID
func (r *MemoryContestantRepository) GetByID(ctx context.Context, id string) (*domain.Contestant, error) {
	r.mu.RLock()
	c, ok := r.contestants[id]
	if ok {
		c = copyContestant(c)
	}
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	competition, err := r.competitions.GetByID(ctx, c.CompetitionID)
	if err != nil {
		return nil, err
	}
	c.Competition = competition
	return c, nil
}

// List retrieves contestants newest first with their competition embedded
func (r *MemoryContestantRepository) List(ctx context.Context, competitionID string) ([]*domain.Contestant, error) {
	r.mu.RLock()
	out := make([]*domain.Contestant, 0, len(r.contestants))
	for _, c := range r.contestants {
		if competitionID != "" && c.CompetitionID != competitionID {
			continue
		}
		out = append(out, copyContestant(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	r.mu.RUnlock()

	for _, c := range out {
		competition, err := r.competitions.GetByID(ctx, c.CompetitionID)
		if err != nil {
			return nil, err
		}
		c.Competition = competition
	}
	return out, nil
}

// MarkPaid sets paid=true if not already paid
func (r *MemoryContestantRepository) MarkPaid(_ context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contestants[id]
	if !ok {
		return false, domain.ErrContestantNotFound
	}
	return c.MarkPaid(at)
}

func copyContestant(c *domain.Contestant) *domain.Contestant {
	cp := *c
	if c.PaidAt != nil {
		t := *c.PaidAt
		cp.PaidAt = &t
	}
	return &cp
}
