package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
)

// activationLockKey serializes activations across connections
const activationLockKey int64 = 0x746f75726e6579

const competitionColumns = `id, name, description, is_active, is_open, created_at, updated_at`

// PostgresCompetitionRepository implements CompetitionRepository using PostgreSQL
type PostgresCompetitionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCompetitionRepository creates a new PostgresCompetitionRepository
func NewPostgresCompetitionRepository(pool *pgxpool.Pool) *PostgresCompetitionRepository {
	return &PostgresCompetitionRepository{pool: pool}
}

// Create stores a new competition
func (r *PostgresCompetitionRepository) Create(ctx context.Context, competition *domain.Competition) error {
	query := `
		INSERT INTO competitions (id, name, description, is_active, is_open, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		competition.ID,
		competition.Name,
		competition.Description,
		competition.IsActive,
		competition.IsOpen,
		competition.CreatedAt,
		competition.UpdatedAt,
	)
	return err
}

// GetByID retrieves a competition by ID
func (r *PostgresCompetitionRepository) GetByID(ctx context.Context, id string) (*domain.Competition, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE id = $1`
	return scanCompetitionRow(r.pool.QueryRow(ctx, query, id))
}

// GetActive retrieves the active competition
func (r *PostgresCompetitionRepository) GetActive(ctx context.Context) (*domain.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE is_active LIMIT 1`
	return scanCompetitionRow(r.pool.QueryRow(ctx, query))
}

// List retrieves all competitions, newest first
func (r *PostgresCompetitionRepository) List(ctx context.Context) ([]*domain.Competition, error) {
	query := `SELECT ` + competitionColumns + ` FROM competitions ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	competitions := make([]*domain.Competition, 0)
	for rows.Next() {
		c := &domain.Competition{}
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.IsActive,
			&c.IsOpen,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		competitions = append(competitions, c)
	}
	return competitions, rows.Err()
}

// UpdateFlags applies flags in one transaction. When activating, a transaction-scoped
// advisory lock orders concurrent activations and every other active row is cleared
// before the target is set; the partial unique index rejects anything that slips through.
func (r *PostgresCompetitionRepository) UpdateFlags(ctx context.Context, id string, flags domain.CompetitionFlags) (*domain.Competition, error) {
	if !isUUID(id) {
		return nil, domain.ErrCompetitionNotFound
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if flags.Activates() {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, activationLockKey); err != nil {
			return nil, fmt.Errorf("failed to acquire activation lock: %w", err)
		}
	}

	query := `SELECT ` + competitionColumns + ` FROM competitions WHERE id = $1 FOR UPDATE`
	competition, err := scanCompetitionRow(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if competition == nil {
		return nil, domain.ErrCompetitionNotFound
	}

	now := time.Now().UTC()

	if flags.Activates() {
		_, err := tx.Exec(ctx, `
			UPDATE competitions
			SET is_active = false, updated_at = $2
			WHERE is_active AND id <> $1
		`, id, now)
		if err != nil {
			return nil, fmt.Errorf("failed to deactivate competitions: %w", err)
		}
	}

	competition.Apply(flags, now)

	_, err = tx.Exec(ctx, `
		UPDATE competitions
		SET is_active = $2, is_open = $3, updated_at = $4
		WHERE id = $1
	`, competition.ID, competition.IsActive, competition.IsOpen, competition.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update competition: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit competition update: %w", err)
	}
	return competition, nil
}

func scanCompetitionRow(row pgx.Row) (*domain.Competition, error) {
	c := &domain.Competition{}
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.IsActive,
		&c.IsOpen,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// isUUID guards UUID columns against malformed ids, which Postgres would reject with a cast error
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
