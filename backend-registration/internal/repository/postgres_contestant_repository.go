package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
)

const pgForeignKeyViolation = "23503"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresContestantRepository implements ContestantRepository using PostgreSQL
type PostgresContestantRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresContestantRepository creates a new PostgresContestantRepository
func NewPostgresContestantRepository(pool *pgxpool.Pool) *PostgresContestantRepository {
	return &PostgresContestantRepository{pool: pool}
}

// Create stores a new contestant
func (r *PostgresContestantRepository) Create(ctx context.Context, contestant *domain.Contestant) error {
	query := `
		INSERT INTO contestants (
			id, first_name, last_name, karate_school, belt_color, age, email,
			kata, kumite, paid, paid_at, competition_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.pool.Exec(ctx, query,
		contestant.ID,
		contestant.FirstName,
		contestant.LastName,
		contestant.KarateSchool,
		string(contestant.BeltColor),
		contestant.Age,
		contestant.Email,
		contestant.Kata,
		contestant.Kumite,
		contestant.Paid,
		contestant.PaidAt,
		contestant.CompetitionID,
		contestant.CreatedAt,
		contestant.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return domain.ErrCompetitionNotFound
		}
		return err
	}
	return nil
}

// GetByID retrieves a contestant by ID
func (r *PostgresContestantRepository) GetByID(ctx context.Context, id string) (*domain.Contestant, error) {
	if !isUUID(id) {
		return nil, nil
	}

	query, args, err := contestantSelect().Where(sq.Eq{"ct.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	contestant, err := scanContestant(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return contestant, nil
}

// List retrieves contestants newest first with their competition embedded
func (r *PostgresContestantRepository) List(ctx context.Context, competitionID string) ([]*domain.Contestant, error) {
	builder := contestantSelect().OrderBy("ct.created_at DESC", "ct.id DESC")
	if competitionID != "" {
		if !isUUID(competitionID) {
			return []*domain.Contestant{}, nil
		}
		builder = builder.Where(sq.Eq{"ct.competition_id": competitionID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contestants := make([]*domain.Contestant, 0)
	for rows.Next() {
		contestant, err := scanContestant(rows)
		if err != nil {
			return nil, err
		}
		contestants = append(contestants, contestant)
	}
	return contestants, rows.Err()
}

// MarkPaid flips paid to true with a conditional update, so concurrent or
// replayed confirmations change the row at most once
func (r *PostgresContestantRepository) MarkPaid(ctx context.Context, id string, at time.Time) (bool, error) {
	if !isUUID(id) {
		return false, domain.ErrContestantNotFound
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE contestants
		SET paid = true, paid_at = $2, updated_at = $2
		WHERE id = $1 AND NOT paid
	`, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to mark contestant paid: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM contestants WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, domain.ErrContestantNotFound
	}
	return false, nil
}

func contestantSelect() sq.SelectBuilder {
	return psql.Select(
		"ct.id", "ct.first_name", "ct.last_name", "ct.karate_school", "ct.belt_color", "ct.age",
		"ct.email", "ct.kata", "ct.kumite", "ct.paid", "ct.paid_at", "ct.competition_id",
		"ct.created_at", "ct.updated_at",
		"c.id", "c.name", "c.description", "c.is_active", "c.is_open", "c.created_at", "c.updated_at",
	).
		From("contestants ct").
		Join("competitions c ON c.id = ct.competition_id")
}

func scanContestant(row pgx.Row) (*domain.Contestant, error) {
	ct := &domain.Contestant{}
	c := &domain.Competition{}
	var belt string
	err := row.Scan(
		&ct.ID,
		&ct.FirstName,
		&ct.LastName,
		&ct.KarateSchool,
		&belt,
		&ct.Age,
		&ct.Email,
		&ct.Kata,
		&ct.Kumite,
		&ct.Paid,
		&ct.PaidAt,
		&ct.CompetitionID,
		&ct.CreatedAt,
		&ct.UpdatedAt,
		&c.ID,
		&c.Name,
		&c.Description,
		&c.IsActive,
		&c.IsOpen,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ct.BeltColor = domain.BeltColor(belt)
	ct.Competition = c
	return ct, nil
}
