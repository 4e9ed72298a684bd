package repository

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/domain"
	"github.com/prohmpiriya/tournament-registration/pkg/database"
)

func skipIfNoIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}
}

func setupTestDB(t *testing.T) *database.PostgresDB {
	ctx := context.Background()

	port, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		t.Fatalf("Invalid POSTGRES_PORT: %v", err)
	}

	cfg := &database.PostgresConfig{
		Host:            getEnv("POSTGRES_HOST", "localhost"),
		Port:            port,
		User:            getEnv("POSTGRES_USER", "postgres"),
		Password:        getEnv("POSTGRES_PASSWORD", "postgres"),
		Database:        getEnv("POSTGRES_DB", "tournament_test"),
		SSLMode:         "disable",
		MaxConns:        10,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 1 * time.Minute,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
	}

	db, err := database.NewPostgres(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := EnsureSchema(ctx, db.Pool()); err != nil {
		db.Close()
		t.Fatalf("Failed to apply schema: %v", err)
	}
	cleanupTestData(t, db)

	return db
}

func cleanupTestData(t *testing.T, db *database.PostgresDB) {
	ctx := context.Background()
	if err := db.Exec(ctx, "DELETE FROM contestants"); err != nil {
		t.Logf("Warning: failed to cleanup contestants: %v", err)
	}
	if err := db.Exec(ctx, "DELETE FROM competitions"); err != nil {
		t.Logf("Warning: failed to cleanup competitions: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func TestPostgresCompetitionRepository_CreateAndGet(t *testing.T) {
	skipIfNoIntegration(t)

	db := setupTestDB(t)
	defer db.Close()
	defer cleanupTestData(t, db)

	repo := NewPostgresCompetitionRepository(db.Pool())
	ctx := context.Background()

	desc := "Voorjaarstoernooi"
	competition, err := domain.NewCompetition("Spring 2025", &desc)
	if err != nil {
		t.Fatalf("Failed to create competition: %v", err)
	}

	if err := repo.Create(ctx, competition); err != nil {
		t.Fatalf("Failed to create competition in DB: %v", err)
	}

	found, err := repo.GetByID(ctx, competition.ID)
	if err != nil {
		t.Fatalf("Failed to get competition: %v", err)
	}
	if found == nil {
		t.Fatal("Expected competition, got nil")
	}
	if found.Name != "Spring 2025" {
		t.Errorf("Expected name 'Spring 2025', got %s", found.Name)
	}
	if found.Description == nil || *found.Description != desc {
		t.Errorf("Expected description %q, got %v", desc, found.Description)
	}
	if found.IsActive || found.IsOpen {
		t.Error("New competition must be inactive and closed")
	}
}

func TestPostgresCompetitionRepository_GetByID_NotFound(t *testing.T) {
	skipIfNoIntegration(t)

	db := setupTestDB(t)
	defer db.Close()

	repo := NewPostgresCompetitionRepository(db.Pool())
	ctx := context.Background()

	for _, id := range []string{uuid.New().String(), "not-a-uuid"} {
		found, err := repo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("Expected no error for %q, got %v", id, err)
		}
		if found != nil {
			t.Errorf("Expected nil for %q", id)
		}
	}
}

func TestPostgresCompetitionRepository_UpdateFlags(t *testing.T) {
	skipIfNoIntegration(t)

	db := setupTestDB(t)
	defer db.Close()
	defer cleanupTestData(t, db)

	repo := NewPostgresCompetitionRepository(db.Pool())
	ctx := context.Background()

	a, _ := domain.NewCompetition("Spring 2025", nil)
	b, _ := domain.NewCompetition("Autumn 2025", nil)
	_ = repo.Create(ctx, a)
	_ = repo.Create(ctx, b)

	active := true
	if _, err := repo.UpdateFlags(ctx, a.ID, domain.CompetitionFlags{IsActive: &active}); err != nil {
		t.Fatalf("Failed to activate a: %v", err)
	}
	updated, err := repo.UpdateFlags(ctx, b.ID, domain.CompetitionFlags{IsActive: &active})
	if err != nil {
		t.Fatalf("Failed to activate b: %v", err)
	}
	if !updated.IsActive {
		t.Error("Expected b to be active")
	}

	current, err := repo.GetActive(ctx)
	if err != nil {
		t.Fatalf("Failed to get active: %v", err)
	}
	if current == nil || current.ID != b.ID {
		t.Errorf("Expected active competition %s, got %v", b.ID, current)
	}

	_, err = repo.UpdateFlags(ctx, uuid.New().String(), domain.CompetitionFlags{IsActive: &active})
	if !errors.Is(err, domain.ErrCompetitionNotFound) {
		t.Errorf("Expected ErrCompetitionNotFound, got %v", err)
	}

	current, _ = repo.GetActive(ctx)
	if current == nil || current.ID != b.ID {
		t.Error("Unknown id must not change the active competition")
	}
}

func TestPostgresCompetitionRepository_ConcurrentActivation(t *testing.T) {
	skipIfNoIntegration(t)

	db := setupTestDB(t)
	defer db.Close()
	defer cleanupTestData(t, db)

	repo := NewPostgresCompetitionRepository(db.Pool())
	ctx := context.Background()

	ids := make([]string, 8)
	for i := range ids {
		c, _ := domain.NewCompetition("Competition", nil)
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Failed to create competition: %v", err)
		}
		ids[i] = c.ID
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(ids))
	active := true
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := repo.UpdateFlags(ctx, id, domain.CompetitionFlags{IsActive: &active}); err != nil {
				errs <- err
			}
		}(id)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent activation failed: %v", err)
	}

	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM competitions WHERE is_active").Scan(&count); err != nil {
		t.Fatalf("Failed to count active competitions: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly 1 active competition, got %d", count)
	}
}

func TestPostgresContestantRepository_Lifecycle(t *testing.T) {
	skipIfNoIntegration(t)

	db := setupTestDB(t)
	defer db.Close()
	defer cleanupTestData(t, db)

	competitions := NewPostgresCompetitionRepository(db.Pool())
	repo := NewPostgresContestantRepository(db.Pool())
	ctx := context.Background()

	competition, _ := domain.NewCompetition("Spring 2025", nil)
	if err := competitions.Create(ctx, competition); err != nil {
		t.Fatalf("Failed to create competition: %v", err)
	}

	contestant, err := domain.NewContestant(&domain.RegistrationInput{
		FirstName:    "Ana",
		LastName:     "Lee",
		KarateSchool: "Kenshikai",
		BeltColor:    "Wit",
		Age:          "16",
		Email:        "a@x.com",
		Kata:         true,
	}, competition)
	if err != nil {
		t.Fatalf("Failed to build contestant: %v", err)
	}

	if err := repo.Create(ctx, contestant); err != nil {
		t.Fatalf("Failed to create contestant: %v", err)
	}

	list, err := repo.List(ctx, competition.ID)
	if err != nil {
		t.Fatalf("Failed to list contestants: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 contestant, got %d", len(list))
	}
	if list[0].Competition == nil || list[0].Competition.Name != "Spring 2025" {
		t.Error("Expected embedded competition")
	}
	if list[0].BeltColor != domain.BeltWhite {
		t.Errorf("Expected belt Wit, got %s", list[0].BeltColor)
	}

	changed, err := repo.MarkPaid(ctx, contestant.ID, time.Now().UTC())
	if err != nil || !changed {
		t.Fatalf("Expected first MarkPaid to change, got changed=%v err=%v", changed, err)
	}
	changed, err = repo.MarkPaid(ctx, contestant.ID, time.Now().UTC())
	if err != nil || changed {
		t.Errorf("Expected replayed MarkPaid to be a no-op, got changed=%v err=%v", changed, err)
	}

	found, err := repo.GetByID(ctx, contestant.ID)
	if err != nil {
		t.Fatalf("Failed to get contestant: %v", err)
	}
	if !found.Paid || found.PaidAt == nil {
		t.Error("Expected contestant to be paid")
	}

	if _, err := repo.MarkPaid(ctx, uuid.New().String(), time.Now()); !errors.Is(err, domain.ErrContestantNotFound) {
		t.Errorf("Expected ErrContestantNotFound, got %v", err)
	}

	orphan := *contestant
	orphan.ID = uuid.New().String()
	orphan.CompetitionID = uuid.New().String()
	if err := repo.Create(ctx, &orphan); !errors.Is(err, domain.ErrCompetitionNotFound) {
		t.Errorf("Expected ErrCompetitionNotFound for unknown competition, got %v", err)
	}
}
