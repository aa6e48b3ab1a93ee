package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedUser inserts a user row and returns its id. Store tests need one
// because every table hangs off users via foreign keys.
func SeedUser(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, anon_token, display_name) VALUES ($1, $2, $3)`,
		id, fmt.Sprintf("test-token-%s", id), "Estudante Teste")
	if err != nil {
		t.Fatalf("SeedUser: %v", err)
	}
	return id
}

// SeedSession inserts a session row for the user and returns its id.
func SeedSession(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, title string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO sessions (id, user_id, title) VALUES ($1, $2, $3)`,
		id, userID, title)
	if err != nil {
		t.Fatalf("SeedSession: %v", err)
	}
	return id
}
