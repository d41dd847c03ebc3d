package test_utils

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestUser inserts a user row directly and returns its id. Repository
// tests need one because all domain tables have a foreign key on users.
// Raw SQL keeps this package free of a pkg/user import, which would cycle
// through the user repository tests.
func CreateTestUser(t *testing.T, db *pgxpool.Pool) int {
	t.Helper()
	return CreateTestUserWithRole(t, db, "athlete")
}

// CreateTestUserWithRole inserts a user row with the given role and returns its id.
func CreateTestUserWithRole(t *testing.T, db *pgxpool.Pool, role string) int {
	t.Helper()

	uid := uuid.NewString()
	var id int
	err := db.QueryRow(context.Background(),
		`INSERT INTO users (uid, username, display_name, role, timezone, weight_unit)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		uid, fmt.Sprintf("test_user_%.8s", uid), "Test User", role, "Europe/Warsaw", "kg",
	).Scan(&id)
	require.NoError(t, err)
	return id
}
