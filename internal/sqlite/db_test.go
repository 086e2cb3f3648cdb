package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.Migrate()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"neighbors",
		"activity_log",
		"kv_store",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	// Running again must be harmless.
	require.NoError(t, db.Migrate())
}

// TestNeighborsStatusConstraint verifies the closed status set
func TestNeighborsStatusConstraint(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO neighbors (id, name, address, phone, status, created_at) VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		"n1", "Ana", "Calle Mayor", "600", "NEW")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO neighbors (id, name, address, phone, status, created_at) VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		"n2", "Luis", "Calle Mayor", "601", "ARCHIVED")
	require.Error(t, err, "should fail with invalid status")
}
