// Package dbtest opens the Postgres database used by store integration tests.
package dbtest

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/folio/internal/database"
)

// EnvURL names the variable holding the test database DSN. Tests that need a
// database are skipped when it is empty.
const EnvURL = "FOLIO_TEST_DATABASE_URL"

// lockKey serialises tests from different packages, which share one database.
const lockKey = 0x666f6c696f

// Open connects to the test database, applies migrations and empties every
// table so each test starts from a clean slate. It holds an advisory lock
// until the test ends.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv(EnvURL)
	if dsn == "" {
		t.Skipf("%s not set, skipping integration test", EnvURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, dsn, database.PoolConfig{
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	})
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	lockConn, err := db.Conn(context.Background())
	require.NoError(t, err)

	_, err = lockConn.ExecContext(context.Background(), "SELECT pg_advisory_lock($1)", lockKey)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = lockConn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", lockKey)
		lockConn.Close()
	})

	require.NoError(t, database.Migrate(db))

	_, err = db.ExecContext(ctx, `
		TRUNCATE portfolio_value, portfolio_month, investment_category RESTART IDENTITY CASCADE
	`)
	require.NoError(t, err)

	return db
}
