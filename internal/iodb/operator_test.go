package iodb_test

import (
	"context"
	"testing"

	"github.com/edstats/rmpdb/internal/iodb"
	"github.com/edstats/rmpdb/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: These are integration tests that require PostgreSQL.
//
// Connection settings come from RMPDB_DATABASE_* environment variables
// on top of the built-in defaults (postgres/postgres@localhost). The
// database name is always forced to "rmpdb_test" for safety.
//
// Run a disposable server with:
//   docker run -d -e POSTGRES_PASSWORD=postgres -p 5432:5432 postgres:15
//
// Skip these tests without a server using:
//   go test -short

func TestPgxOperator_Connect(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err, "Connect should succeed with valid config")
	defer op.Close()

	exists, err := op.TableExists(ctx, "nonexistent_table")
	assert.NoError(t, err, "Should be able to execute commands after Connect")
	assert.False(t, exists)
}

func TestPgxOperator_Connect_InvalidHost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	cfg := iotesting.GetTestDatabaseConfig()
	cfg.Host = "invalid-host-that-does-not-exist"

	err := op.Connect(ctx, cfg)
	assert.Error(t, err, "Connect should fail with invalid host")
}

func TestPgxOperator_TableExists(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err)
	defer op.Close()

	_, _ = op.Pool().Exec(ctx, "DROP TABLE IF EXISTS table_exists_probe CASCADE")

	exists, err := op.TableExists(ctx, "table_exists_probe")
	require.NoError(t, err)
	assert.False(t, exists, "Table should not exist initially")

	_, err = op.Pool().Exec(ctx,
		"CREATE TABLE table_exists_probe (id SERIAL PRIMARY KEY)")
	require.NoError(t, err)

	exists, err = op.TableExists(ctx, "table_exists_probe")
	require.NoError(t, err)
	assert.True(t, exists, "Table should exist after creation")

	_, _ = op.Pool().Exec(ctx, "DROP TABLE table_exists_probe")
}

func TestPgxOperator_DropAllTables(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err)
	defer op.Close()

	_, _ = op.Pool().Exec(ctx,
		"CREATE TABLE IF NOT EXISTS drop_probe1 (id SERIAL PRIMARY KEY)")
	_, _ = op.Pool().Exec(ctx,
		"CREATE TABLE IF NOT EXISTS drop_probe2 (id SERIAL PRIMARY KEY)")

	err = op.DropAllTables(ctx)
	require.NoError(t, err)

	exists1, _ := op.TableExists(ctx, "drop_probe1")
	exists2, _ := op.TableExists(ctx, "drop_probe2")
	assert.False(t, exists1, "drop_probe1 should be dropped")
	assert.False(t, exists2, "drop_probe2 should be dropped")
}
