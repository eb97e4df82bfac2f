package ioschema_test

import (
	"context"
	"testing"

	"github.com/edstats/rmpdb/internal/iodb"
	"github.com/edstats/rmpdb/internal/ioschema"
	"github.com/edstats/rmpdb/internal/iotesting"
	"github.com/edstats/rmpdb/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests requiring PostgreSQL; see internal/iodb for the
// connection conventions. Skipped with go test -short.

func connectTestDB(t *testing.T) db.Operator {
	t.Helper()

	op := iodb.NewPgxOperator()
	err := op.Connect(context.Background(), iotesting.GetTestDatabaseConfig())
	require.NoError(t, err, "Connect should succeed with valid config")
	t.Cleanup(func() { _ = op.Close() })
	return op
}

func TestManagerCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := connectTestDB(t)
	ctx := context.Background()
	require.NoError(t, op.DropAllTables(ctx))

	sm := ioschema.NewManager(op)
	require.NoError(t, sm.Create(ctx))

	for _, table := range []string{
		"teachers", "teacher_courses", "teacher_tag_counts",
		"teacher_course_tag_counts", "ratings_raw",
	} {
		exists, err := op.TableExists(ctx, table)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist after Create", table)
	}

	// foreign keys reject orphaned rows
	_, err := op.Pool().Exec(ctx,
		`INSERT INTO teacher_courses (teacher_id, class_code, n_ratings)
		 VALUES ('NOPE', 'MATH1551', 1)`)
	assert.Error(t, err, "orphaned teacher_id should violate the constraint")
}

func TestManagerMigrateIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := connectTestDB(t)
	ctx := context.Background()
	require.NoError(t, op.DropAllTables(ctx))

	sm := ioschema.NewManager(op)
	require.NoError(t, sm.Create(ctx))

	// migrating an up-to-date schema is a no-op, not an error
	require.NoError(t, sm.Migrate(ctx))
	require.NoError(t, sm.Migrate(ctx))
}

func TestManagerNotConnected(t *testing.T) {
	sm := ioschema.NewManager(iodb.NewPgxOperator())
	assert.Error(t, sm.Create(context.Background()))
	assert.Error(t, sm.Migrate(context.Background()))
}
