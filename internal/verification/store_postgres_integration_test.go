//go:build integration

package verification

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const verificationsSchema = `
CREATE TABLE IF NOT EXISTS verifications (
    id                UUID PRIMARY KEY,
    name              TEXT,
    address           TEXT,
    elector_key       TEXT,
    matched           BOOLEAN NOT NULL DEFAULT FALSE,
    matched_worker_id TEXT,
    similarity        DOUBLE PRECISION,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("verident_test"),
		tcpostgres.WithUsername("verident"),
		tcpostgres.WithPassword("verident"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, verificationsSchema)
	require.NoError(t, err)
	return db
}

func TestPostgresStoreInsert(t *testing.T) {
	ctx := context.Background()
	db := startPostgres(t)
	store := NewPostgresStore(db)

	name := "JUAN PEREZ LOPEZ"
	workerID := "w1"
	similarity := 91.2
	record := Record{
		ID:              uuid.NewString(),
		Name:            &name,
		Matched:         true,
		MatchedWorkerID: &workerID,
		Similarity:      &similarity,
		CreatedAt:       time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Insert(ctx, record))

	var (
		gotName       sql.NullString
		gotAddress    sql.NullString
		gotMatched    bool
		gotSimilarity sql.NullFloat64
	)
	row := db.QueryRowContext(ctx,
		`SELECT name, address, matched, similarity FROM verifications WHERE id = $1`, record.ID)
	require.NoError(t, row.Scan(&gotName, &gotAddress, &gotMatched, &gotSimilarity))

	assert.Equal(t, name, gotName.String)
	assert.False(t, gotAddress.Valid)
	assert.True(t, gotMatched)
	assert.InDelta(t, similarity, gotSimilarity.Float64, 1e-9)
}
