package verification

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore appends verification records to PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, record Record) error {
	query := `
		INSERT INTO verifications (
			id, name, address, elector_key,
			matched, matched_worker_id, similarity, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.Name,
		record.Address,
		record.ElectorKey,
		record.Matched,
		record.MatchedWorkerID,
		record.Similarity,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert verification record: %w", err)
	}
	return nil
}
