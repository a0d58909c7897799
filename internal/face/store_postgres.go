package face

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"verident/pkg/sentinel"
)

// PostgresStore persists enrollments in PostgreSQL. Embeddings are stored as
// JSON arrays; the corpus is small enough that comparison happens in process
// after a paged scan.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InsertIfAbsent relies on the primary key on worker_id: ON CONFLICT DO
// NOTHING with zero rows affected means the worker was already enrolled.
func (s *PostgresStore) InsertIfAbsent(ctx context.Context, enrollment Enrollment) error {
	embedding, err := json.Marshal(enrollment.Embedding)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}

	query := `
		INSERT INTO enrollments (worker_id, embedding, enrolled_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (worker_id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query, enrollment.WorkerID, embedding, enrollment.EnrolledAt)
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) FindByWorker(ctx context.Context, workerID string) (Enrollment, error) {
	query := `SELECT worker_id, embedding, enrolled_at FROM enrollments WHERE worker_id = $1`
	enrollment, err := scanEnrollment(s.db.QueryRowContext(ctx, query, workerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Enrollment{}, sentinel.ErrNotFound
		}
		return Enrollment{}, fmt.Errorf("find enrollment: %w", err)
	}
	return enrollment, nil
}

func (s *PostgresStore) Scan(ctx context.Context, cursor string, limit int) ([]Enrollment, string, error) {
	query := `
		SELECT worker_id, embedding, enrolled_at
		FROM enrollments
		WHERE worker_id > $1
		ORDER BY worker_id
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, cursor, limit)
	if err != nil {
		return nil, "", fmt.Errorf("scan enrollments: %w", err)
	}
	defer rows.Close()

	var page []Enrollment
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, "", fmt.Errorf("scan enrollment row: %w", err)
		}
		page = append(page, enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterate enrollments: %w", err)
	}

	next := ""
	if len(page) == limit {
		next = page[len(page)-1].WorkerID
	}
	return page, next, nil
}

func (s *PostgresStore) Latest(ctx context.Context) (Enrollment, error) {
	query := `SELECT worker_id, embedding, enrolled_at FROM enrollments ORDER BY enrolled_at DESC LIMIT 1`
	enrollment, err := scanEnrollment(s.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Enrollment{}, sentinel.ErrNotFound
		}
		return Enrollment{}, fmt.Errorf("find latest enrollment: %w", err)
	}
	return enrollment, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnrollment(row rowScanner) (Enrollment, error) {
	var (
		enrollment Enrollment
		embedding  []byte
	)
	if err := row.Scan(&enrollment.WorkerID, &embedding, &enrollment.EnrolledAt); err != nil {
		return Enrollment{}, err
	}
	if err := json.Unmarshal(embedding, &enrollment.Embedding); err != nil {
		return Enrollment{}, fmt.Errorf("unmarshal embedding: %w", err)
	}
	return enrollment, nil
}
