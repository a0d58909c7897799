package face

import "context"

// Store persists enrolled reference faces. Implementations return
// pkg/sentinel errors; services translate them into domain errors.
type Store interface {
	// InsertIfAbsent persists the enrollment unless the worker already has
	// one, in which case it returns sentinel.ErrConflict without touching the
	// existing row. The check and the insert are a single conditional
	// operation at the store boundary so concurrent enrollments for one
	// worker cannot both succeed.
	InsertIfAbsent(ctx context.Context, enrollment Enrollment) error

	// FindByWorker returns the single stored reference for a worker, or
	// sentinel.ErrNotFound.
	FindByWorker(ctx context.Context, workerID string) (Enrollment, error)

	// Scan pages through the enrolled corpus in store order. The cursor is
	// the last worker ID of the previous page; empty starts from the
	// beginning. An empty returned cursor means the scan is complete.
	Scan(ctx context.Context, cursor string, limit int) ([]Enrollment, string, error)

	// Latest returns the most recently enrolled worker, or
	// sentinel.ErrNotFound when the corpus is empty.
	Latest(ctx context.Context) (Enrollment, error)
}
