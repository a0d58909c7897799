package verification

import "context"

// Store persists verification records for audit. Insert-only; records are
// never updated or deleted through this interface.
type Store interface {
	Insert(ctx context.Context, record Record) error
}
