package repository

import "context"

// TxManager runs fn inside a single database transaction. Repository calls
// made with the context handed to fn join that transaction; returning an
// error rolls everything back.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
