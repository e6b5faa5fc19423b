package shared

import "context"

// UnitOfWork runs a function inside one transaction scope. Repository calls
// made with the context passed to fn join that transaction; the commit engine
// uses this to make each batch all-or-nothing.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
