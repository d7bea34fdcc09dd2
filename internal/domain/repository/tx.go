package repository

import "context"

// TxManager runs a function as one atomic unit of work. Every repository
// call made with the context it passes joins the same transaction; any error
// rolls the whole unit back. Order settlement depends on this: the order,
// its lines, the stock movement and the shift totals commit together or not
// at all.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error
}
