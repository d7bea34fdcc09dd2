package repository

import (
	"context"

	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
	"gorm.io/gorm"
)

type ctxKey string

// txKey carries the open transaction through context so every repository
// call inside a unit of work joins it transparently.
const txKey ctxKey = "gorm_tx"

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a gorm-backed transaction manager
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

// WithinTx runs fn inside a database transaction. Any returned error rolls
// back everything written through the passed context.
func (m *txManager) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// conn returns the transaction bound to ctx, or the base connection.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
