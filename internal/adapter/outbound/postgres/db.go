package postgres

import (
	"context"
	"errors"

	"github.com/homerent/server/internal/port/outbound"
	"gorm.io/gorm"
)

type txContextKeyType struct{}

var txContextKey = txContextKeyType{}

// conn returns the transaction carried by ctx, or db, bound to ctx.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// translate maps driver errors onto port errors. Requires TranslateError on the gorm config.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return outbound.ErrDuplicateKey
	}
	return err
}

// TransactionAdapter implements outbound.TransactionPort.
type TransactionAdapter struct {
	db *gorm.DB
}

// NewTransactionAdapter creates a new transaction adapter.
func NewTransactionAdapter(db *gorm.DB) outbound.TransactionPort {
	return &TransactionAdapter{db: db}
}

// RunInTransaction runs fn in a transaction. A nested call joins the outer one.
func (a *TransactionAdapter) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txContextKey).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey, tx))
	})
}

// Compile-time check
var _ outbound.TransactionPort = (*TransactionAdapter)(nil)
