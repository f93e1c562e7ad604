package repository

import (
	"context"
	"strings"

	domainRepo "github.com/sangkips/barberpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type ctxKey string

// txKey is the context key carrying the active transaction
const txKey ctxKey = "gorm_tx"

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager over db
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

// WithinTransaction runs fn in a transaction. A nested call joins the
// transaction already present in ctx.
func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// conn returns the transaction carried by ctx, or db bound to ctx.
// Every repository query goes through it so that calls made inside
// WithinTransaction share one connection.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// LikeScope returns a GORM scope that filters column by a lower-cased
// substring. It works the same on postgres, mysql and sqlite.
func LikeScope(column, search string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(strings.ToLower(search))
		if search == "" {
			return db
		}
		return db.Where("LOWER("+column+") LIKE ?", "%"+search+"%")
	}
}
