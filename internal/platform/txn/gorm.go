package txn

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

type gormTxKey struct{}

// GormRunner runs work inside a gorm transaction.
type GormRunner struct {
	db *gorm.DB
}

var _ Runner = (*GormRunner)(nil)

// NewGormRunner returns a Runner backed by db.
func NewGormRunner(db *gorm.DB) *GormRunner {
	return &GormRunner{db: db}
}

// RunInTx opens a transaction unless ctx already carries one, in which case fn joins it.
func (r *GormRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, gormTxKey{}, tx))
	})
	return classifyGorm(err)
}

// DB returns the transaction carried by ctx, or db bound to ctx when there is none.
func DB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// Postgres: serialization_failure, deadlock_detected, lock_not_available.
var pgConflictCodes = map[string]struct{}{
	"40001": {},
	"40P01": {},
	"55P03": {},
}

func classifyGorm(err error) error {
	if err == nil || IsConflict(err) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if _, ok := pgConflictCodes[pgErr.Code]; ok {
			return Conflict(err)
		}
		return err
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && (liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked) {
		return Conflict(err)
	}
	return err
}
