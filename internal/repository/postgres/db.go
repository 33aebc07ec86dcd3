// backend-go/internal/repository/postgres/db.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/sync/semaphore"

	"github.com/shelfwise/backend-go/internal/config"
	"github.com/shelfwise/backend-go/pkg/logger"
)

// DB wraps the sqlx pool with a semaphore that bounds the number of
// concurrent transactions, so batch jobs cannot starve request handlers.
type DB struct {
	*sqlx.DB
	txSem *semaphore.Weighted
}

func NewDB(cfg config.DatabaseConfig) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	maxTx := int64(cfg.MaxConcurrentTx)
	if maxTx <= 0 {
		maxTx = 4
	}

	logger.Log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Name).
		Int64("max_concurrent_tx", maxTx).
		Msg("connected to postgres")

	return &DB{DB: db, txSem: semaphore.NewWeighted(maxTx)}, nil
}

// WithTx runs fn inside a transaction, committing on nil and rolling back
// otherwise. Acquisition of the tx semaphore respects ctx cancellation.
func (d *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if err := d.txSem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire tx slot: %w", err)
	}
	defer d.txSem.Release(1)

	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Log.Error().Err(rbErr).Msg("transaction rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
