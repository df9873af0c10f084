package database

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"
)

type TxOptions struct {
	IsolationLevel sql.IsolationLevel
	ReadOnly       bool
	MaxRetries     int
	// BaseBackoff is the first retry delay; it doubles on every attempt.
	// Zero means 50ms.
	BaseBackoff time.Duration
}

func DefaultTxOptions() TxOptions {
	return TxOptions{
		IsolationLevel: sql.LevelReadCommitted,
		ReadOnly:       false,
		MaxRetries:     3,
	}
}

// SerializableTxOptions is used for writes that must not interleave, such
// as recording an order with its items.
func SerializableTxOptions() TxOptions {
	return TxOptions{
		IsolationLevel: sql.LevelSerializable,
		MaxRetries:     3,
	}
}

func WithTransaction(ctx context.Context, db *sql.DB, opts TxOptions, fn func(*sql.Tx) error) error {
	_, err := runTx(ctx, db, opts, fn)
	return err
}

// WithRetry runs fn in a transaction, retrying with jittered exponential
// backoff while the failure is retryable.
func WithRetry(ctx context.Context, db *sql.DB, opts TxOptions, fn func(*sql.Tx) error) error {
	backoff := opts.BaseBackoff
	if backoff <= 0 {
		backoff = 50 * time.Millisecond
	}

	for attempt := 0; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		stage, err := runTx(ctx, db, opts, fn)
		if err == nil {
			return nil
		}
		if stage == stageBegin || !IsRetryable(err) {
			return err
		}
		if attempt == opts.MaxRetries {
			return fmt.Errorf("max retries (%d) exceeded%s: %w", opts.MaxRetries, stage.suffix(), err)
		}

		jitter := time.Duration(rand.Int63n(int64(backoff/4) + 1))
		select {
		case <-time.After(backoff + jitter):
		case <-ctx.Done():
			return ctx.Err()
		}

		backoff *= 2
	}
}

type txStage int

const (
	stageBegin txStage = iota
	stageBody
	stageCommit
)

func (s txStage) suffix() string {
	if s == stageCommit {
		return " on commit"
	}
	return ""
}

func runTx(ctx context.Context, db *sql.DB, opts TxOptions, fn func(*sql.Tx) error) (txStage, error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{
		Isolation: opts.IsolationLevel,
		ReadOnly:  opts.ReadOnly,
	})
	if err != nil {
		return stageBegin, fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return stageBody, fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return stageBody, err
	}

	if err := tx.Commit(); err != nil {
		return stageCommit, fmt.Errorf("commit transaction: %w", err)
	}

	return stageCommit, nil
}
