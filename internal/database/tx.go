package database

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	defaultRetryInitialInterval = 50 * time.Millisecond
	defaultRetryMaxElapsed      = 2 * time.Second
)

type retryPolicy struct {
	initialInterval time.Duration
	maxElapsed      time.Duration
}

func newRetryPolicy(initial time.Duration, maxElapsed time.Duration) retryPolicy {
	if initial <= 0 {
		initial = defaultRetryInitialInterval
	}
	if maxElapsed <= 0 {
		maxElapsed = defaultRetryMaxElapsed
	}
	return retryPolicy{initialInterval: initial, maxElapsed: maxElapsed}
}

func (p retryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.initialInterval
	b.MaxElapsedTime = p.maxElapsed
	return backoff.WithContext(b, ctx)
}

// RunInTx runs fn inside a read-committed transaction. The whole transaction
// is replayed when it fails with a transient storage error; any other error
// from fn is returned as is and never retried.
func (db *DB) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := pgx.BeginTxFunc(ctx, db.Pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return backoff.Permanent(err)
		}
		slog.Warn("transient database error, retrying transaction", "attempt", attempt, "error", err)
		return err
	}

	err := backoff.Retry(operation, db.retry.backOff(ctx))
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}
	return err
}

// IsTransient reports whether err is a connection-level or concurrency
// failure that is safe to retry by replaying the whole transaction.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "40001", pgErr.Code == "40P01":
			return true
		case strings.HasPrefix(pgErr.Code, "08"):
			return true
		case pgErr.Code == "57P01", pgErr.Code == "57P02", pgErr.Code == "57P03":
			return true
		}
		return false
	}

	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}
