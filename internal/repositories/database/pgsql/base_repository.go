package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ritsnep/HimalytixNew-sub002/internal/apperrors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgSerializationFailed = "40001"
	pgDeadlockDetected    = "40P01"

	decisionOnceConstraint = "approval_decisions_once_key"
	reversalOfConstraint   = "journals_reversal_of_key"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// reader implements every read of the ledger store against q.
type reader struct {
	q querier
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, apperrors.ErrNotFound)
}

// dbError wraps an unexpected database failure.
func dbError(message string, err error) error {
	return apperrors.NewAppError(500, message, err)
}

func pgErrorCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// isTransient reports whether a failed transaction may succeed when run again.
func isTransient(err error) bool {
	if pgconn.SafeToRetry(err) {
		return true
	}
	code, _ := pgErrorCode(err)
	return code == pgSerializationFailed || code == pgDeadlockDetected
}

// collect scans every row into T by column name.
func collect[T any](rows pgx.Rows, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}

// collectOne scans exactly one row into T, mapping pgx.ErrNoRows to the caller's error.
func collectOne[T any](rows pgx.Rows, err error, missing error) (*T, error) {
	if err != nil {
		return nil, err
	}
	v, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, missing
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// exists reports whether query returns a row.
func (r *reader) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := r.q.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// sendBatch runs b and closes the results, returning the first error.
func sendBatch(ctx context.Context, q querier, b *pgx.Batch) error {
	if b.Len() == 0 {
		return nil
	}
	br := q.SendBatch(ctx, b)
	return br.Close()
}

// wrapRead passes not-found errors through and wraps everything else.
func wrapRead(message string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return dbError(message, err)
}
