package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"bankengine/internal/domain"
)

type txKey struct{}

type unitOfWork struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUnitOfWork runs functions in READ COMMITTED transactions. Row locks
// taken with SELECT ... FOR UPDATE close the read-then-write race.
func NewUnitOfWork(db *sql.DB, logger *zap.Logger) domain.UnitOfWork {
	return &unitOfWork{db: db, logger: logger}
}

// RunInTransaction joins the transaction already carried by ctx, if any.
// Only the outermost call commits.
func (u *unitOfWork) RunInTransaction(ctx context.Context, fn domain.TxFunc) error {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx, tx)
	}

	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return Classify("failed to begin transaction", err)
	}

	defer func() {
		if r := recover(); r != nil {
			u.logger.Error("Recovered panic inside transaction, rolling back", zap.Any("panic", r))
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx), tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			u.logger.Error("Failed to roll back transaction", zap.Error(rbErr), zap.NamedError("cause", err))
		}
		return classifyAborted(err)
	}

	if err := tx.Commit(); err != nil {
		return Classify("failed to commit transaction", err)
	}
	return nil
}

// Classify wraps infrastructure failures with domain.ErrPersistenceFailure.
// Errors that already carry a taxonomy member pass through unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.ErrorCode(err) != domain.CodeInternal {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%s: %s (%s): %w: %w", op, pqErr.Code.Name(), pqErr.Code, domain.ErrPersistenceFailure, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistenceFailure, err)
}

// classifyAborted keeps the error of a rolled back function as it is, unless
// the store or the deadline aborted it.
func classifyAborted(err error) error {
	if domain.ErrorCode(err) != domain.CodeInternal {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && isTransient(pqErr.Code) {
		return Classify("transaction aborted", err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrTxDone) || errors.Is(err, sql.ErrConnDone) {
		return Classify("transaction aborted", err)
	}
	return err
}

// serialization_failure, deadlock_detected, query_canceled.
func isTransient(code pq.ErrorCode) bool {
	switch code {
	case "40001", "40P01", "57014":
		return true
	}
	return false
}
