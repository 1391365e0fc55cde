package instruments_repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"bankengine/internal/domain"
)

const instrumentColumns = `id, kind, number, owner_id, currency, balance, status, expires_at, created_at, updated_at`

type instrumentRepository struct{}

func NewInstrumentRepository() *instrumentRepository {
	return &instrumentRepository{}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInstrument(row rowScanner) (*domain.Instrument, error) {
	inst := &domain.Instrument{}
	var expiresAt sql.NullTime
	err := row.Scan(
		&inst.ID,
		&inst.Kind,
		&inst.Number,
		&inst.OwnerID,
		&inst.Currency,
		&inst.Balance,
		&inst.Status,
		&expiresAt,
		&inst.CreatedAt,
		&inst.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		inst.ExpiresAt = &expiresAt.Time
	}
	return inst, nil
}

func (r *instrumentRepository) CreateTx(ctx context.Context, querier domain.Querier, inst *domain.Instrument) error {
	query := `
		INSERT INTO instruments (` + instrumentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	var expiresAt sql.NullTime
	if inst.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *inst.ExpiresAt, Valid: true}
	}
	_, err := querier.ExecContext(ctx, query,
		inst.ID, inst.Kind, inst.Number, inst.OwnerID, inst.Currency,
		inst.Balance, inst.Status, expiresAt, inst.CreatedAt, inst.UpdatedAt)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("instrument %s or number %s already exists: %w", inst.ID, inst.Number, err)
		}
		return fmt.Errorf("failed to create instrument %s: %w", inst.ID, err)
	}
	return nil
}

func (r *instrumentRepository) GetByIDTx(ctx context.Context, querier domain.Querier, id string) (*domain.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments WHERE id = $1`
	inst, err := scanInstrument(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("instrument %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get instrument %s: %w", id, err)
	}
	return inst, nil
}

func (r *instrumentRepository) GetByNumberTx(ctx context.Context, querier domain.Querier, number string) (*domain.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments WHERE number = $1`
	inst, err := scanInstrument(querier.QueryRowContext(ctx, query, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("instrument number %s: %w", number, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get instrument by number %s: %w", number, err)
	}
	return inst, nil
}

func (r *instrumentRepository) LockByIDsTx(ctx context.Context, querier domain.Querier, ids []string) ([]*domain.Instrument, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + instrumentColumns + `
		FROM instruments
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`
	rows, err := querier.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to lock instruments %v: %w", ids, err)
	}
	defer rows.Close()

	var instruments []*domain.Instrument
	for rows.Next() {
		inst, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		instruments = append(instruments, inst)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked instruments: %w", err)
	}
	return instruments, nil
}

func (r *instrumentRepository) UpdateBalanceTx(ctx context.Context, querier domain.Querier, inst *domain.Instrument) error {
	if inst.Balance.IsNegative() {
		return fmt.Errorf("instrument %s: %w", inst.ID, domain.ErrInsufficientFunds)
	}
	query := `
		UPDATE instruments
		SET balance = $1, updated_at = $2
		WHERE id = $3
	`
	now := time.Now().UTC()
	res, err := querier.ExecContext(ctx, query, inst.Balance, now, inst.ID)
	if err != nil {
		return fmt.Errorf("failed to update balance for instrument %s: %w", inst.ID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("instrument %s: %w", inst.ID, domain.ErrNotFound)
	}
	inst.UpdatedAt = now
	return nil
}
