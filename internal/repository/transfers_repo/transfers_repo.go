package transfers_repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"bankengine/internal/domain"
	"bankengine/internal/util"
)

const transferColumns = `id, kind, amount, currency, debit_amount, debit_currency, status,
	reference_number, description, sender_id, receiver_id, merchant_category, created_at`

// transferRepository stores description and merchant category sealed by
// cipher. Every other column is plain so it can be indexed and checked.
type transferRepository struct {
	cipher util.FieldCipher
}

func NewTransferRepository(cipher util.FieldCipher) *transferRepository {
	return &transferRepository{cipher: cipher}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *transferRepository) CreateTx(ctx context.Context, querier domain.Querier, rec *domain.TransferRecord) error {
	// ON CONFLICT keeps the transaction alive so the caller can retry with
	// another reference number.
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (reference_number) DO NOTHING
	`
	var receiverID, category sql.NullString
	if rec.ReceiverID != nil {
		receiverID = sql.NullString{String: *rec.ReceiverID, Valid: true}
	}
	if rec.MerchantCategory != nil {
		sealed, err := r.cipher.Seal(string(*rec.MerchantCategory))
		if err != nil {
			return fmt.Errorf("failed to seal merchant category of transfer %s: %w", rec.ID, err)
		}
		category = sql.NullString{String: sealed, Valid: true}
	}
	description, err := r.cipher.Seal(rec.Description)
	if err != nil {
		return fmt.Errorf("failed to seal description of transfer %s: %w", rec.ID, err)
	}

	res, err := querier.ExecContext(ctx, query,
		rec.ID,
		rec.Kind,
		rec.Amount,
		rec.Currency,
		rec.DebitAmount,
		rec.DebitCurrency,
		rec.Status,
		rec.ReferenceNumber,
		description,
		rec.SenderID,
		receiverID,
		category,
		rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("transfer %s: %w", rec.ID, domain.ErrDuplicateReference)
		}
		return fmt.Errorf("failed to create transfer %s: %w", rec.ID, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("reference %s: %w", rec.ReferenceNumber, domain.ErrDuplicateReference)
	}
	return nil
}

func (r *transferRepository) ExistsReferenceNumberTx(ctx context.Context, querier domain.Querier, reference string) (bool, error) {
	var exists bool
	err := querier.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM transfers WHERE reference_number = $1)`, reference,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check reference number %s: %w", reference, err)
	}
	return exists, nil
}

func (r *transferRepository) GetByIDTx(ctx context.Context, querier domain.Querier, id string) (*domain.TransferRecord, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	rec, err := r.scan(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transfer %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transfer %s: %w", id, err)
	}
	return rec, nil
}

func (r *transferRepository) GetByReferenceTx(ctx context.Context, querier domain.Querier, reference string) (*domain.TransferRecord, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE reference_number = $1`
	rec, err := r.scan(querier.QueryRowContext(ctx, query, reference))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transfer reference %s: %w", reference, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transfer by reference %s: %w", reference, err)
	}
	return rec, nil
}

func (r *transferRepository) scan(row rowScanner) (*domain.TransferRecord, error) {
	rec := &domain.TransferRecord{}
	var description string
	var receiverID, category sql.NullString
	err := row.Scan(
		&rec.ID,
		&rec.Kind,
		&rec.Amount,
		&rec.Currency,
		&rec.DebitAmount,
		&rec.DebitCurrency,
		&rec.Status,
		&rec.ReferenceNumber,
		&description,
		&rec.SenderID,
		&receiverID,
		&category,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rec.Description, err = r.cipher.Open(description); err != nil {
		return nil, fmt.Errorf("failed to open description of transfer %s: %w", rec.ID, err)
	}
	if receiverID.Valid {
		rec.ReceiverID = &receiverID.String
	}
	if category.Valid {
		plain, err := r.cipher.Open(category.String)
		if err != nil {
			return nil, fmt.Errorf("failed to open merchant category of transfer %s: %w", rec.ID, err)
		}
		mc := domain.MerchantCategory(plain)
		rec.MerchantCategory = &mc
	}
	return rec, nil
}
