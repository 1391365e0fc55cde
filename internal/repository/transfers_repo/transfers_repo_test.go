package transfers_repo

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bankengine/internal/domain"
	"bankengine/internal/util"
)

// execRecorder keeps the arguments of the last ExecContext call.
type execRecorder struct {
	args []any
}

func (e *execRecorder) ExecContext(_ context.Context, _ string, args ...any) (sql.Result, error) {
	e.args = args
	return driver.RowsAffected(1), nil
}

func (e *execRecorder) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errors.New("not supported")
}

func (e *execRecorder) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

// storedRow replays the column values CreateTx wrote, in transferColumns order.
type storedRow []any

func (r storedRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r[i].(string)
		case *sql.NullString:
			*p = r[i].(sql.NullString)
		case *decimal.Decimal:
			*p = r[i].(decimal.Decimal)
		case *time.Time:
			*p = r[i].(time.Time)
		case *domain.PaymentKind:
			*p = r[i].(domain.PaymentKind)
		case *domain.Currency:
			*p = r[i].(domain.Currency)
		case *domain.TransferStatus:
			*p = r[i].(domain.TransferStatus)
		default:
			return errors.New("unexpected scan destination")
		}
	}
	return nil
}

func newTestRepository(t *testing.T) *transferRepository {
	t.Helper()
	c, err := util.NewAESCipher(bytes.Repeat([]byte{7}, util.DataKeySize))
	if err != nil {
		t.Fatalf("NewAESCipher: %v", err)
	}
	return NewTransferRepository(c)
}

func TestTransferRepository_SealsDescriptionAndCategory(t *testing.T) {
	repo := newTestRepository(t)
	category := domain.MerchantCinema
	rec := &domain.TransferRecord{
		ID:               "tr-1",
		Kind:             domain.PaymentCardPurchase,
		Amount:           decimal.RequireFromString("12.50"),
		Currency:         domain.EUR,
		DebitAmount:      decimal.RequireFromString("12.50"),
		DebitCurrency:    domain.EUR,
		Status:           domain.TransferReceived,
		ReferenceNumber:  "ABCDEFGH12",
		Description:      "popcorn",
		SenderID:         "card-1",
		MerchantCategory: &category,
		CreatedAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	q := &execRecorder{}
	if err := repo.CreateTx(context.Background(), q, rec); err != nil {
		t.Fatalf("CreateTx: %v", err)
	}

	storedDescription := q.args[8].(string)
	storedCategory := q.args[11].(sql.NullString)
	if storedDescription == rec.Description || !storedCategory.Valid || storedCategory.String == string(category) {
		t.Fatalf("columns stored in plain text: %q / %+v", storedDescription, storedCategory)
	}
	if q.args[7] != "ABCDEFGH12" {
		t.Fatalf("reference number should stay plain, got %v", q.args[7])
	}

	got, err := repo.scan(storedRow(q.args))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got.Description != "popcorn" || got.MerchantCategory == nil || *got.MerchantCategory != category {
		t.Fatalf("opened record = %+v", got)
	}
	if got.ReceiverID != nil || got.ReferenceNumber != "ABCDEFGH12" {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestTransferRepository_ScanRejectsForeignCiphertext(t *testing.T) {
	repo := newTestRepository(t)
	receiver := "acc-2"
	rec := &domain.TransferRecord{
		ID:              "tr-2",
		Kind:            domain.PaymentDirectTransfer,
		Currency:        domain.CZK,
		DebitCurrency:   domain.CZK,
		Status:          domain.TransferReceived,
		ReferenceNumber: "ABCDEFGH1",
		Description:     "rent",
		SenderID:        "acc-1",
		ReceiverID:      &receiver,
	}
	q := &execRecorder{}
	if err := repo.CreateTx(context.Background(), q, rec); err != nil {
		t.Fatalf("CreateTx: %v", err)
	}

	other, err := util.NewAESCipher(bytes.Repeat([]byte{8}, util.DataKeySize))
	if err != nil {
		t.Fatalf("NewAESCipher: %v", err)
	}
	if _, err := NewTransferRepository(other).scan(storedRow(q.args)); !errors.Is(err, util.ErrMalformedCiphertext) {
		t.Fatalf("expected ErrMalformedCiphertext, got %v", err)
	}
}
