package rates_repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"bankengine/internal/app/currency"
	"bankengine/internal/domain"
	"bankengine/internal/util"
)

type ratesRepository struct{}

func NewRatesRepository() *ratesRepository {
	return &ratesRepository{}
}

func (r *ratesRepository) SaveSnapshotTx(ctx context.Context, querier domain.Querier, s *currency.Snapshot) error {
	rates := make(map[string]decimal.Decimal, len(s.Rates))
	for c, rate := range s.Rates {
		rates[string(c)] = rate
	}
	payload, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to encode rate snapshot: %w", err)
	}

	query := `
		INSERT INTO currency_rate_snapshots (id, base_currency, rates, fetched_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := querier.ExecContext(ctx, query, util.GenerateUUID(), string(s.Base), payload, s.FetchedAt); err != nil {
		return fmt.Errorf("failed to save rate snapshot for base %s: %w", s.Base, err)
	}
	return nil
}

func (r *ratesRepository) LatestSnapshotTx(ctx context.Context, querier domain.Querier, base domain.Currency) (*currency.Snapshot, error) {
	query := `
		SELECT rates, fetched_at
		FROM currency_rate_snapshots
		WHERE base_currency = $1
		ORDER BY fetched_at DESC
		LIMIT 1
	`
	var (
		payload []byte
		rates   map[string]decimal.Decimal
		s       currency.Snapshot
	)
	err := querier.QueryRowContext(ctx, query, string(base)).Scan(&payload, &s.FetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rate snapshot for base %s: %w", base, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load rate snapshot for base %s: %w", base, err)
	}
	if err := json.Unmarshal(payload, &rates); err != nil {
		return nil, fmt.Errorf("failed to decode rate snapshot: %w", err)
	}

	typed := make(map[domain.Currency]decimal.Decimal, len(rates))
	for code, rate := range rates {
		typed[domain.Currency(code)] = rate
	}
	return currency.NewSnapshot(base, typed, s.FetchedAt)
}
