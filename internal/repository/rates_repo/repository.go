package rates_repo

import (
	"context"

	"bankengine/internal/app/currency"
	"bankengine/internal/domain"
)

type RatesRepository interface {
	SaveSnapshotTx(ctx context.Context, querier domain.Querier, s *currency.Snapshot) error
	LatestSnapshotTx(ctx context.Context, querier domain.Querier, base domain.Currency) (*currency.Snapshot, error)
}
