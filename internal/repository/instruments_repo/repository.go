package instruments_repo

import (
	"context"

	"bankengine/internal/domain"
)

type InstrumentRepository interface {
	CreateTx(ctx context.Context, querier domain.Querier, instrument *domain.Instrument) error
	GetByIDTx(ctx context.Context, querier domain.Querier, id string) (*domain.Instrument, error)
	GetByNumberTx(ctx context.Context, querier domain.Querier, number string) (*domain.Instrument, error)
	// LockByIDsTx row-locks every existing instrument in ids, in ascending id
	// order. Unknown ids are skipped.
	LockByIDsTx(ctx context.Context, querier domain.Querier, ids []string) ([]*domain.Instrument, error)
	UpdateBalanceTx(ctx context.Context, querier domain.Querier, instrument *domain.Instrument) error
}
