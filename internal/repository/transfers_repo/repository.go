package transfers_repo

import (
	"context"

	"bankengine/internal/domain"
)

type TransferRepository interface {
	// CreateTx returns domain.ErrDuplicateReference when the reference number
	// is already taken. The surrounding transaction stays usable.
	CreateTx(ctx context.Context, querier domain.Querier, record *domain.TransferRecord) error
	ExistsReferenceNumberTx(ctx context.Context, querier domain.Querier, reference string) (bool, error)
	GetByIDTx(ctx context.Context, querier domain.Querier, id string) (*domain.TransferRecord, error)
	GetByReferenceTx(ctx context.Context, querier domain.Querier, reference string) (*domain.TransferRecord, error)
}
