package inbox_repo

import (
	"context"
	"errors"

	"bankengine/internal/domain"
)

type InboxRepository interface {
	CreateMessageTx(ctx context.Context, querier domain.Querier, msg *domain.InboxMessage) error
	UpdateStatusTx(ctx context.Context, querier domain.Querier, id string, status domain.InboxMessageStatus, errMsg string) error
}

var ErrMessageAlreadyProcessed = errors.New("inbox message already processed")
