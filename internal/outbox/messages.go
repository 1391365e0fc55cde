package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"bankengine/internal/domain"
	"bankengine/internal/domain/event"
)

// NewTransferMessage builds the pending outbox row announcing rec. Messages
// are keyed by sender so events of one instrument keep their order.
func NewTransferMessage(id string, rec *domain.TransferRecord, reason string, now time.Time) (*domain.OutboxMessage, error) {
	eventType := event.TypeTransferReceived
	if rec.Status == domain.TransferDenied {
		eventType = event.TypeTransferDenied
	}

	payload := event.TransferEvent{
		EventType:       eventType,
		TransferID:      rec.ID,
		Kind:            string(rec.Kind),
		ReferenceNumber: rec.ReferenceNumber,
		SenderID:        rec.SenderID,
		Amount:          rec.Amount.StringFixed(rec.Currency.MinorUnits()),
		Currency:        string(rec.Currency),
		DebitAmount:     rec.DebitAmount.StringFixed(rec.DebitCurrency.MinorUnits()),
		DebitCurrency:   string(rec.DebitCurrency),
		Status:          string(rec.Status),
		Reason:          reason,
		Timestamp:       now,
	}
	if rec.ReceiverID != nil {
		payload.ReceiverID = *rec.ReceiverID
	}
	if rec.MerchantCategory != nil {
		payload.MerchantCategory = string(*rec.MerchantCategory)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event for transfer %s: %w", eventType, rec.ID, err)
	}

	return &domain.OutboxMessage{
		ID:            id,
		AggregateID:   rec.ID,
		AggregateType: domain.AggregateTransfer,
		MessageType:   eventType,
		Key:           rec.SenderID,
		Payload:       body,
		Status:        domain.OutboxStatusPending,
		CreatedAt:     now,
	}, nil
}
