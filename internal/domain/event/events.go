package event

import "time"

const (
	TypeTransferReceived = "transfer.received"
	TypeTransferDenied   = "transfer.denied"
)

// TransferEvent is published for every persisted transfer record.
type TransferEvent struct {
	EventType        string    `json:"event_type"`
	TransferID       string    `json:"transfer_id"`
	Kind             string    `json:"kind"`
	ReferenceNumber  string    `json:"reference_number"`
	SenderID         string    `json:"sender_id"`
	ReceiverID       string    `json:"receiver_id,omitempty"`
	MerchantCategory string    `json:"merchant_category,omitempty"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	DebitAmount      string    `json:"debit_amount"`
	DebitCurrency    string    `json:"debit_currency"`
	Status           string    `json:"status"`
	Reason           string    `json:"reason,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// TransferCommand asks the service to execute a transfer asynchronously.
// RequestID makes redelivery safe.
type TransferCommand struct {
	RequestID   string  `json:"request_id"`
	Kind        string  `json:"kind"`
	SenderID    string  `json:"sender_id"`
	ReceiverKey string  `json:"receiver_key,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	Description string  `json:"description"`
}
