package transfers

import "github.com/shopspring/decimal"

// DirectTransferRequest moves Amount, in the sender's currency, from the
// instrument SenderID to the instrument found by ReceiverKey. ReceiverKey is
// a card or account number, or an instrument id.
type DirectTransferRequest struct {
	SenderID    string
	ReceiverKey string
	Amount      decimal.Decimal
	Description string
}

// CardPurchaseRequest debits a card. A nil Amount lets the engine pick one.
type CardPurchaseRequest struct {
	PayerID     string
	Amount      *decimal.Decimal
	Description string
}
