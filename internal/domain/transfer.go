package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransferStatus string

const (
	TransferReceived TransferStatus = "RECEIVED"
	TransferDenied   TransferStatus = "DENIED"
)

type PaymentKind string

const (
	PaymentDirectTransfer PaymentKind = "DIRECT_TRANSFER"
	PaymentCardPurchase   PaymentKind = "CARD_PURCHASE"
)

func (k PaymentKind) Valid() bool {
	return k == PaymentDirectTransfer || k == PaymentCardPurchase
}

type MerchantCategory string

const (
	MerchantGroceries   MerchantCategory = "GROCERIES"
	MerchantClothing    MerchantCategory = "CLOTHING"
	MerchantElectronics MerchantCategory = "ELECTRONICS"
	MerchantCinema      MerchantCategory = "CINEMA"
	MerchantRestaurant  MerchantCategory = "RESTAURANT"
	MerchantCafe        MerchantCategory = "CAFE"
	MerchantStudy       MerchantCategory = "STUDY"
	MerchantTransport   MerchantCategory = "TRANSPORT"
	MerchantTravel      MerchantCategory = "TRAVEL"
	MerchantSport       MerchantCategory = "SPORT"
	MerchantOther       MerchantCategory = "OTHER"
)

var merchantCategories = []MerchantCategory{
	MerchantGroceries, MerchantClothing, MerchantElectronics, MerchantCinema,
	MerchantRestaurant, MerchantCafe, MerchantStudy, MerchantTransport,
	MerchantTravel, MerchantSport, MerchantOther,
}

func MerchantCategories() []MerchantCategory {
	out := make([]MerchantCategory, len(merchantCategories))
	copy(out, merchantCategories)
	return out
}

const (
	MaxDescriptionLength     = 100
	MaxReferenceNumberLength = 11
)

// TransferRecord is the immutable outcome of a transfer attempt.
//
// Amount and Currency describe what the receiving side got. DebitAmount and
// DebitCurrency describe what left the sender; they differ from Amount and
// Currency only for converted transfers. ReceiverID is nil for card
// purchases, which carry MerchantCategory instead.
type TransferRecord struct {
	ID               string
	Kind             PaymentKind
	Amount           decimal.Decimal
	Currency         Currency
	DebitAmount      decimal.Decimal
	DebitCurrency    Currency
	Status           TransferStatus
	ReferenceNumber  string
	Description      string
	SenderID         string
	ReceiverID       *string
	MerchantCategory *MerchantCategory
	CreatedAt        time.Time
}

// Receiver returns the receiving instrument id or, for card purchases, the
// merchant label.
func (r *TransferRecord) Receiver() string {
	if r.ReceiverID != nil {
		return *r.ReceiverID
	}
	if r.MerchantCategory != nil {
		return string(*r.MerchantCategory)
	}
	return ""
}
