package kdvp

import (
	"time"

	"github.com/shopspring/decimal"
)

// AcquisitionType is the FURS "nacin pridobitve" code on a purchase row.
type AcquisitionType string

const (
	// AcquisitionPurchase is a regular market purchase.
	AcquisitionPurchase AcquisitionType = "A"
	// AcquisitionOther covers acquisitions reported without a matching buy
	// trade, e.g. open legs reconstructed from a closed-positions export.
	AcquisitionOther AcquisitionType = "B"
)

// Kind discriminates the two Lot variants.
type Kind int

const (
	KindAcquisition Kind = iota
	KindDisposal
)

// Lot is one acquisition or disposal event for a security. Quantity is
// always positive; direction is carried by Kind. Price is the per-unit
// price in EUR. Position is the running position immediately after this
// event and is owned by the ledger, never by the caller.
type Lot struct {
	Date     time.Time
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Position decimal.Decimal

	Kind    Kind
	AcqType AcquisitionType // acquisitions only
	// LossTransfer marks a disposal whose net realized result was a loss,
	// making it eligible for loss transfer under the KDVP rules.
	LossTransfer bool
}

// NewAcquisition builds an acquisition Lot. Quantity must be positive; the
// magnitude is taken so broker exports with signed quantities stay valid.
func NewAcquisition(date time.Time, quantity, price decimal.Decimal, acqType AcquisitionType) Lot {
	return Lot{
		Date:     date,
		Quantity: quantity.Abs(),
		Price:    price,
		Kind:     KindAcquisition,
		AcqType:  acqType,
	}
}

// NewDisposal builds a disposal Lot.
func NewDisposal(date time.Time, quantity, price decimal.Decimal, lossTransfer bool) Lot {
	return Lot{
		Date:         date,
		Quantity:     quantity.Abs(),
		Price:        price,
		Kind:         KindDisposal,
		LossTransfer: lossTransfer,
	}
}

// mergeable reports whether two lots describe the same reported event split
// across broker rows: same day, same unit price, same variant and same
// variant-specific field.
func (l Lot) mergeable(o Lot) bool {
	if l.Kind != o.Kind || !l.Date.Equal(o.Date) || !l.Price.Equal(o.Price) {
		return false
	}
	if l.Kind == KindAcquisition {
		return l.AcqType == o.AcqType
	}
	return l.LossTransfer == o.LossTransfer
}
