package kdvp

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PositionLedger holds the ordered lot history and running position of one
// security. Mutation goes through Insert only.
type PositionLedger struct {
	Name   string
	IsFond bool

	lots []Lot
}

// NewPositionLedger creates an empty ledger for the given identifier.
func NewPositionLedger(name string, isFond bool) *PositionLedger {
	return &PositionLedger{Name: name, IsFond: isFond}
}

// Insert records a lot. A lot matching an existing one on date, unit price,
// variant and variant field is summed into it in place; Saxo splits a
// same-day same-price trade across several report rows. Otherwise the lot
// is appended and the sequence re-sorted chronologically. Either way the
// running position of every lot is recomputed before returning.
func (l *PositionLedger) Insert(lot Lot) {
	merged := false
	for i := range l.lots {
		if l.lots[i].mergeable(lot) {
			l.lots[i].Quantity = l.lots[i].Quantity.Add(lot.Quantity)
			merged = true
			break
		}
	}
	if !merged {
		l.lots = append(l.lots, lot)
		sort.SliceStable(l.lots, func(i, j int) bool {
			a, b := l.lots[i], l.lots[j]
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
			// Same-day tie-break keeps output reproducible regardless of
			// upstream row order: price ascending, acquisitions first.
			if c := a.Price.Cmp(b.Price); c != 0 {
				return c < 0
			}
			return a.Kind < b.Kind
		})
	}
	l.recompute()
}

// recompute walks the sequence in date order and rewrites every running
// position: acquisitions add, disposals subtract.
func (l *PositionLedger) recompute() {
	pos := decimal.Zero
	for i := range l.lots {
		if l.lots[i].Kind == KindAcquisition {
			pos = pos.Add(l.lots[i].Quantity)
		} else {
			pos = pos.Sub(l.lots[i].Quantity)
		}
		l.lots[i].Position = pos
	}
}

// Lots returns the date-ordered lot sequence. The returned slice is shared;
// callers must not mutate it.
func (l *PositionLedger) Lots() []Lot {
	return l.lots
}
