package kdvp

import (
	"sort"

	"github.com/jernejstrasner/taxes/src/logger"
)

// Registry is the aggregate of all position ledgers for one filing run,
// keyed by security identifier. Callers must use a single identifier scheme
// (symbol or ISIN) consistently; mixing them splits one security across two
// ledgers.
type Registry struct {
	ledgers map[string]*PositionLedger
}

func NewRegistry() *Registry {
	return &Registry{ledgers: make(map[string]*PositionLedger)}
}

// AddTrade records a lot for the identified security, creating its ledger on
// first sight. The isFond flag is only honored at creation; later calls with
// a different value keep the original classification (first-write-wins).
func (r *Registry) AddTrade(identifier string, lot Lot, isFond bool) {
	ledger, ok := r.ledgers[identifier]
	if !ok {
		ledger = NewPositionLedger(identifier, isFond)
		r.ledgers[identifier] = ledger
	} else if ledger.IsFond != isFond {
		logger.L.Warn("conflicting fund classification ignored, keeping first",
			"security", identifier, "isFond", ledger.IsFond)
	}
	ledger.Insert(lot)
}

// Ledger returns the ledger for an identifier, if it exists.
func (r *Registry) Ledger(identifier string) (*PositionLedger, bool) {
	l, ok := r.ledgers[identifier]
	return l, ok
}

// Ledgers returns all ledgers sorted by identifier so report output is
// deterministic across runs.
func (r *Registry) Ledgers() []*PositionLedger {
	out := make([]*PositionLedger, 0, len(r.ledgers))
	for _, l := range r.ledgers {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len reports the number of securities tracked.
func (r *Registry) Len() int {
	return len(r.ledgers)
}
