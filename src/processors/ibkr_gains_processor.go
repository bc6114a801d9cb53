package processors

import (
	"github.com/jernejstrasner/taxes/src/kdvp"
	"github.com/jernejstrasner/taxes/src/logger"
	"github.com/jernejstrasner/taxes/src/models"
)

// IBKRGainsProcessor feeds Flex Query trades into the position registry.
// IBKR reports plain buys and sells, so there is no close-side
// deduplication: one trade, one lot.
type IBKRGainsProcessor struct{}

func NewIBKRGainsProcessor() *IBKRGainsProcessor {
	return &IBKRGainsProcessor{}
}

// Process records every trade under its symbol. The FURS Code field caps at
// 10 characters, so the symbol is the identifier rather than the 12-char
// ISIN.
func (p *IBKRGainsProcessor) Process(trades []models.IBKRTrade, registry *kdvp.Registry) {
	for _, trade := range trades {
		var lot kdvp.Lot
		if trade.IsBuy {
			lot = kdvp.NewAcquisition(trade.Date, trade.Quantity, trade.Price, kdvp.AcquisitionPurchase)
		} else {
			// Loss transfer needs the realized result per sale; the trades
			// section does not carry it, so sells default to no transfer.
			lot = kdvp.NewDisposal(trade.Date, trade.Quantity, trade.Price, false)
		}
		registry.AddTrade(trade.Symbol, lot, trade.IsETF)
	}
	logger.L.Info("Processed IBKR trades", "trades", len(trades), "securities", registry.Len())
}
