package processors

import (
	"fmt"

	"github.com/jernejstrasner/taxes/src/currency"
	"github.com/jernejstrasner/taxes/src/kdvp"
	"github.com/jernejstrasner/taxes/src/logger"
	"github.com/jernejstrasner/taxes/src/models"
	"github.com/shopspring/decimal"
)

// SaxoGainsProcessor turns ClosedPositions rows into position registry
// entries. Saxo reports one sale that closed several open lots as several
// rows sharing a ClosePositionID, each repeating the full close quantity,
// so the close side must be deduplicated while every open lot is kept.
type SaxoGainsProcessor struct {
	rates *currency.RateTable
}

func NewSaxoGainsProcessor(rates *currency.RateTable) *SaxoGainsProcessor {
	return &SaxoGainsProcessor{rates: rates}
}

// closeGroup accumulates what is known about one close-event id.
type closeGroup struct {
	quantity decimal.Decimal
	netGain  decimal.Decimal
}

// Process validates the rows, converts prices to EUR and feeds the
// registry: one acquisition lot per row, exactly one disposal lot per
// close-event id. Nothing is committed if validation fails.
func (p *SaxoGainsProcessor) Process(rows []models.ClosedPositionRow, registry *kdvp.Registry) error {
	groups, err := p.groupCloses(rows)
	if err != nil {
		return err
	}

	totalGain := decimal.Zero
	for _, g := range groups {
		totalGain = totalGain.Add(g.netGain)
	}
	logger.L.Info("Processing Saxo closed positions",
		"rows", len(rows), "sales", len(groups), "totalGain", totalGain.StringFixed(2))

	disposalDone := make(map[string]bool, len(groups))
	for _, row := range rows {
		openPrice, err := p.rates.Convert(row.OpenPrice, row.Currency, row.OpenDate)
		if err != nil {
			return fmt.Errorf("saxo gains: open price for %s: %w", row.Symbol, err)
		}
		closePrice, err := p.rates.Convert(row.ClosePrice, row.Currency, row.CloseDate)
		if err != nil {
			return fmt.Errorf("saxo gains: close price for %s: %w", row.Symbol, err)
		}

		// ETFs and other pooled instruments file as funds.
		isFond := row.AssetType != "Stock"

		// Every row is one distinct purchased lot being closed. These opens
		// have no buy trade of their own in the export, hence type B.
		registry.AddTrade(row.Symbol,
			kdvp.NewAcquisition(row.OpenDate, row.QuantityOpen, openPrice, kdvp.AcquisitionOther),
			isFond)

		if disposalDone[row.ClosePositionID] {
			continue
		}
		disposalDone[row.ClosePositionID] = true

		group := groups[row.ClosePositionID]
		registry.AddTrade(row.Symbol,
			kdvp.NewDisposal(row.CloseDate, group.quantity, closePrice, group.netGain.IsNegative()),
			isFond)
	}
	return nil
}

// groupCloses sums gains per close-event id and enforces the export's
// redundancy contract up front: every row of a sale repeats the same total
// close quantity. A mismatch means the export cannot be trusted and no lot
// may be committed for it.
func (p *SaxoGainsProcessor) groupCloses(rows []models.ClosedPositionRow) (map[string]*closeGroup, error) {
	groups := make(map[string]*closeGroup)
	for _, row := range rows {
		if row.CloseDate.Before(row.OpenDate) {
			return nil, fmt.Errorf("saxo gains: %s: close date %s is before open date %s, check the export for data errors",
				row.Symbol, row.CloseDate.Format("2006-01-02"), row.OpenDate.Format("2006-01-02"))
		}
		group, ok := groups[row.ClosePositionID]
		if !ok {
			groups[row.ClosePositionID] = &closeGroup{quantity: row.QuantityClose, netGain: row.Gain}
			continue
		}
		if !group.quantity.Equal(row.QuantityClose) {
			return nil, fmt.Errorf("saxo gains: %s: close position %s reports quantities %s and %s, rows of one sale must repeat the same close quantity",
				row.Symbol, row.ClosePositionID, group.quantity.String(), row.QuantityClose.String())
		}
		group.netGain = group.netGain.Add(row.Gain)
	}
	return groups, nil
}
