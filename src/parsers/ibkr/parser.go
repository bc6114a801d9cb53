// Package ibkr parses Interactive Brokers Flex Query XML exports into gains
// trade rows.
package ibkr

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/jernejstrasner/taxes/src/logger"
	"github.com/jernejstrasner/taxes/src/models"
	"github.com/jernejstrasner/taxes/src/utils"
	"github.com/shopspring/decimal"
)

// flexQueryResponse is the root element of the IBKR Flex Query report.
type flexQueryResponse struct {
	XMLName xml.Name `xml:"FlexQueryResponse"`
	Trades  []trade  `xml:"FlexStatements>FlexStatement>Trades>Trade"`
}

type trade struct {
	AssetCategory string  `xml:"assetCategory,attr"`
	SubCategory   string  `xml:"subCategory,attr"`
	Symbol        string  `xml:"symbol,attr"`
	ISIN          string  `xml:"isin,attr"`
	TradeDate     string  `xml:"tradeDate,attr"`
	Quantity      float64 `xml:"quantity,attr"`
	TradePrice    float64 `xml:"tradePrice,attr"`
	Currency      string  `xml:"currency,attr"`
	BuySell       string  `xml:"buySell,attr"`
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a Flex Query XML file and returns its stock trades. Non-stock
// asset categories are skipped. Non-EUR trades and trades without an ISIN
// are rejected: FURS reporting requires both, and silently dropping them
// would understate the filing.
func (p *Parser) Parse(file io.Reader) ([]models.IBKRTrade, error) {
	var response flexQueryResponse
	if err := xml.NewDecoder(file).Decode(&response); err != nil {
		return nil, fmt.Errorf("ibkr parser: failed to decode XML: %w", err)
	}

	var trades []models.IBKRTrade
	for _, t := range response.Trades {
		if t.AssetCategory != "STK" {
			continue
		}
		if t.Symbol == "" || t.TradeDate == "" {
			logger.L.Warn("Skipping IBKR trade with missing symbol or date", "symbol", t.Symbol)
			continue
		}
		if t.Currency != "EUR" {
			return nil, fmt.Errorf("ibkr parser: unsupported currency %q for %s on %s, only EUR trades are supported",
				t.Currency, t.Symbol, t.TradeDate)
		}
		if t.ISIN == "" {
			return nil, fmt.Errorf("ibkr parser: trade for %s on %s has no ISIN, ensure the Flex Query includes the ISIN field",
				t.Symbol, t.TradeDate)
		}

		date, err := utils.ParseDate(t.TradeDate, []string{"20060102"})
		if err != nil {
			return nil, fmt.Errorf("ibkr parser: trade date for %s: %w", t.Symbol, err)
		}

		trades = append(trades, models.IBKRTrade{
			Symbol:   t.Symbol,
			ISIN:     t.ISIN,
			Date:     date,
			Quantity: decimal.NewFromFloat(t.Quantity).Abs(),
			Price:    decimal.NewFromFloat(t.TradePrice),
			IsBuy:    t.BuySell == "BUY",
			IsETF:    t.SubCategory == "ETF",
		})
	}

	buys := 0
	for _, t := range trades {
		if t.IsBuy {
			buys++
		}
	}
	logger.L.Info("Parsed IBKR stock trades", "total", len(trades), "buys", buys, "sells", len(trades)-buys)
	return trades, nil
}
