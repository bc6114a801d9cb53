package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClosedPositionRow is one row of the Saxo "ClosedPositions" sheet. One
// real-world sale closing several open lots is exported as several rows
// sharing a ClosePositionID, each repeating the total close quantity.
type ClosedPositionRow struct {
	Symbol          string // instrument symbol, exchange suffix stripped
	AssetType       string // "Stock", "Etf", ...
	Currency        string // instrument currency
	OpenDate        time.Time
	CloseDate       time.Time
	QuantityOpen    decimal.Decimal
	QuantityClose   decimal.Decimal
	OpenPrice       decimal.Decimal
	ClosePrice      decimal.Decimal
	OpenPositionID  string
	ClosePositionID string
	Gain            decimal.Decimal // realized P&L of this lot, account currency
}

// IBKRTrade is one stock trade from an IBKR Flex Query export.
type IBKRTrade struct {
	Symbol   string
	ISIN     string
	Date     time.Time
	Quantity decimal.Decimal
	Price    decimal.Decimal // per-share, EUR
	IsBuy    bool
	IsETF    bool
}

// DividendRow is one row of the Saxo "Share Dividends" sheet. Amounts keep
// the broker's "CCY 12.34" form until the processor converts them.
type DividendRow struct {
	PayerName  string
	Symbol     string
	Event      string
	Date       time.Time
	Amount     string // e.g. "USD 10.00"
	ForeignTax string
}

// Dividend is a fully resolved dividend ready for the Doh_Div report.
type Dividend struct {
	Date            time.Time
	PayerID         string // ISIN
	PayerName       string
	PayerAddress    string
	PayerCountry    string
	Value           decimal.Decimal // EUR
	ForeignTax      decimal.Decimal // EUR
	ReliefStatement string
}

// InterestRow is one raw interest payment before conversion.
type InterestRow struct {
	Date     time.Time
	Currency string
	Amount   decimal.Decimal
}

// InterestType is the Doh_Obr interest classification code.
type InterestType int

const (
	NonEUBankInterest InterestType = 3
	FundInterest      InterestType = 7
)

// Interest is one interest payment ready for the Doh_Obr report.
type Interest struct {
	Date                 time.Time
	IdentificationNumber string
	Name                 string
	Address              string
	Country              string
	Type                 InterestType
	Value                decimal.Decimal // EUR
	SourceCountry        string
	ForeignTax           *decimal.Decimal
	ReliefStatement      string
}

// InstrumentInfo maps a broker symbol to its ISIN, from the Saxo
// "additional info" export used to pre-fill the lookup cache.
type InstrumentInfo struct {
	Symbol string
	ISIN   string
}
