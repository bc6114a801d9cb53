package currency

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// maxFallbackDays bounds the backward walk for dates without a quote
// (weekends, holidays). A longer gap means the rate file is stale or broken
// and should surface as an error rather than a silently ancient rate.
const maxFallbackDays = 7

const dateKey = "2006-01-02"

// Sanity bounds for a quoted rate. BSI quotes units of foreign currency per
// EUR; a zero or negative value would make conversion divide by zero, and
// nothing the list carries trades anywhere near 10000 per EUR.
var maxRate = decimal.NewFromInt(10000)

// RateTable is an immutable date -> currency -> EUR reference rate mapping,
// built once per filing run from the Bank of Slovenia daily rate list and
// passed by reference to whatever needs conversion.
type RateTable struct {
	rates map[string]map[string]decimal.Decimal
}

// Structures of the BSI dtecbs XML (root DtecBS, one tecajnica per day).
type bsiDocument struct {
	XMLName xml.Name `xml:"DtecBS"`
	Days    []bsiDay `xml:"tecajnica"`
}

type bsiDay struct {
	Date  string    `xml:"datum,attr"`
	Rates []bsiRate `xml:"tecaj"`
}

type bsiRate struct {
	Currency string `xml:"oznaka,attr"`
	Value    string `xml:",chardata"`
}

// ParseBSI reads a Bank of Slovenia exchange rate XML document.
func ParseBSI(r io.Reader) (*RateTable, error) {
	var doc bsiDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("currency: failed to decode BSI rate XML: %w", err)
	}

	table := &RateTable{rates: make(map[string]map[string]decimal.Decimal, len(doc.Days))}
	for _, day := range doc.Days {
		if _, err := time.Parse(dateKey, day.Date); err != nil {
			return nil, fmt.Errorf("currency: invalid date %q in rate XML: %w", day.Date, err)
		}
		daily := make(map[string]decimal.Decimal, len(day.Rates))
		for _, rate := range day.Rates {
			value, err := decimal.NewFromString(rate.Value)
			if err != nil {
				return nil, fmt.Errorf("currency: invalid %s rate %q on %s: %w", rate.Currency, rate.Value, day.Date, err)
			}
			if !value.IsPositive() || value.GreaterThanOrEqual(maxRate) {
				return nil, fmt.Errorf("currency: %s rate %s on %s is out of range, the rate file is corrupt",
					rate.Currency, value.String(), day.Date)
			}
			daily[rate.Currency] = value
		}
		table.rates[day.Date] = daily
	}
	return table, nil
}

// LoadFile parses a previously downloaded rate file.
func LoadFile(path string) (*RateTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("currency: opening rate file: %w", err)
	}
	defer f.Close()
	return ParseBSI(f)
}

// Rate returns the EUR reference rate for a currency on a date. Dates
// without a quote fall back to the nearest earlier quoted date.
func (t *RateTable) Rate(date time.Time, ccy string) (decimal.Decimal, error) {
	if ccy == "EUR" {
		return decimal.NewFromInt(1), nil
	}
	for i := 0; i <= maxFallbackDays; i++ {
		day := date.AddDate(0, 0, -i)
		if rate, ok := t.rates[day.Format(dateKey)][ccy]; ok {
			return rate, nil
		}
	}
	return decimal.Decimal{}, fmt.Errorf("currency: no %s rate on or within %d days before %s",
		ccy, maxFallbackDays, date.Format(dateKey))
}

// Convert converts an amount in ccy to EUR at the rate for date. BSI quotes
// units of foreign currency per EUR, so conversion divides.
func (t *RateTable) Convert(amount decimal.Decimal, ccy string, date time.Time) (decimal.Decimal, error) {
	rate, err := t.Rate(date, ccy)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return amount.Div(rate), nil
}
