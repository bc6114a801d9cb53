// Package revolut parses Revolut savings tax statement CSVs. The statement
// starts with a free-form preamble; the transaction table begins at a fixed
// line with columns Date, Description, Value, Price per share, Quantity per
// share.
package revolut

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jernejstrasner/taxes/src/logger"
	"github.com/jernejstrasner/taxes/src/models"
	"github.com/jernejstrasner/taxes/src/utils"
	"github.com/shopspring/decimal"
)

// preambleLines is the number of report-header lines before the table.
const preambleLines = 13

// Statement is the parsed tax statement: the individual interest payments
// plus informational totals for fees and sell proceeds.
type Statement struct {
	Interest  []models.InterestRow
	TotalFees decimal.Decimal
	TotalSell decimal.Decimal
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a Revolut tax statement. All amounts are EUR.
func (p *Parser) Parse(file io.Reader) (*Statement, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	for i := 0; i < preambleLines; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("revolut parser: statement shorter than %d-line preamble: %w", preambleLines, err)
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("revolut parser: reading header row: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Date", "Description", "Value"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("revolut parser: missing column %q", required)
		}
	}

	statement := &Statement{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("revolut parser: reading row: %w", err)
		}

		description := field(record, columns["Description"])
		value, err := parseEuroAmount(field(record, columns["Value"]))
		if err != nil {
			return nil, fmt.Errorf("revolut parser: row %q: %w", description, err)
		}

		switch {
		case strings.Contains(description, "Interest PAID EUR"):
			date, err := utils.ParseDate(field(record, columns["Date"]), nil)
			if err != nil {
				return nil, fmt.Errorf("revolut parser: interest row: %w", err)
			}
			statement.Interest = append(statement.Interest, models.InterestRow{
				Date:     date,
				Currency: "EUR",
				Amount:   value.Abs(),
			})
		case strings.Contains(description, "Service Fee Charged"):
			statement.TotalFees = statement.TotalFees.Add(value.Abs())
		case strings.Contains(description, "SELL EUR"):
			statement.TotalSell = statement.TotalSell.Add(value.Abs())
		}
	}

	totalInterest := decimal.Zero
	for _, row := range statement.Interest {
		totalInterest = totalInterest.Add(row.Amount)
	}
	logger.L.Info("Parsed Revolut statement",
		"interestEUR", totalInterest.StringFixed(2),
		"feesEUR", statement.TotalFees.StringFixed(2),
		"sellEUR", statement.TotalSell.StringFixed(2))
	return statement, nil
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseEuroAmount strips the euro sign and thousands separators from values
// like "€1,234.56".
func parseEuroAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("€", "", ",", "", " ", "").Replace(raw)
	if cleaned == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", raw)
	}
	return v, nil
}
