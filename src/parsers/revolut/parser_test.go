package revolut

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func sampleStatement() string {
	var b strings.Builder
	b.WriteString("Account Statement\n")
	b.WriteString("Generated on 2025-01-02\n")
	for i := 0; i < 11; i++ {
		b.WriteString("preamble\n")
	}
	b.WriteString("Date,Description,Value,Price per share,Quantity per share\n")
	b.WriteString("2024-01-31,Interest PAID EUR,€1.23,,\n")
	b.WriteString("2024-02-29,Interest PAID EUR,€1.10,,\n")
	b.WriteString("2024-02-29,Service Fee Charged,-€0.25,,\n")
	b.WriteString("2024-03-15,SELL EUR money market fund,€1000.00,€101.25,9.876\n")
	b.WriteString("2024-03-15,BUY EUR money market fund,€500.00,€101.25,4.938\n")
	return b.String()
}

func TestParseStatement(t *testing.T) {
	statement, err := NewParser().Parse(strings.NewReader(sampleStatement()))
	require.NoError(t, err)

	require.Len(t, statement.Interest, 2)
	require.Equal(t, "EUR", statement.Interest[0].Currency)
	require.True(t, statement.Interest[0].Amount.Equal(decimal.RequireFromString("1.23")))
	require.Equal(t, "2024-01-31", statement.Interest[0].Date.Format("2006-01-02"))

	require.True(t, statement.TotalFees.Equal(decimal.RequireFromString("0.25")))
	require.True(t, statement.TotalSell.Equal(decimal.RequireFromString("1000.00")))
}

func TestParseTruncatedPreamble(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("just one line\n"))
	require.Error(t, err)
}

func TestParseMissingColumns(t *testing.T) {
	doc := strings.Repeat("preamble\n", 13) + "Date,Description\n"
	_, err := NewParser().Parse(strings.NewReader(doc))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Value")
}
