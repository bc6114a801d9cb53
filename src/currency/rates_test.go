package currency

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const sampleBSI = `<?xml version="1.0" encoding="UTF-8"?>
<DtecBS xmlns="http://www.bsi.si">
  <tecajnica datum="2024-03-08">
    <tecaj oznaka="USD" sifra="840">1.0936</tecaj>
    <tecaj oznaka="CAD" sifra="124">1.4739</tecaj>
  </tecajnica>
  <tecajnica datum="2024-03-11">
    <tecaj oznaka="USD" sifra="840">1.0926</tecaj>
  </tecajnica>
</DtecBS>`

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseBSI(t *testing.T) {
	table, err := ParseBSI(strings.NewReader(sampleBSI))
	require.NoError(t, err)

	rate, err := table.Rate(day("2024-03-08"), "USD")
	require.NoError(t, err)
	require.True(t, rate.Equal(decimal.RequireFromString("1.0936")))

	rate, err = table.Rate(day("2024-03-08"), "CAD")
	require.NoError(t, err)
	require.True(t, rate.Equal(decimal.RequireFromString("1.4739")))
}

func TestRateEURIsAlwaysOne(t *testing.T) {
	table, err := ParseBSI(strings.NewReader(sampleBSI))
	require.NoError(t, err)

	rate, err := table.Rate(day("1999-01-01"), "EUR")
	require.NoError(t, err)
	require.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestRateWeekendFallsBack(t *testing.T) {
	table, err := ParseBSI(strings.NewReader(sampleBSI))
	require.NoError(t, err)

	// Sunday 2024-03-10 has no quote; Friday's rate applies.
	rate, err := table.Rate(day("2024-03-10"), "USD")
	require.NoError(t, err)
	require.True(t, rate.Equal(decimal.RequireFromString("1.0936")))
}

func TestRateFallbackIsBounded(t *testing.T) {
	table, err := ParseBSI(strings.NewReader(sampleBSI))
	require.NoError(t, err)

	_, err = table.Rate(day("2024-03-20"), "CAD")
	require.Error(t, err)
	require.Contains(t, err.Error(), "CAD")
}

func TestConvertDividesByRate(t *testing.T) {
	table, err := ParseBSI(strings.NewReader(sampleBSI))
	require.NoError(t, err)

	amount, err := table.Convert(decimal.RequireFromString("10.936"), "USD", day("2024-03-08"))
	require.NoError(t, err)
	require.True(t, amount.Equal(decimal.NewFromInt(10)), "got %s", amount)
}

func TestParseBSIRejectsBadNumbers(t *testing.T) {
	doc := `<DtecBS><tecajnica datum="2024-03-08"><tecaj oznaka="USD">x</tecaj></tecajnica></DtecBS>`
	_, err := ParseBSI(strings.NewReader(doc))
	require.Error(t, err)
}

func TestParseBSIRejectsOutOfRangeRates(t *testing.T) {
	// A zero rate would later divide by zero in Convert; negative and absurd
	// values mean a corrupt file. All must fail at parse time.
	for _, value := range []string{"0", "-1.05", "10000", "250000"} {
		doc := `<DtecBS><tecajnica datum="2024-03-08"><tecaj oznaka="USD">` + value + `</tecaj></tecajnica></DtecBS>`
		_, err := ParseBSI(strings.NewReader(doc))
		require.Error(t, err, value)
		require.Contains(t, err.Error(), "out of range", value)
	}
}
