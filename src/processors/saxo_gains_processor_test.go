package processors

import (
	"strings"
	"testing"
	"time"

	"github.com/jernejstrasner/taxes/src/currency"
	"github.com/jernejstrasner/taxes/src/kdvp"
	"github.com/jernejstrasner/taxes/src/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testRates quotes USD at 2 per EUR on every date the tests use.
func testRates(t *testing.T) *currency.RateTable {
	t.Helper()
	doc := `<DtecBS>
		<tecajnica datum="2024-01-05"><tecaj oznaka="USD">2</tecaj></tecajnica>
		<tecajnica datum="2024-02-20"><tecaj oznaka="USD">2</tecaj></tecajnica>
		<tecajnica datum="2024-03-10"><tecaj oznaka="USD">2</tecaj></tecajnica>
	</DtecBS>`
	table, err := currency.ParseBSI(strings.NewReader(doc))
	require.NoError(t, err)
	return table
}

func closedRow(symbol, closeID string, openDate, closeDate string, qtyOpen, qtyClose, gain string) models.ClosedPositionRow {
	return models.ClosedPositionRow{
		Symbol:          symbol,
		AssetType:       "Stock",
		Currency:        "EUR",
		OpenDate:        day(openDate),
		CloseDate:       day(closeDate),
		QuantityOpen:    dec(qtyOpen),
		QuantityClose:   dec(qtyClose),
		OpenPrice:       dec("100"),
		ClosePrice:      dec("110"),
		ClosePositionID: closeID,
		Gain:            dec(gain),
	}
}

func TestProcessOneSaleClosingTwoLots(t *testing.T) {
	// One sale of 136 shares closed two open lots of 71 and 65; the export
	// repeats the close side on both rows.
	rows := []models.ClosedPositionRow{
		closedRow("AAPL", "C1", "2024-01-05", "2024-03-10", "71", "136", "500"),
		closedRow("AAPL", "C1", "2024-02-20", "2024-03-10", "65", "136", "300"),
	}
	// The second lot opened at a different price so the acquisitions stay
	// distinct.
	rows[1].OpenPrice = dec("105")

	registry := kdvp.NewRegistry()
	require.NoError(t, NewSaxoGainsProcessor(testRates(t)).Process(rows, registry))

	ledger, ok := registry.Ledger("AAPL")
	require.True(t, ok)
	lots := ledger.Lots()
	require.Len(t, lots, 3)

	require.Equal(t, kdvp.KindAcquisition, lots[0].Kind)
	require.Equal(t, kdvp.AcquisitionOther, lots[0].AcqType)
	require.True(t, lots[0].Quantity.Equal(dec("71")))
	require.Equal(t, kdvp.KindAcquisition, lots[1].Kind)
	require.True(t, lots[1].Quantity.Equal(dec("65")))

	require.Equal(t, kdvp.KindDisposal, lots[2].Kind)
	require.True(t, lots[2].Quantity.Equal(dec("136")), "disposal must be recorded once, got %s", lots[2].Quantity)
	require.True(t, lots[2].Position.IsZero())
	require.False(t, lots[2].LossTransfer)
}

func TestProcessSeparateSales(t *testing.T) {
	rows := []models.ClosedPositionRow{
		closedRow("AAPL", "C1", "2024-01-05", "2024-03-10", "50", "50", "100"),
		closedRow("AAPL", "C2", "2024-02-20", "2024-03-10", "30", "30", "80"),
	}
	rows[1].ClosePrice = dec("120")

	registry := kdvp.NewRegistry()
	require.NoError(t, NewSaxoGainsProcessor(testRates(t)).Process(rows, registry))

	ledger, _ := registry.Ledger("AAPL")
	disposals := 0
	for _, lot := range ledger.Lots() {
		if lot.Kind == kdvp.KindDisposal {
			disposals++
		}
	}
	require.Equal(t, 2, disposals)
}

func TestProcessInconsistentCloseQuantityCommitsNothing(t *testing.T) {
	rows := []models.ClosedPositionRow{
		closedRow("AAPL", "C1", "2024-01-05", "2024-03-10", "50", "100", "100"),
		closedRow("AAPL", "C1", "2024-02-20", "2024-03-10", "50", "90", "100"),
	}

	registry := kdvp.NewRegistry()
	err := NewSaxoGainsProcessor(testRates(t)).Process(rows, registry)
	require.Error(t, err)
	require.Contains(t, err.Error(), "C1")
	require.Equal(t, 0, registry.Len())
}

func TestProcessCloseBeforeOpenRejected(t *testing.T) {
	rows := []models.ClosedPositionRow{
		closedRow("AAPL", "C1", "2024-03-10", "2024-01-05", "50", "50", "100"),
	}
	registry := kdvp.NewRegistry()
	err := NewSaxoGainsProcessor(testRates(t)).Process(rows, registry)
	require.Error(t, err)
	require.Equal(t, 0, registry.Len())
}

func TestProcessLossTransferFromNetGain(t *testing.T) {
	// The sale's lots net to a loss (+50 - 70), so the disposal transfers it.
	rows := []models.ClosedPositionRow{
		closedRow("AAPL", "C1", "2024-01-05", "2024-03-10", "40", "80", "50"),
		closedRow("AAPL", "C1", "2024-02-20", "2024-03-10", "40", "80", "-70"),
	}
	rows[1].OpenPrice = dec("115")

	registry := kdvp.NewRegistry()
	require.NoError(t, NewSaxoGainsProcessor(testRates(t)).Process(rows, registry))

	ledger, _ := registry.Ledger("AAPL")
	lots := ledger.Lots()
	require.Equal(t, kdvp.KindDisposal, lots[len(lots)-1].Kind)
	require.True(t, lots[len(lots)-1].LossTransfer)
}

func TestProcessEtfFilesAsFund(t *testing.T) {
	stock := closedRow("AAPL", "C1", "2024-01-05", "2024-03-10", "10", "10", "5")
	etf := closedRow("VWCE", "C2", "2024-01-05", "2024-03-10", "10", "10", "5")
	etf.AssetType = "Etf"

	registry := kdvp.NewRegistry()
	require.NoError(t, NewSaxoGainsProcessor(testRates(t)).Process(
		[]models.ClosedPositionRow{stock, etf}, registry))

	stockLedger, _ := registry.Ledger("AAPL")
	require.False(t, stockLedger.IsFond)
	etfLedger, _ := registry.Ledger("VWCE")
	require.True(t, etfLedger.IsFond)
}

func TestProcessConvertsPricesToEUR(t *testing.T) {
	row := closedRow("AAPL", "C1", "2024-01-05", "2024-03-10", "10", "10", "5")
	row.Currency = "USD"
	row.OpenPrice = dec("200")
	row.ClosePrice = dec("220")

	registry := kdvp.NewRegistry()
	require.NoError(t, NewSaxoGainsProcessor(testRates(t)).Process(
		[]models.ClosedPositionRow{row}, registry))

	ledger, _ := registry.Ledger("AAPL")
	lots := ledger.Lots()
	require.True(t, lots[0].Price.Equal(dec("100")), "got %s", lots[0].Price)
	require.True(t, lots[1].Price.Equal(dec("110")), "got %s", lots[1].Price)
}
