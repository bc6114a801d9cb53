package processors

import (
	"testing"

	"github.com/jernejstrasner/taxes/src/kdvp"
	"github.com/jernejstrasner/taxes/src/models"
	"github.com/stretchr/testify/require"
)

func TestProcessIBKRTrades(t *testing.T) {
	trades := []models.IBKRTrade{
		{Symbol: "ADS", Date: day("2024-01-05"), Quantity: dec("10"), Price: dec("180"), IsBuy: true},
		{Symbol: "ADS", Date: day("2024-03-10"), Quantity: dec("4"), Price: dec("200"), IsBuy: false},
		{Symbol: "EUNL", Date: day("2024-02-20"), Quantity: dec("2"), Price: dec("90"), IsBuy: true, IsETF: true},
	}

	registry := kdvp.NewRegistry()
	NewIBKRGainsProcessor().Process(trades, registry)
	require.Equal(t, 2, registry.Len())

	ads, ok := registry.Ledger("ADS")
	require.True(t, ok)
	require.False(t, ads.IsFond)
	lots := ads.Lots()
	require.Len(t, lots, 2)
	require.Equal(t, kdvp.KindAcquisition, lots[0].Kind)
	require.Equal(t, kdvp.AcquisitionPurchase, lots[0].AcqType)
	require.Equal(t, kdvp.KindDisposal, lots[1].Kind)
	require.True(t, lots[1].Position.Equal(dec("6")))

	etf, ok := registry.Ledger("EUNL")
	require.True(t, ok)
	require.True(t, etf.IsFond)
}
