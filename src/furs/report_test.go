package furs

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jernejstrasner/taxes/src/kdvp"
	"github.com/jernejstrasner/taxes/src/models"
	"github.com/jernejstrasner/taxes/src/taxpayer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testTaxpayer() *taxpayer.Taxpayer {
	return &taxpayer.Taxpayer{
		TaxNumber:  "12345678",
		Name:       "Janez Novak",
		Address:    "Dunajska cesta 1",
		City:       "Ljubljana",
		PostNumber: "1000",
		PostName:   "Ljubljana",
		Email:      "janez@example.com",
		Phone:      "+38640123456",
		BirthDate:  "1990-05-01",
	}
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func marshal(t *testing.T, envelope any) string {
	t.Helper()
	data, err := xml.MarshalIndent(envelope, "", "  ")
	require.NoError(t, err)
	return string(data)
}

func TestBuildKDVP(t *testing.T) {
	registry := kdvp.NewRegistry()
	registry.AddTrade("AAPL",
		kdvp.NewAcquisition(day("2024-01-05"), decimal.NewFromInt(100), decimal.RequireFromString("180.5"), kdvp.AcquisitionOther),
		false)
	registry.AddTrade("AAPL",
		kdvp.NewDisposal(day("2024-03-10"), decimal.NewFromInt(40), decimal.NewFromInt(190), false),
		false)
	registry.AddTrade("VWCE",
		kdvp.NewAcquisition(day("2024-02-20"), decimal.RequireFromString("1.5"), decimal.NewFromInt(110), kdvp.AcquisitionOther),
		true)

	envelope, err := BuildKDVP(testTaxpayer(), registry)
	require.NoError(t, err)
	require.Equal(t, 2, envelope.Body.DohKDVP.KDVP.SecurityCount)
	require.Equal(t, "O", envelope.Body.DohKDVP.KDVP.DocumentWorkflowID)
	require.Equal(t, time.Now().Year()-1, envelope.Body.DohKDVP.KDVP.Year)

	out := marshal(t, envelope)
	require.Contains(t, out, `xmlns="http://edavki.durs.si/Documents/Schemas/Doh_KDVP_9.xsd"`)
	require.Contains(t, out, `xmlns:edp="http://edavki.durs.si/Documents/Schemas/EDP-Common-1.xsd"`)
	require.Contains(t, out, "<edp:birthDate>1990-05-01</edp:birthDate>")
	require.NotContains(t, out, "<edp:postName>")
	require.Contains(t, out, "<InventoryListType>PLVP</InventoryListType>")

	// Purchase row carries F1-F4 at four decimals, the sale F6/F7/F9/F10,
	// and both the running position in F8.
	require.Contains(t, out, "<F1>2024-01-05</F1>")
	require.Contains(t, out, "<F2>B</F2>")
	require.Contains(t, out, "<F3>100.0000</F3>")
	require.Contains(t, out, "<F4>180.5000</F4>")
	require.Contains(t, out, "<F6>2024-03-10</F6>")
	require.Contains(t, out, "<F7>40.0000</F7>")
	require.Contains(t, out, "<F8>60.0000</F8>")
	require.Contains(t, out, "<F10>true</F10>")
	require.Contains(t, out, "<IsFond>true</IsFond>")
	require.Contains(t, out, "<IsFond>false</IsFond>")
}

func TestBuildDividends(t *testing.T) {
	dividends := []models.Dividend{{
		Date:            day("2024-02-20"),
		PayerID:         "US0378331005",
		PayerName:       "Apple Inc.",
		PayerAddress:    "One Apple Park Way",
		PayerCountry:    "US",
		Value:           decimal.RequireFromString("5.005"),
		ForeignTax:      decimal.RequireFromString("0.75"),
		ReliefStatement: "relief",
	}}

	envelope := BuildDividends(testTaxpayer(), dividends, false)
	require.Equal(t, "O", envelope.Header.Workflow.DocumentWorkflowID)

	out := marshal(t, envelope)
	require.Contains(t, out, `xmlns="http://edavki.durs.si/Documents/Schemas/Doh_Div_3.xsd"`)
	require.Contains(t, out, "<edp:postName>Ljubljana</edp:postName>")
	require.Contains(t, out, "<edp:domain>edavki.durs.si</edp:domain>")
	require.Contains(t, out, "<PayerIdentificationNumber>US0378331005</PayerIdentificationNumber>")
	require.Contains(t, out, "<Value>5.01</Value>")
	require.Contains(t, out, "<ForeignTax>0.75</ForeignTax>")
	require.Contains(t, out, "<SourceCountry>US</SourceCountry>")
	require.Contains(t, out, "<Type>1</Type>")
}

func TestBuildDividendsCorrection(t *testing.T) {
	envelope := BuildDividends(testTaxpayer(), nil, true)
	require.Equal(t, "P", envelope.Header.Workflow.DocumentWorkflowID)
}

func TestBuildInterest(t *testing.T) {
	tax := decimal.RequireFromString("0.10")
	payments := []models.Interest{
		{
			Date:                 day("2024-02-29"),
			IdentificationNumber: "15731249",
			Name:                 "Saxo Bank A/S",
			Address:              "Philip Heymans Alle 15, 2900 Hellerup",
			Country:              "DK",
			Type:                 models.FundInterest,
			Value:                decimal.RequireFromString("3.456"),
			SourceCountry:        "DK",
		},
		{
			Date:                 day("2024-03-31"),
			IdentificationNumber: "99999999",
			Name:                 "Some Bank",
			Address:              "Somewhere 1",
			Country:              "US",
			Type:                 models.NonEUBankInterest,
			Value:                decimal.NewFromInt(2),
			SourceCountry:        "US",
			ForeignTax:           &tax,
			ReliefStatement:      "relief",
		},
	}

	envelope := BuildInterest(testTaxpayer(), payments, 2024)
	out := marshal(t, envelope)
	require.Contains(t, out, `xmlns="http://edavki.durs.si/Documents/Schemas/Doh_Obr_2.xsd"`)
	require.Contains(t, out, "<Period>2024</Period>")
	require.Contains(t, out, "<Type>7</Type>")
	require.Contains(t, out, "<Type>3</Type>")
	require.Contains(t, out, "<Value>3.46</Value>")
	require.Contains(t, out, "<ForeignTax>0.10</ForeignTax>")
	require.Contains(t, out, "<ReliefStatement>relief</ReliefStatement>")

	// Optional elements stay out when unset.
	require.Equal(t, 1, strings.Count(out, "<ForeignTax>"))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "report.xml")
	require.NoError(t, WriteFile(path, BuildDividends(testTaxpayer(), nil, false)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), xml.Header[:len(xml.Header)-1])
	require.Contains(t, string(data), "<Envelope")
}
