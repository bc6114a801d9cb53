package furs

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/jernejstrasner/taxes/src/kdvp"
	"github.com/jernejstrasner/taxes/src/taxpayer"
)

// KDVPEnvelope is the Doh_KDVP capital gains report document.
type KDVPEnvelope struct {
	XMLName        xml.Name     `xml:"Envelope"`
	Xmlns          string       `xml:"xmlns,attr"`
	XmlnsEDP       string       `xml:"xmlns:edp,attr"`
	Header         header       `xml:"edp:Header"`
	AttachmentList emptyElement `xml:"edp:AttachmentList"`
	Signatures     emptyElement `xml:"edp:Signatures"`
	Body           kdvpBody     `xml:"body"`
}

type kdvpBody struct {
	BodyContent emptyElement `xml:"edp:bodyContent"`
	DohKDVP     dohKDVP      `xml:"Doh_KDVP"`
}

type dohKDVP struct {
	KDVP  kdvpSummary `xml:"KDVP"`
	Items []kdvpItem  `xml:"KDVPItem"`
}

type kdvpSummary struct {
	DocumentWorkflowID             string `xml:"DocumentWorkflowID"`
	Year                           int    `xml:"Year"`
	PeriodStart                    string `xml:"PeriodStart"`
	PeriodEnd                      string `xml:"PeriodEnd"`
	IsResident                     string `xml:"IsResident"`
	TelephoneNumber                string `xml:"TelephoneNumber"`
	SecurityCount                  int    `xml:"SecurityCount"`
	SecurityShortCount             int    `xml:"SecurityShortCount"`
	SecurityWithContractCount      int    `xml:"SecurityWithContractCount"`
	SecurityWithContractShortCount int    `xml:"SecurityWithContractShortCount"`
	ShareCount                     int    `xml:"ShareCount"`
	SecurityCapitalReductionCount  int    `xml:"SecurityCapitalReductionCount"`
	Email                          string `xml:"Email"`
}

type kdvpItem struct {
	ItemID                 int            `xml:"ItemID"`
	InventoryListType      string         `xml:"InventoryListType"`
	Name                   string         `xml:"Name"`
	HasForeignTax          string         `xml:"HasForeignTax"`
	HasLossTransfer        string         `xml:"HasLossTransfer"`
	ForeignTransfer        string         `xml:"ForeignTransfer"`
	TaxDecreaseConformance string         `xml:"TaxDecreaseConformance"`
	Securities             kdvpSecurities `xml:"Securities"`
}

type kdvpSecurities struct {
	Code   string    `xml:"Code"`
	IsFond string    `xml:"IsFond"`
	Rows   []kdvpRow `xml:"Row"`
}

type kdvpRow struct {
	ID       int           `xml:"ID"`
	Purchase *kdvpPurchase `xml:"Purchase"`
	Sale     *kdvpSale     `xml:"Sale"`
	F8       string        `xml:"F8"` // running position after this row
}

type kdvpPurchase struct {
	F1 string `xml:"F1"` // acquisition date
	F2 string `xml:"F2"` // acquisition type code
	F3 string `xml:"F3"` // quantity
	F4 string `xml:"F4"` // unit price, EUR
}

type kdvpSale struct {
	F6  string `xml:"F6"`  // disposal date
	F7  string `xml:"F7"`  // quantity
	F9  string `xml:"F9"`  // unit price, EUR
	F10 string `xml:"F10"` // counts toward the norm reduction schedule
}

// BuildKDVP assembles the capital gains report for the previous calendar
// year from a fully populated registry. Quantities, prices and running
// positions are written with four decimals, as the schema prescribes.
func BuildKDVP(t *taxpayer.Taxpayer, registry *kdvp.Registry) (*KDVPEnvelope, error) {
	birthDate, err := t.BirthDateTime()
	if err != nil {
		return nil, err
	}
	hdrTaxpayer := newHeaderTaxpayer(t)
	hdrTaxpayer.PostName = ""
	hdrTaxpayer.BirthDate = birthDate.Format("2006-01-02")

	year := time.Now().Year() - 1
	ledgers := registry.Ledgers()

	envelope := &KDVPEnvelope{
		Xmlns:    kdvpNamespace,
		XmlnsEDP: edpNamespace,
		Header:   header{Taxpayer: hdrTaxpayer},
		Body: kdvpBody{
			DohKDVP: dohKDVP{
				KDVP: kdvpSummary{
					DocumentWorkflowID: workflowOriginal,
					Year:               year,
					PeriodStart:        fmt.Sprintf("%d-01-01", year),
					PeriodEnd:          fmt.Sprintf("%d-12-31", year),
					IsResident:         "true",
					TelephoneNumber:    t.Phone,
					SecurityCount:      len(ledgers),
					Email:              t.Email,
				},
			},
		},
	}

	for i, ledger := range ledgers {
		item := kdvpItem{
			ItemID:                 i + 1,
			InventoryListType:      "PLVP",
			Name:                   ledger.Name,
			HasForeignTax:          "false",
			HasLossTransfer:        "false",
			ForeignTransfer:        "false",
			TaxDecreaseConformance: "false",
			Securities: kdvpSecurities{
				Code:   ledger.Name,
				IsFond: strconv.FormatBool(ledger.IsFond),
			},
		}
		for j, lot := range ledger.Lots() {
			row := kdvpRow{ID: j, F8: lot.Position.StringFixed(4)}
			if lot.Kind == kdvp.KindDisposal {
				row.Sale = &kdvpSale{
					F6:  lot.Date.Format("2006-01-02"),
					F7:  lot.Quantity.StringFixed(4),
					F9:  lot.Price.StringFixed(4),
					F10: "true",
				}
			} else {
				row.Purchase = &kdvpPurchase{
					F1: lot.Date.Format("2006-01-02"),
					F2: string(lot.AcqType),
					F3: lot.Quantity.StringFixed(4),
					F4: lot.Price.StringFixed(4),
				}
			}
			item.Securities.Rows = append(item.Securities.Rows, row)
		}
		envelope.Body.DohKDVP.Items = append(envelope.Body.DohKDVP.Items, item)
	}
	return envelope, nil
}
