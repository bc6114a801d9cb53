package furs

import (
	"encoding/xml"
	"time"

	"github.com/jernejstrasner/taxes/src/models"
	"github.com/jernejstrasner/taxes/src/taxpayer"
)

// DividendEnvelope is the Doh_Div dividend report document.
type DividendEnvelope struct {
	XMLName        xml.Name     `xml:"Envelope"`
	Xmlns          string       `xml:"xmlns,attr"`
	XmlnsEDP       string       `xml:"xmlns:edp,attr"`
	Header         header       `xml:"edp:Header"`
	AttachmentList emptyElement `xml:"edp:AttachmentList"`
	Signatures     emptyElement `xml:"edp:Signatures"`
	Body           dividendBody `xml:"body"`
}

type dividendBody struct {
	DohDiv    dohDiv        `xml:"Doh_Div"`
	Dividends []dividendRow `xml:"Dividend"`
}

type dohDiv struct {
	Period          int    `xml:"Period"`
	EmailAddress    string `xml:"EmailAddress"`
	PhoneNumber     string `xml:"PhoneNumber"`
	ResidentCountry string `xml:"ResidentCountry"`
	IsResident      string `xml:"IsResident"`
	SelfReport      string `xml:"SelfReport"`
	WfTypeU         string `xml:"WfTypeU"`
}

type dividendRow struct {
	Date                      string `xml:"Date"`
	PayerIdentificationNumber string `xml:"PayerIdentificationNumber"`
	PayerName                 string `xml:"PayerName"`
	PayerAddress              string `xml:"PayerAddress"`
	PayerCountry              string `xml:"PayerCountry"`
	Type                      string `xml:"Type"`
	Value                     string `xml:"Value"`
	ForeignTax                string `xml:"ForeignTax"`
	SourceCountry             string `xml:"SourceCountry"`
	ReliefStatement           string `xml:"ReliefStatement"`
}

// BuildDividends assembles the dividend report for the previous calendar
// year. Amounts are EUR with two decimals. A correction files under workflow
// "P" instead of "O".
func BuildDividends(t *taxpayer.Taxpayer, dividends []models.Dividend, correction bool) *DividendEnvelope {
	workflowID := workflowOriginal
	if correction {
		workflowID = workflowCorrection
	}

	envelope := &DividendEnvelope{
		Xmlns:    divNamespace,
		XmlnsEDP: edpNamespace,
		Header: header{
			Taxpayer: newHeaderTaxpayer(t),
			Workflow: &headerWorkflow{DocumentWorkflowID: workflowID},
			Domain:   "edavki.durs.si",
		},
		Body: dividendBody{
			DohDiv: dohDiv{
				Period:          time.Now().Year() - 1,
				EmailAddress:    t.Email,
				PhoneNumber:     t.Phone,
				ResidentCountry: "SI",
				IsResident:      "true",
				SelfReport:      "false",
				WfTypeU:         "false",
			},
		},
	}

	for _, d := range dividends {
		envelope.Body.Dividends = append(envelope.Body.Dividends, dividendRow{
			Date:                      d.Date.Format("2006-01-02"),
			PayerIdentificationNumber: d.PayerID,
			PayerName:                 d.PayerName,
			PayerAddress:              d.PayerAddress,
			PayerCountry:              d.PayerCountry,
			Type:                      "1",
			Value:                     d.Value.StringFixed(2),
			ForeignTax:                d.ForeignTax.StringFixed(2),
			SourceCountry:             d.PayerCountry,
			ReliefStatement:           d.ReliefStatement,
		})
	}
	return envelope
}
