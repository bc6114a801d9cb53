package furs

import (
	"encoding/xml"
	"strconv"

	"github.com/jernejstrasner/taxes/src/models"
	"github.com/jernejstrasner/taxes/src/taxpayer"
)

// InterestEnvelope is the Doh_Obr interest report document.
type InterestEnvelope struct {
	XMLName        xml.Name     `xml:"Envelope"`
	Xmlns          string       `xml:"xmlns,attr"`
	XmlnsEDP       string       `xml:"xmlns:edp,attr"`
	Header         header       `xml:"edp:Header"`
	AttachmentList emptyElement `xml:"edp:AttachmentList"`
	Signatures     emptyElement `xml:"edp:Signatures"`
	Body           interestBody `xml:"body"`
}

type interestBody struct {
	BodyContent emptyElement `xml:"edp:bodyContent"`
	DohObr      dohObr       `xml:"Doh_Obr"`
}

type dohObr struct {
	SelfReport                   string        `xml:"SelfReport"`
	WfTypeU                      string        `xml:"WfTypeU"`
	Period                       int           `xml:"Period"`
	DocumentWorkflowID           string        `xml:"DocumentWorkflowID"`
	Email                        string        `xml:"Email"`
	TelephoneNumber              string        `xml:"TelephoneNumber"`
	ResidentOfRepublicOfSlovenia string        `xml:"ResidentOfRepublicOfSlovenia"`
	Country                      string        `xml:"Country"`
	Interests                    []interestRow `xml:"Interest"`
}

type interestRow struct {
	Date                 string `xml:"Date"`
	IdentificationNumber string `xml:"IdentificationNumber"`
	Name                 string `xml:"Name"`
	Address              string `xml:"Address"`
	Country              string `xml:"Country"`
	Type                 string `xml:"Type"`
	Value                string `xml:"Value"`
	ForeignTax           string `xml:"ForeignTax,omitempty"`
	Country2             string `xml:"Country2"`
	ReliefStatement      string `xml:"ReliefStatement,omitempty"`
}

// BuildInterest assembles the interest report for the given period. Foreign
// tax and relief statement are optional per payment and left out when not
// set.
func BuildInterest(t *taxpayer.Taxpayer, payments []models.Interest, period int) *InterestEnvelope {
	envelope := &InterestEnvelope{
		Xmlns:    obrNamespace,
		XmlnsEDP: edpNamespace,
		Header:   header{Taxpayer: newHeaderTaxpayer(t)},
		Body: interestBody{
			DohObr: dohObr{
				SelfReport:                   "false",
				WfTypeU:                      "false",
				Period:                       period,
				DocumentWorkflowID:           workflowOriginal,
				Email:                        t.Email,
				TelephoneNumber:              t.Phone,
				ResidentOfRepublicOfSlovenia: "true",
				Country:                      "SI",
			},
		},
	}

	for _, p := range payments {
		row := interestRow{
			Date:                 p.Date.Format("2006-01-02"),
			IdentificationNumber: p.IdentificationNumber,
			Name:                 p.Name,
			Address:              p.Address,
			Country:              p.Country,
			Type:                 strconv.Itoa(int(p.Type)),
			Value:                p.Value.StringFixed(2),
			Country2:             p.SourceCountry,
			ReliefStatement:      p.ReliefStatement,
		}
		if p.ForeignTax != nil {
			row.ForeignTax = p.ForeignTax.StringFixed(2)
		}
		envelope.Body.DohObr.Interests = append(envelope.Body.DohObr.Interests, row)
	}
	return envelope
}
