// Package furs builds the eDavki report documents. Every report is an
// Envelope in its own schema namespace wrapping a shared EDP-Common header;
// the "edp:" prefix is written literally in the element tags and bound by an
// xmlns:edp attribute on the envelope.
package furs

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/jernejstrasner/taxes/src/logger"
	"github.com/jernejstrasner/taxes/src/taxpayer"
	"github.com/jernejstrasner/taxes/src/utils"
)

const (
	edpNamespace  = "http://edavki.durs.si/Documents/Schemas/EDP-Common-1.xsd"
	kdvpNamespace = "http://edavki.durs.si/Documents/Schemas/Doh_KDVP_9.xsd"
	divNamespace  = "http://edavki.durs.si/Documents/Schemas/Doh_Div_3.xsd"
	obrNamespace  = "http://edavki.durs.si/Documents/Schemas/Doh_Obr_2.xsd"
)

// Workflow IDs: "O" for an original filing, "P" for a correction of an
// already submitted report.
const (
	workflowOriginal   = "O"
	workflowCorrection = "P"
)

type emptyElement struct{}

// headerTaxpayer is the edp:taxpayer block. The KDVP schema wants birthDate
// where the others want postName, so both are optional here and each report
// builder fills the one its schema asks for.
type headerTaxpayer struct {
	TaxNumber    string `xml:"edp:taxNumber"`
	TaxpayerType string `xml:"edp:taxpayerType"`
	Name         string `xml:"edp:name"`
	Address1     string `xml:"edp:address1"`
	City         string `xml:"edp:city"`
	PostNumber   string `xml:"edp:postNumber"`
	PostName     string `xml:"edp:postName,omitempty"`
	BirthDate    string `xml:"edp:birthDate,omitempty"`
}

type headerWorkflow struct {
	DocumentWorkflowID   string `xml:"edp:DocumentWorkflowID"`
	DocumentWorkflowName string `xml:"edp:DocumentWorkflowName"`
}

type header struct {
	Taxpayer headerTaxpayer  `xml:"edp:taxpayer"`
	Workflow *headerWorkflow `xml:"edp:Workflow"`
	Domain   string          `xml:"edp:domain,omitempty"`
}

func newHeaderTaxpayer(t *taxpayer.Taxpayer) headerTaxpayer {
	return headerTaxpayer{
		TaxNumber:    t.TaxNumber,
		TaxpayerType: "FO",
		Name:         t.Name,
		Address1:     t.Address,
		City:         t.City,
		PostNumber:   t.PostNumber,
		PostName:     t.PostName,
	}
}

// WriteFile marshals a report envelope to path with the XML declaration,
// creating parent directories as needed.
func WriteFile(path string, envelope any) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	data, err := xml.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(xml.Header), append(data, '\n')...), 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	logger.L.Info("Report written", "path", path)
	return nil
}
