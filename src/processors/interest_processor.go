package processors

import (
	"fmt"
	"sort"

	"github.com/jernejstrasner/taxes/src/currency"
	"github.com/jernejstrasner/taxes/src/logger"
	"github.com/jernejstrasner/taxes/src/models"
	"github.com/shopspring/decimal"
)

// Payer identities are fixed per broker, the exports never carry them.
var (
	saxoPayer = models.Interest{
		IdentificationNumber: "15731249",
		Name:                 "Saxo Bank A/S",
		Address:              "Philip Heymans Alle 15, 2900 Hellerup",
		Country:              "DK",
		Type:                 models.FundInterest,
		SourceCountry:        "DK",
	}
	revolutPayer = models.Interest{
		IdentificationNumber: "305799582",
		Name:                 "Revolut Securities Europe UAB",
		Address:              "Konstitucijos ave. 21B, Vilnius, 08130",
		Country:              "LT",
		Type:                 models.FundInterest,
		SourceCountry:        "LT",
	}
)

// InterestProcessor converts raw interest rows from either broker into
// filing-ready records with the payer identity attached.
type InterestProcessor struct {
	rates *currency.RateTable
}

func NewInterestProcessor(rates *currency.RateTable) *InterestProcessor {
	return &InterestProcessor{rates: rates}
}

// ProcessSaxo converts Saxo interest rows to EUR and stamps the Saxo Bank
// payer identity on each.
func (p *InterestProcessor) ProcessSaxo(rows []models.InterestRow) ([]models.Interest, error) {
	return p.process(rows, saxoPayer, "Saxo")
}

// ProcessRevolut stamps the Revolut payer identity on each row. Revolut
// statements are already EUR but conversion is applied anyway so a non-EUR
// row fails loudly instead of passing through unconverted.
func (p *InterestProcessor) ProcessRevolut(rows []models.InterestRow) ([]models.Interest, error) {
	return p.process(rows, revolutPayer, "Revolut")
}

func (p *InterestProcessor) process(rows []models.InterestRow, payer models.Interest, source string) ([]models.Interest, error) {
	var payments []models.Interest
	total := decimal.Zero
	for _, row := range rows {
		value, err := p.rates.Convert(row.Amount, row.Currency, row.Date)
		if err != nil {
			return nil, fmt.Errorf("%s interest on %s: %w", source, row.Date.Format("2006-01-02"), err)
		}
		payment := payer
		payment.Date = row.Date
		payment.Value = value
		payments = append(payments, payment)
		total = total.Add(value)
	}
	logger.L.Info("Processed interest payments",
		"source", source, "count", len(payments), "totalEUR", total.StringFixed(2))
	return payments, nil
}

// Condense merges payments from the same payer into one record carrying the
// latest payment date and the summed value. The filing only needs the yearly
// total per payer; per-payment rows stay available for the uncondensed view.
func Condense(payments []models.Interest) []models.Interest {
	type key struct {
		id  string
		typ models.InterestType
	}
	merged := make(map[key]*models.Interest)
	var order []key
	for _, payment := range payments {
		k := key{payment.IdentificationNumber, payment.Type}
		existing, ok := merged[k]
		if !ok {
			copied := payment
			merged[k] = &copied
			order = append(order, k)
			continue
		}
		existing.Value = existing.Value.Add(payment.Value)
		if payment.Date.After(existing.Date) {
			existing.Date = payment.Date
		}
		if payment.ForeignTax != nil {
			if existing.ForeignTax == nil {
				tax := *payment.ForeignTax
				existing.ForeignTax = &tax
			} else {
				sum := existing.ForeignTax.Add(*payment.ForeignTax)
				existing.ForeignTax = &sum
			}
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].id != order[j].id {
			return order[i].id < order[j].id
		}
		return order[i].typ < order[j].typ
	})
	condensed := make([]models.Interest, 0, len(order))
	for _, k := range order {
		condensed = append(condensed, *merged[k])
	}
	return condensed
}
