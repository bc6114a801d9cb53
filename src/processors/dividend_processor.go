package processors

import (
	"fmt"
	"strings"
	"time"

	"github.com/jernejstrasner/taxes/src/cache"
	"github.com/jernejstrasner/taxes/src/currency"
	"github.com/jernejstrasner/taxes/src/isin"
	"github.com/jernejstrasner/taxes/src/logger"
	"github.com/jernejstrasner/taxes/src/models"
	"github.com/jernejstrasner/taxes/src/resolver"
	"github.com/shopspring/decimal"
)

// CompanyInfo is what an external lookup can contribute about a payer.
type CompanyInfo struct {
	ISIN    string
	Address string
}

// CompanyLookup hints payer details before falling back to the resolver.
type CompanyLookup interface {
	Lookup(symbol string) (CompanyInfo, error)
}

// DividendProcessor resolves Saxo dividend rows into filing-ready records:
// amounts converted to EUR, payer identified by a validated ISIN, address
// and per-country relief statement attached. Resolution order is lookup
// cache, then the company lookup service, then the injected resolver; every
// resolver answer is written back to the cache.
type DividendProcessor struct {
	rates    *currency.RateTable
	store    *cache.Store
	lookup   CompanyLookup
	resolver resolver.Resolver
}

func NewDividendProcessor(rates *currency.RateTable, store *cache.Store, lookup CompanyLookup, res resolver.Resolver) *DividendProcessor {
	return &DividendProcessor{rates: rates, store: store, lookup: lookup, resolver: res}
}

// Process keeps only cash dividend events and resolves each into a Dividend.
func (p *DividendProcessor) Process(rows []models.DividendRow) ([]models.Dividend, error) {
	var dividends []models.Dividend
	totalValue, totalTax := decimal.Zero, decimal.Zero

	for _, row := range rows {
		if row.Event != "Cash dividend" {
			continue
		}

		value, err := p.convertAmount(row.Amount, row.Date)
		if err != nil {
			return nil, fmt.Errorf("dividend from %s on %s: amount: %w", row.PayerName, row.Date.Format("2006-01-02"), err)
		}
		if strings.TrimSpace(row.ForeignTax) == "" {
			return nil, fmt.Errorf("dividend from %s on %s: missing foreign tax value; a zero withholding must still read like \"USD 0\"",
				row.PayerName, row.Date.Format("2006-01-02"))
		}
		foreignTax, err := p.convertAmount(strings.TrimLeft(row.ForeignTax, " +-"), row.Date)
		if err != nil {
			return nil, fmt.Errorf("dividend from %s on %s: foreign tax: %w", row.PayerName, row.Date.Format("2006-01-02"), err)
		}

		payerISIN, err := p.resolveISIN(row.Symbol, row.PayerName)
		if err != nil {
			return nil, err
		}
		country := payerISIN[:2]
		address, err := p.resolveAddress(row.Symbol, row.PayerName)
		if err != nil {
			return nil, err
		}
		relief, err := p.resolveReliefStatement(country)
		if err != nil {
			return nil, err
		}

		dividends = append(dividends, models.Dividend{
			Date:            row.Date,
			PayerID:         payerISIN,
			PayerName:       row.PayerName,
			PayerAddress:    address,
			PayerCountry:    country,
			Value:           value,
			ForeignTax:      foreignTax,
			ReliefStatement: relief,
		})
		totalValue = totalValue.Add(value)
		totalTax = totalTax.Add(foreignTax)
	}

	logger.L.Info("Processed dividends",
		"count", len(dividends),
		"totalEUR", totalValue.StringFixed(2),
		"foreignTaxEUR", totalTax.StringFixed(2))
	return dividends, nil
}

// convertAmount parses a "CCY 12.34" broker amount and converts it to EUR.
func (p *DividendProcessor) convertAmount(raw string, date time.Time) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < 4 {
		return decimal.Decimal{}, fmt.Errorf("malformed amount %q, want \"CCY 12.34\"", raw)
	}
	ccy := trimmed[:3]
	number := strings.ReplaceAll(strings.TrimSpace(trimmed[3:]), ",", "")
	value, err := decimal.NewFromString(number)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("malformed amount %q, want \"CCY 12.34\"", raw)
	}
	return p.rates.Convert(value, ccy, date)
}

func (p *DividendProcessor) resolveISIN(symbol, payerName string) (string, error) {
	if cached, ok, err := p.store.ISIN(symbol); err != nil {
		return "", err
	} else if ok {
		return cached, nil
	}

	if p.lookup != nil {
		if info, err := p.lookup.Lookup(symbol); err == nil && info.ISIN != "" {
			if validated, err := isin.Validate(info.ISIN); err == nil {
				if err := p.store.SetISIN(symbol, validated); err != nil {
					return "", err
				}
				return validated, nil
			}
		}
	}

	answer, err := p.resolver.Resolve("isin:"+symbol, fmt.Sprintf("Enter the ISIN for %s", payerName))
	if err != nil {
		return "", fmt.Errorf("payer ISIN for %s: %w", payerName, err)
	}
	validated, err := isin.Validate(answer)
	if err != nil {
		return "", fmt.Errorf("payer ISIN for %s: %w", payerName, err)
	}
	if err := p.store.SetISIN(symbol, validated); err != nil {
		return "", err
	}
	return validated, nil
}

func (p *DividendProcessor) resolveAddress(symbol, payerName string) (string, error) {
	if cached, ok, err := p.store.Address(symbol); err != nil {
		return "", err
	} else if ok {
		return cached, nil
	}

	if p.lookup != nil {
		if info, err := p.lookup.Lookup(symbol); err == nil && info.Address != "" {
			if err := p.store.SetAddress(symbol, info.Address); err != nil {
				return "", err
			}
			return info.Address, nil
		}
	}

	answer, err := p.resolver.Resolve("address:"+symbol, fmt.Sprintf("Enter the payer address for %s", payerName))
	if err != nil {
		return "", fmt.Errorf("payer address for %s: %w", payerName, err)
	}
	if err := p.store.SetAddress(symbol, answer); err != nil {
		return "", err
	}
	return answer, nil
}

func (p *DividendProcessor) resolveReliefStatement(country string) (string, error) {
	if cached, ok, err := p.store.ReliefStatement(country); err != nil {
		return "", err
	} else if ok {
		return cached, nil
	}

	answer, err := p.resolver.Resolve("relief:"+country, fmt.Sprintf("Enter the relief statement for country %s", country))
	if err != nil {
		return "", fmt.Errorf("relief statement for %s: %w", country, err)
	}
	if err := p.store.SetReliefStatement(country, answer); err != nil {
		return "", err
	}
	return answer, nil
}
