// Package cmd implements the CLI subcommands. Each command parses the
// broker exports it was given, runs them through the processors and writes
// one eDavki report file.
package cmd

import (
	"net/http"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/jernejstrasner/taxes/src/config"
	"github.com/jernejstrasner/taxes/src/currency"
	"github.com/jernejstrasner/taxes/src/resolver"
	"github.com/jernejstrasner/taxes/src/taxpayer"
)

// Commands is the full command set registered by main.
var Commands = []subcommands.Command{
	&gainsCmd{},
	&dividendsCmd{},
	&interestCmd{},
}

// loadRates makes sure the Bank of Slovenia rate list on disk is from today
// and parses it.
func loadRates() (*currency.RateTable, error) {
	client := &http.Client{Timeout: config.Cfg.HTTPTimeout}
	dest := filepath.Join(config.Cfg.DataDir, "dtecbs-l.xml")
	if err := currency.EnsureFresh(client, config.Cfg.CurrencyURL, dest); err != nil {
		return nil, err
	}
	return currency.LoadFile(dest)
}

// loadTaxpayer reads the taxpayer profile, asking on the terminal for any
// missing field. An empty path means the configured default location.
func loadTaxpayer(path string) (*taxpayer.Taxpayer, error) {
	if path == "" {
		path = config.Cfg.TaxpayerPath
	}
	return taxpayer.Load(path, resolver.NewConsole())
}
