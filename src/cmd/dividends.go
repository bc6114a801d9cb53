package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/jernejstrasner/taxes/src/cache"
	"github.com/jernejstrasner/taxes/src/config"
	"github.com/jernejstrasner/taxes/src/furs"
	"github.com/jernejstrasner/taxes/src/parsers/saxo"
	"github.com/jernejstrasner/taxes/src/processors"
	"github.com/jernejstrasner/taxes/src/resolver"
	"github.com/jernejstrasner/taxes/src/services"
	"github.com/jernejstrasner/taxes/src/utils"
)

type dividendsCmd struct {
	saxo           string
	additionalInfo string
	output         string
	noTimestamp    bool
	correction     bool
	taxpayer       string
}

func (*dividendsCmd) Name() string { return "dividends" }
func (*dividendsCmd) Synopsis() string {
	return "build the Doh_Div dividend report from a Saxo Bank export"
}
func (*dividendsCmd) Usage() string {
	return `taxes dividends -saxo <file.xlsx> [-additional-info <file.xlsx>] [-correction]

  Reads the Share Dividends sheet of a Saxo Bank Excel export, converts the
  amounts to EUR, resolves payer details and writes the Doh_Div report.
  Payer ISINs and addresses come from the lookup cache, an online company
  lookup, or the terminal, in that order.
`
}

func (c *dividendsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.saxo, "saxo", "", "Path to the Saxo Bank xlsx export.")
	f.StringVar(&c.additionalInfo, "additional-info", "", "Path to the Saxo Bank instrument info xlsx with payer ISINs.")
	f.StringVar(&c.output, "output", "", "Path of the output XML file.")
	f.BoolVar(&c.noTimestamp, "no-timestamp", false, "Do not add a timestamp to the output filename (overwrites existing files).")
	f.BoolVar(&c.correction, "correction", false, "File as a correction of an already submitted report.")
	f.StringVar(&c.taxpayer, "taxpayer", "", "Path to the taxpayer XML file.")
}

func (c *dividendsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.saxo == "" {
		fmt.Fprintln(os.Stderr, "Error: -saxo is required")
		return subcommands.ExitUsageError
	}

	rates, err := loadRates()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	store, err := cache.Open(config.Cfg.CacheDBPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	parser := saxo.NewParser()
	if c.additionalInfo != "" {
		file, err := os.Open(c.additionalInfo)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		infos, err := parser.ParseInstrumentInfo(file)
		file.Close()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		if err := store.FillISINs(infos); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
	}

	file, err := os.Open(c.saxo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	rows, err := parser.ParseDividends(file)
	file.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	lookup := services.NewFinanceService(config.Cfg.HTTPTimeout)
	processor := processors.NewDividendProcessor(rates, store, lookup, resolver.NewConsole())
	dividends, err := processor.Process(rows)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	tp, err := loadTaxpayer(c.taxpayer)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	envelope := furs.BuildDividends(tp, dividends, c.correction)

	out := utils.OutputFilename(c.output, config.Cfg.OutputDir, "dividends_furs", !c.noTimestamp)
	if err := furs.WriteFile(out, envelope); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Dividends tax report saved to:", out)
	return subcommands.ExitSuccess
}
