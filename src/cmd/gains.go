package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/jernejstrasner/taxes/src/config"
	"github.com/jernejstrasner/taxes/src/furs"
	"github.com/jernejstrasner/taxes/src/kdvp"
	"github.com/jernejstrasner/taxes/src/parsers/ibkr"
	"github.com/jernejstrasner/taxes/src/parsers/saxo"
	"github.com/jernejstrasner/taxes/src/processors"
	"github.com/jernejstrasner/taxes/src/utils"
)

type gainsCmd struct {
	saxo        string
	ibkr        string
	output      string
	noTimestamp bool
	taxpayer    string
}

func (*gainsCmd) Name() string { return "gains" }
func (*gainsCmd) Synopsis() string {
	return "build the Doh_KDVP capital gains report from broker exports"
}
func (*gainsCmd) Usage() string {
	return `taxes gains [-saxo <file.xlsx>] [-ibkr <file.xml>] [-output <file.xml>]

  Reads closed positions from a Saxo Bank Excel export and/or trades from an
  IBKR Flex Query XML export, reconstructs per-security acquisition and
  disposal histories and writes the Doh_KDVP report.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.saxo, "saxo", "", "Path to the Saxo Bank xlsx export.")
	f.StringVar(&c.ibkr, "ibkr", "", "Path to the IBKR Flex Query XML export.")
	f.StringVar(&c.output, "output", "", "Path of the output XML file.")
	f.BoolVar(&c.noTimestamp, "no-timestamp", false, "Do not add a timestamp to the output filename (overwrites existing files).")
	f.StringVar(&c.taxpayer, "taxpayer", "", "Path to the taxpayer XML file.")
}

func (c *gainsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.saxo == "" && c.ibkr == "" {
		fmt.Fprintln(os.Stderr, "Error: no trades to process, provide at least one of -saxo or -ibkr")
		return subcommands.ExitUsageError
	}

	rates, err := loadRates()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	registry := kdvp.NewRegistry()

	if c.ibkr != "" {
		file, err := os.Open(c.ibkr)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		trades, err := ibkr.NewParser().Parse(file)
		file.Close()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		processors.NewIBKRGainsProcessor().Process(trades, registry)
	}

	if c.saxo != "" {
		file, err := os.Open(c.saxo)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		rows, err := saxo.NewParser().ParseClosedPositions(file)
		file.Close()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		if err := processors.NewSaxoGainsProcessor(rates).Process(rows, registry); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
	}

	if registry.Len() == 0 {
		fmt.Fprintln(os.Stderr, "Error: the provided exports contained no trades")
		return subcommands.ExitFailure
	}

	if violations := registry.ValidatePositions(); len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintln(os.Stderr, "Error:", v)
		}
		fmt.Fprintln(os.Stderr, "  This usually indicates an unhandled stock split or corporate action.")
		fmt.Fprintln(os.Stderr, "  Please adjust quantities in your broker export to account for it.")
		return subcommands.ExitFailure
	}

	tp, err := loadTaxpayer(c.taxpayer)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	envelope, err := furs.BuildKDVP(tp, registry)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	out := utils.OutputFilename(c.output, config.Cfg.OutputDir, "gains_furs", !c.noTimestamp)
	if err := furs.WriteFile(out, envelope); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Capital gains tax report saved to:", out)
	return subcommands.ExitSuccess
}
