package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/jernejstrasner/taxes/src/config"
	"github.com/jernejstrasner/taxes/src/furs"
	"github.com/jernejstrasner/taxes/src/models"
	"github.com/jernejstrasner/taxes/src/parsers/revolut"
	"github.com/jernejstrasner/taxes/src/parsers/saxo"
	"github.com/jernejstrasner/taxes/src/processors"
	"github.com/jernejstrasner/taxes/src/utils"
)

type interestCmd struct {
	saxo        string
	revolut     string
	condensed   bool
	period      int
	output      string
	noTimestamp bool
	taxpayer    string
}

func (*interestCmd) Name() string { return "interest" }
func (*interestCmd) Synopsis() string {
	return "build the Doh_Obr interest report from broker exports"
}
func (*interestCmd) Usage() string {
	return `taxes interest [-saxo <file.xlsx>] [-revolut <file.csv>] [-condensed]

  Reads interest payments from a Saxo Bank Excel export and/or a Revolut tax
  statement CSV, converts them to EUR and writes the Doh_Obr report.
  With -condensed, payments from the same payer merge into one yearly entry.
`
}

func (c *interestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.saxo, "saxo", "", "Path to the Saxo Bank xlsx export.")
	f.StringVar(&c.revolut, "revolut", "", "Path to the Revolut tax statement CSV.")
	f.BoolVar(&c.condensed, "condensed", false, "Condense interest to one entry per payer.")
	f.IntVar(&c.period, "period", 0, "Tax period year (defaults to the previous year).")
	f.StringVar(&c.output, "output", "", "Path of the output XML file.")
	f.BoolVar(&c.noTimestamp, "no-timestamp", false, "Do not add a timestamp to the output filename (overwrites existing files).")
	f.StringVar(&c.taxpayer, "taxpayer", "", "Path to the taxpayer XML file.")
}

func (c *interestCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.saxo == "" && c.revolut == "" {
		fmt.Fprintln(os.Stderr, "Error: no interest to process, provide at least one of -saxo or -revolut")
		return subcommands.ExitUsageError
	}

	rates, err := loadRates()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	processor := processors.NewInterestProcessor(rates)

	var payments []models.Interest

	if c.saxo != "" {
		file, err := os.Open(c.saxo)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		rows, err := saxo.NewParser().ParseInterest(file)
		file.Close()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		processed, err := processor.ProcessSaxo(rows)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		payments = append(payments, processed...)
	}

	if c.revolut != "" {
		file, err := os.Open(c.revolut)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		statement, err := revolut.NewParser().Parse(file)
		file.Close()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		processed, err := processor.ProcessRevolut(statement.Interest)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		payments = append(payments, processed...)
	}

	if c.condensed {
		payments = processors.Condense(payments)
	}

	period := c.period
	if period == 0 {
		period = time.Now().Year() - 1
	}

	tp, err := loadTaxpayer(c.taxpayer)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	envelope := furs.BuildInterest(tp, payments, period)

	out := utils.OutputFilename(c.output, config.Cfg.OutputDir, "interest_furs", !c.noTimestamp)
	if err := furs.WriteFile(out, envelope); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Interest tax report saved to:", out)
	return subcommands.ExitSuccess
}
