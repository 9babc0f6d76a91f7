package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pulse"
	"github.com/google/subcommands"
)

// fixCmd rewrites the portfolio file with canonical exchange symbols.
type fixCmd struct{}

func (*fixCmd) Name() string     { return "fix" }
func (*fixCmd) Synopsis() string { return "remap portfolio symbols to their canonical exchange codes" }
func (*fixCmd) Usage() string {
	return `pulse fix

  Rewrites every Symbol of the portfolio file in place, mapping mistaken or
  legacy codes to the exchange's canonical form using the symbol table from
  the settings. The previous content is snapshotted to a .bak file first:
  the rewrite is destructive and, if the table changes, not idempotent.
`
}
func (*fixCmd) SetFlags(f *flag.FlagSet) {}

func (c *fixCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// The cleanup needs no secrets; read the settings directly.
	settings, err := pulse.LoadSettings(*settingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	table, err := pulse.LoadSymbolTable(settings.SymbolFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := table.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := table.RewriteCSV(settings.PortfolioFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Portfolio symbols updated in %s (backup in %s.bak)\n",
		settings.PortfolioFile, settings.PortfolioFile)
	return subcommands.ExitSuccess
}
