package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type updateCmd struct {
	maxAge float64
}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "refresh every configured dataset from its remote source"
}
func (*updateCmd) Usage() string { return "po update\n" }
func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.maxAge, "max-age", -1, "refresh datasets older than this many days (default from the configuration)")
}
func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Println("no arguments expected")
		return subcommands.ExitUsageError
	}

	cfg, _, reg, err := openRegistry()
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}

	var errs error
	for _, key := range keys(cfg) {
		maxAge := c.maxAge
		if maxAge < 0 {
			maxAge = cfg.Update.MaxAgeDays
			if key.Category == CategoryMacro {
				// CPI is published monthly, daily refreshes would be noise.
				maxAge = macroMaxAgeDays
			}
		}
		if err := reg.Update(key.Category, key.Ticker, maxAge); err != nil {
			errs = errors.Join(errs, fmt.Errorf("updating %s: %w", key, err))
			continue
		}
		fmt.Println("updated", key)
	}
	if errs != nil {
		fmt.Println("failed to update datasets:", errs)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
