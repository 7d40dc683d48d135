package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type statusCmd struct{}

func (*statusCmd) Name() string { return "status" }
func (*statusCmd) Synopsis() string {
	return "report the presence and age of every configured dataset"
}
func (*statusCmd) Usage() string              { return "po status\n" }
func (c *statusCmd) SetFlags(f *flag.FlagSet) {}
func (c *statusCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Println("no arguments expected")
		return subcommands.ExitUsageError
	}

	cfg, store, reg, err := openRegistry()
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tTICKER\tROWS\tAGE\tSPAN")
	for _, key := range keys(cfg) {
		if !store.Exists(key) {
			fmt.Fprintf(w, "%s\t%s\tabsent\t\t\n", key.Category, key.Ticker)
			continue
		}
		age, err := store.AgeInDays(key)
		if err != nil {
			fmt.Println(err)
			return subcommands.ExitFailure
		}
		spec, err := reg.Spec(key.Category)
		if err != nil {
			fmt.Println(err)
			return subcommands.ExitFailure
		}
		table, err := store.Load(key, spec)
		if err != nil {
			fmt.Fprintf(w, "%s\t%s\tcorrupt\t%.1fd\t%v\n", key.Category, key.Ticker, age, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1fd\t%s..%s\n",
			key.Category, key.Ticker, table.Len(), age, table.First(), table.Last())
	}
	if err := w.Flush(); err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
