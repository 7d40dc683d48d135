package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/qg0/moexdata"
)

type showCmd struct {
	tail int
}

func (*showCmd) Name() string { return "show" }
func (*showCmd) Synopsis() string {
	return "print a locally cached dataset as CSV"
}
func (*showCmd) Usage() string { return "po show <category> <ticker>\n" }
func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.tail, "tail", 0, "print only the last N rows")
}
func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Println("expected a category and a ticker")
		return subcommands.ExitUsageError
	}

	_, _, reg, err := openRegistry()
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}

	table, err := reg.Get(f.Arg(0), f.Arg(1))
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	if c.tail > 0 {
		table = table.Tail(c.tail)
	}
	if err := moexdata.EncodeTable(os.Stdout, table); err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
