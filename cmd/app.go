// Package cmd implements the CLI application to manage the local market
// data cache.
package cmd

import (
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/qg0/moexdata"
	"github.com/qg0/moexdata/gks"
	"github.com/qg0/moexdata/moex"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&updateCmd{}, "data")
	c.Register(&showCmd{}, "data")
	c.Register(&statusCmd{}, "data")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "moexdata.toml", "Path to the configuration file")
var dataPath = flag.String("data-path", "", "Override the data directory from the configuration")

// Dataset categories, also the subfolder names under the data directory.
const (
	CategoryQuotes    = "quotes"
	CategoryIndex     = "index"
	CategoryDividends = "dividends"
	CategoryMacro     = "macro"
)

// CPITicker names the single series of the macro category.
const CPITicker = "CPI"

// macroMaxAgeDays is the default freshness window of the monthly series.
const macroMaxAgeDays = 30

// openRegistry loads the configuration and builds the registry with every
// known dataset registered.
func openRegistry() (*moexdata.Config, *moexdata.Store, *moexdata.Registry, error) {
	cfg, err := moexdata.LoadConfig(*configFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if *dataPath != "" {
		cfg.Data.Path = *dataPath
	}

	store := moexdata.NewStore(cfg.Data.Path)
	reg := moexdata.NewRegistry(store, cfg.Update.Tolerance)

	datasets := []moexdata.Dataset{
		{Category: CategoryQuotes, Spec: moex.QuotesColumns, FetchAll: moex.AllQuotes, Fetch: moex.Quotes},
		{Category: CategoryIndex, Spec: moex.IndexColumns, FetchAll: moex.AllIndex, Fetch: moex.Index},
		{Category: CategoryDividends, Spec: moex.DividendsColumns, FetchAll: moex.Dividends},
		{Category: CategoryMacro, Spec: gks.Columns, FetchAll: gks.CPI},
	}
	for _, d := range datasets {
		if err := reg.Register(d); err != nil {
			return nil, nil, nil, fmt.Errorf("registering %q: %w", d.Category, err)
		}
	}
	return cfg, store, reg, nil
}

// keys lists every dataset key the configuration asks to maintain: the CPI
// series, the benchmark index, and quotes plus dividends for each
// configured ticker.
func keys(cfg *moexdata.Config) []moexdata.Key {
	list := []moexdata.Key{
		moexdata.NewKey(CategoryMacro, CPITicker),
		moexdata.NewKey(CategoryIndex, moex.IndexTicker),
	}
	for _, ticker := range moexdata.NormalizeTickers(cfg.Portfolio.Tickers) {
		list = append(list,
			moexdata.NewKey(CategoryQuotes, ticker),
			moexdata.NewKey(CategoryDividends, ticker),
		)
	}
	return list
}
