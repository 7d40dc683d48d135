// Package moexdata maintains a local cache of market time series downloaded
// from remote sources: daily quotes and dividends per ticker, the MOEX total
// return index, and monthly CPI.
//
// Every dataset is addressed by a Key (category, ticker) and stored as a
// single CSV file under <root>/<category>/<TICKER>.csv. A Provider lazily
// creates the local copy on first use, serves reads from disk, and refreshes
// it when the file grows older than a caller-chosen limit. Before overwriting
// the local copy, freshly downloaded data is checked against the stored one
// over their overlapping dates: if history changed upstream the refresh is
// aborted and the local file is left untouched.
//
// The Registry owns one provider per dataset and is the entry point for
// surrounding code; source functions (package moex, package gks) are injected
// into it by the application, never constructed as an import side effect.
package moexdata
