package moex

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/qg0/moexdata"
	"github.com/qg0/moexdata/date"
)

const dividendsBase = "https://iss.moex.com/iss/securities"

// DividendsColumns is the stored layout of the dividends datasets.
var DividendsColumns = moexdata.ColumnSpec{Index: "DATE", Columns: []string{"DIVIDENDS"}}

// Dividends returns the per-share dividend history of a ticker, one row per
// registry close date. A company may pay twice on the same date; both rows
// are kept.
func Dividends(ticker string) (*moexdata.Table, error) {
	return dividends(cachingClient(), dividendsBase, ticker)
}

func dividends(client *http.Client, base, ticker string) (*moexdata.Table, error) {
	addr := fmt.Sprintf("%s/%s/dividends.json", base, ticker)
	doc, err := getJSON(client, addr)
	if err != nil {
		return nil, err
	}
	p, err := parsePage(doc, "dividends", addr)
	if err != nil {
		return nil, err
	}
	if len(p.rows) == 0 {
		return nil, fmt.Errorf("moex: dividends of %q: %w", ticker, moexdata.ErrEmptySource)
	}

	iDate, err := p.index("registryclosedate")
	if err != nil {
		return nil, &moexdata.SourceFormatError{URL: addr, Err: err}
	}
	iValue, err := p.index("value")
	if err != nil {
		return nil, &moexdata.SourceFormatError{URL: addr, Err: err}
	}

	type payout struct {
		day   date.Date
		value float64
	}
	payouts := make([]payout, 0, len(p.rows))
	for _, row := range p.rows {
		if n := max(iDate, iValue); n >= len(row) {
			return nil, &moexdata.SourceFormatError{URL: addr, Err: fmt.Errorf("dividends row has %d cells, want at least %d", len(row), n+1)}
		}
		s, err := cellString(row[iDate])
		if err != nil {
			return nil, &moexdata.SourceFormatError{URL: addr, Err: err}
		}
		day, err := date.Parse(s)
		if err != nil {
			return nil, &moexdata.SourceFormatError{URL: addr, Err: err}
		}
		value, ok, err := cellFloat(row[iValue])
		if err != nil {
			return nil, &moexdata.SourceFormatError{URL: addr, Err: err}
		}
		if !ok {
			continue
		}
		payouts = append(payouts, payout{day: day, value: value})
	}
	sort.SliceStable(payouts, func(i, j int) bool { return payouts[i].day.Before(payouts[j].day) })

	t := moexdata.NewTable(DividendsColumns.Columns...)
	for _, p := range payouts {
		t.Append(p.day, p.value)
	}
	return t, nil
}
