package moex

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/qg0/moexdata"
	"github.com/qg0/moexdata/date"
)

const (
	quotesBase = "https://iss.moex.com/iss/history/engines/stock/markets/shares/securities"
	indexBase  = "https://iss.moex.com/iss/history/engines/stock/markets/index/boards/RTSI/securities"
)

// IndexTicker is the MOEX Russia Net Total Return (Resident) index.
const IndexTicker = "MCFTRR"

// QuotesColumns is the stored layout of the quotes datasets.
var QuotesColumns = moexdata.ColumnSpec{Index: "DATE", Columns: []string{"CLOSE_PRICE", "VOLUME"}}

// IndexColumns is the stored layout of the index dataset.
var IndexColumns = moexdata.ColumnSpec{Index: "DATE", Columns: []string{"CLOSE_PRICE"}}

// historyURL builds one block request. The cursor is the position of the
// first row to return; a zero since requests history from the very start.
func historyURL(base, ticker string, since date.Date, cursor int) string {
	url := fmt.Sprintf("%s/%s.json?start=%d", base, ticker, cursor)
	if !since.IsZero() {
		url += "&from=" + since.String()
	}
	return url
}

// fetchHistory downloads and assembles all blocks of one history request.
func fetchHistory(client *http.Client, base, ticker string, since date.Date) ([]page, error) {
	return collectPages(func(cursor int) (page, error) {
		addr := historyURL(base, ticker, since, cursor)
		doc, err := getJSON(client, addr)
		if err != nil {
			return page{}, err
		}
		return parsePage(doc, "history", addr)
	})
}

// observation is one trading day of one board before deduplication.
type observation struct {
	day    date.Date
	close  float64
	volume float64
}

// Quotes returns the daily close price and volume for a ticker from since
// (inclusive) onward. A ticker trades on several boards; for every date the
// board with the maximal volume wins.
func Quotes(ticker string, since date.Date) (*moexdata.Table, error) {
	return quotes(cachingClient(), quotesBase, ticker, since)
}

// AllQuotes returns the full quotes history for a ticker.
func AllQuotes(ticker string) (*moexdata.Table, error) {
	return Quotes(ticker, date.Date{})
}

func quotes(client *http.Client, base, ticker string, since date.Date) (*moexdata.Table, error) {
	pages, err := fetchHistory(client, base, ticker, since)
	if err != nil {
		return nil, err
	}

	best := make(map[date.Date]observation)
	for _, p := range pages {
		iDate, err := p.index("TRADEDATE")
		if err != nil {
			return nil, &moexdata.SourceFormatError{URL: base, Err: err}
		}
		iClose, err := p.index("CLOSE")
		if err != nil {
			return nil, &moexdata.SourceFormatError{URL: base, Err: err}
		}
		iVolume, err := p.index("VOLUME")
		if err != nil {
			return nil, &moexdata.SourceFormatError{URL: base, Err: err}
		}
		for _, row := range p.rows {
			obs, ok, err := parseObservation(row, iDate, iClose, iVolume)
			if err != nil {
				return nil, &moexdata.SourceFormatError{URL: base, Err: err}
			}
			if !ok {
				continue // no trades on that board that day
			}
			if prev, seen := best[obs.day]; !seen || obs.volume > prev.volume {
				best[obs.day] = obs
			}
		}
	}

	days := make([]date.Date, 0, len(best))
	for day := range best {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	t := moexdata.NewTable(QuotesColumns.Columns...)
	for _, day := range days {
		obs := best[day]
		t.Append(day, obs.close, obs.volume)
	}
	return t, nil
}

func parseObservation(row []any, iDate, iClose, iVolume int) (observation, bool, error) {
	if n := max(iDate, iClose, iVolume); n >= len(row) {
		return observation{}, false, fmt.Errorf("history row has %d cells, want at least %d", len(row), n+1)
	}
	s, err := cellString(row[iDate])
	if err != nil {
		return observation{}, false, err
	}
	day, err := date.Parse(s)
	if err != nil {
		return observation{}, false, err
	}
	close, ok, err := cellFloat(row[iClose])
	if err != nil {
		return observation{}, false, err
	}
	if !ok {
		return observation{}, false, nil
	}
	volume, ok, err := cellFloat(row[iVolume])
	if err != nil {
		return observation{}, false, err
	}
	if !ok {
		return observation{}, false, nil
	}
	return observation{day: day, close: close, volume: volume}, true, nil
}

// Index returns the daily close of a MOEX index (normally IndexTicker) from
// since (inclusive) onward. The index trades on a single board, so there is
// nothing to deduplicate.
func Index(ticker string, since date.Date) (*moexdata.Table, error) {
	return index(cachingClient(), indexBase, ticker, since)
}

// AllIndex returns the full history of a MOEX index.
func AllIndex(ticker string) (*moexdata.Table, error) {
	return Index(ticker, date.Date{})
}

func index(client *http.Client, base, ticker string, since date.Date) (*moexdata.Table, error) {
	pages, err := fetchHistory(client, base, ticker, since)
	if err != nil {
		return nil, err
	}

	t := moexdata.NewTable(IndexColumns.Columns...)
	for _, p := range pages {
		iDate, err := p.index("TRADEDATE")
		if err != nil {
			return nil, &moexdata.SourceFormatError{URL: base, Err: err}
		}
		iClose, err := p.index("CLOSE")
		if err != nil {
			return nil, &moexdata.SourceFormatError{URL: base, Err: err}
		}
		for _, row := range p.rows {
			if n := max(iDate, iClose); n >= len(row) {
				return nil, &moexdata.SourceFormatError{URL: base, Err: fmt.Errorf("history row has %d cells, want at least %d", len(row), n+1)}
			}
			s, err := cellString(row[iDate])
			if err != nil {
				return nil, &moexdata.SourceFormatError{URL: base, Err: err}
			}
			day, err := date.Parse(s)
			if err != nil {
				return nil, &moexdata.SourceFormatError{URL: base, Err: err}
			}
			close, ok, err := cellFloat(row[iClose])
			if err != nil {
				return nil, &moexdata.SourceFormatError{URL: base, Err: err}
			}
			if !ok {
				continue
			}
			t.Append(day, close)
		}
	}
	return t, nil
}
