// Package gks downloads the russian consumer price index published by the
// federal state statistics service (gks.ru).
//
// The published table is transposed relative to a time series: one column
// per year starting at 1991, one row per month starting at January, cells
// holding month over month inflation in percent with a comma decimal mark.
// Reading it column by column yields the chronological series.
package gks

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/qg0/moexdata"
	"github.com/qg0/moexdata/date"
	"github.com/shopspring/decimal"
)

const cpiURL = "https://www.gks.ru/free_doc/new_site/prices/potr/I_ipc.csv"

const firstYear = 1991

// Columns is the stored layout of the macro dataset.
var Columns = moexdata.ColumnSpec{Index: "DATE", Columns: []string{"CPI"}}

// CPI downloads the full monthly CPI series. There is a single national
// series, so the ticker is ignored; it exists to satisfy the source
// signature shared by all dataset downloaders.
func CPI(ticker string) (*moexdata.Table, error) {
	log.Println("Downloading CPI from gks:", cpiURL)

	resp, err := http.Get(cpiURL)
	if err != nil {
		return nil, &moexdata.SourceUnavailableError{URL: cpiURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &moexdata.SourceUnavailableError{URL: cpiURL, Err: fmt.Errorf("status %s", resp.Status)}
	}

	t, err := parseCPI(resp.Body)
	if err != nil {
		return nil, &moexdata.SourceFormatError{URL: cpiURL, Err: err}
	}
	return t, nil
}

// parseCPI reads the transposed gks table and flattens it into a monthly
// series of inflation factors (106,2% becomes 1.062). Cells for months not
// yet published are empty and are skipped.
func parseCPI(r io.Reader) (*moexdata.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) != 13 {
		return nil, fmt.Errorf("got %d rows, want a header and 12 months", len(records))
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("header %v holds no year columns", header)
	}
	years := make([]int, 0, len(header)-1)
	for _, cell := range header[1:] {
		year, err := strconv.Atoi(strings.TrimSpace(cell))
		if err != nil {
			return nil, fmt.Errorf("invalid year column %q: %w", cell, err)
		}
		years = append(years, year)
	}
	if years[0] != firstYear {
		return nil, fmt.Errorf("first year is %d, want %d", years[0], firstYear)
	}
	if first := strings.ToLower(strings.TrimSpace(records[1][0])); first != "январь" {
		return nil, fmt.Errorf("first month is %q, want январь", records[1][0])
	}

	t := moexdata.NewTable(Columns.Columns...)
	for col, year := range years {
		for month := 1; month <= 12; month++ {
			row := records[month]
			if col+1 >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col+1])
			if cell == "" {
				continue
			}
			d, err := decimal.NewFromString(strings.ReplaceAll(cell, ",", "."))
			if err != nil {
				return nil, fmt.Errorf("invalid CPI cell %q for %d-%02d: %w", cell, year, month, err)
			}
			t.Append(date.EndOfMonth(year, time.Month(month)), d.Div(decimal.NewFromInt(100)).InexactFloat64())
		}
	}
	return t, nil
}
