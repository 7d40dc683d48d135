package moex

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/qg0/moexdata"
	"github.com/qg0/moexdata/date"
)

func dividendsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDividends(t *testing.T) {
	// Out of order, with two payouts sharing a registry close date.
	srv := dividendsServer(t, `{"dividends": {"columns": ["secid", "registryclosedate", "value"], "data": [
		["GAZP", "2023-07-20", 25.5],
		["GAZP", "2022-10-11", 51.03],
		["GAZP", "2023-07-20", 1.2]
	]}}`)

	table, err := dividends(srv.Client(), srv.URL, "GAZP")
	if err != nil {
		t.Fatalf("dividends: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("got %d rows, want 3 with the duplicate date kept", table.Len())
	}
	if table.First() != date.New(2022, 10, 11) {
		t.Errorf("first day = %s, want rows sorted by date", table.First())
	}
	if v := table.Row(1)[0]; v != 25.5 {
		t.Errorf("same-date payouts reordered: got %v, want 25.5 first", v)
	}
}

func TestDividendsEmpty(t *testing.T) {
	srv := dividendsServer(t, `{"dividends": {"columns": ["secid", "registryclosedate", "value"], "data": []}}`)

	_, err := dividends(srv.Client(), srv.URL, "NEWCO")
	if !errors.Is(err, moexdata.ErrEmptySource) {
		t.Fatalf("got %v, want ErrEmptySource", err)
	}
}

func TestDividendsBadPayload(t *testing.T) {
	srv := dividendsServer(t, `{"dividends": {"columns": ["secid", "value"], "data": [["GAZP", 25.5]]}}`)

	_, err := dividends(srv.Client(), srv.URL, "GAZP")
	var ferr *moexdata.SourceFormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("got %v, want SourceFormatError", err)
	}
}
