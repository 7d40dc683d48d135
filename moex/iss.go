// Package moex downloads market history from the MOEX ISS service: daily
// quotes and dividends per ticker, and the total return index MCFTRR.
//
// ISS answers are JSON documents with a columns/data pair under a root key,
// paginated in blocks by a start cursor. The functions here assemble the
// blocks into a single moexdata.Table; they are meant to be injected into a
// moexdata.Registry as dataset sources.
package moex

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/qg0/moexdata"
)

// cacheTransport is a disk cache for HTTP responses with daily expiry: the
// cache key includes the current date, so yesterday's entries simply stop
// being found. It keeps repeated update runs within a day off the network.
type cacheTransport struct {
	base http.RoundTripper
}

func (c *cacheTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	day := time.Now().Format("2006-01-02")
	key := fmt.Sprintf("moex-%x", sha1.Sum([]byte(day+" "+req.Method+" "+req.URL.String())))
	file := filepath.Join(os.TempDir(), key)

	if content, err := os.ReadFile(file); err == nil {
		return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return resp, nil
	}
	if err := os.WriteFile(file, content, 0600); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// cachingClient returns an http.Client whose responses expire daily.
func cachingClient() *http.Client {
	return &http.Client{Transport: &cacheTransport{base: http.DefaultTransport}}
}

// getJSON performs an HTTP GET and parses the JSON response body.
func getJSON(client *http.Client, addr string) (any, error) {
	resp, err := client.Get(addr)
	if err != nil {
		return nil, &moexdata.SourceUnavailableError{URL: addr, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &moexdata.SourceUnavailableError{URL: addr, Err: fmt.Errorf("status %s", resp.Status)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &moexdata.SourceUnavailableError{URL: addr, Err: err}
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &moexdata.SourceFormatError{URL: addr, Err: err}
	}
	return doc, nil
}

// page is one block of an ISS columns/data answer.
type page struct {
	columns []string
	rows    [][]any
}

// index returns the position of a column in the page.
func (p page) index(name string) (int, error) {
	for i, c := range p.columns {
		if c == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no column %q in %v", name, p.columns)
}

// parsePage extracts the columns/data pair found under root in an ISS answer.
func parsePage(doc any, root, addr string) (page, error) {
	jcols, err := jsonpath.Get("$."+root+".columns", doc)
	if err != nil {
		return page{}, &moexdata.SourceFormatError{URL: addr, Err: err}
	}
	jrows, err := jsonpath.Get("$."+root+".data", doc)
	if err != nil {
		return page{}, &moexdata.SourceFormatError{URL: addr, Err: err}
	}

	var p page
	cols, ok := jcols.([]any)
	if !ok {
		return page{}, &moexdata.SourceFormatError{URL: addr, Err: fmt.Errorf("%s.columns is not a list", root)}
	}
	for _, c := range cols {
		name, ok := c.(string)
		if !ok {
			return page{}, &moexdata.SourceFormatError{URL: addr, Err: fmt.Errorf("%s.columns holds a non-string", root)}
		}
		p.columns = append(p.columns, name)
	}
	rows, ok := jrows.([]any)
	if !ok {
		return page{}, &moexdata.SourceFormatError{URL: addr, Err: fmt.Errorf("%s.data is not a list", root)}
	}
	for _, r := range rows {
		row, ok := r.([]any)
		if !ok {
			return page{}, &moexdata.SourceFormatError{URL: addr, Err: fmt.Errorf("%s.data holds a non-list row", root)}
		}
		p.rows = append(p.rows, row)
	}
	return p, nil
}

// collectPages folds a finite sequence of blocks produced by fetch into one
// list. The cursor is the running row count, passed explicitly between
// calls. An empty block past the first one means the end of pagination; an
// empty first block means the server has no data at all, which is an error.
func collectPages(fetch func(cursor int) (page, error)) ([]page, error) {
	var pages []page
	cursor := 0
	for {
		p, err := fetch(cursor)
		if err != nil {
			return nil, err
		}
		if len(p.rows) == 0 {
			if cursor == 0 {
				return nil, fmt.Errorf("moex: %w", moexdata.ErrEmptySource)
			}
			return pages, nil
		}
		pages = append(pages, p)
		cursor += len(p.rows)
	}
}

// cellFloat converts one data cell to a float64. ISS emits numbers, but the
// occasional numeric string sneaks in; those are parsed exactly first.
// A nil cell (no trades that day) reports ok=false.
func cellFloat(v any) (f float64, ok bool, err error) {
	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return x, true, nil
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return 0, false, fmt.Errorf("invalid numeric cell %q: %w", x, err)
		}
		return d.InexactFloat64(), true, nil
	default:
		return 0, false, fmt.Errorf("numeric cell holds %T", v)
	}
}

// cellString converts one data cell to a string.
func cellString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("string cell holds %T", v)
	}
	return s, nil
}
