package moexdata

import (
	"fmt"
	"log"

	"github.com/qg0/moexdata/date"
)

// SourceFunc downloads the full available history for a ticker.
// Implementations live outside this package (package moex, package gks) and
// may internally paginate; the provider only sees the assembled table or an
// error.
type SourceFunc func(ticker string) (*Table, error)

// IncrementalFunc downloads history starting at since (inclusive).
// Sources that only support full re-download simply do not provide one.
type IncrementalFunc func(ticker string, since date.Date) (*Table, error)

// Provider is the per-key façade over the local store and a remote source.
//
// A key is in one of three states: absent (no backing file), present and
// fresh (file newer than the refresh limit), or present and stale. The
// provider materializes absent keys on first use, serves reads from disk
// without touching the network, and refreshes stale keys only after the
// downloaded data passed the consistency check against the stored one.
//
// Providers for the same key are independent objects with no shared in-memory
// state; each call does its own file I/O. Concurrent refreshes of the same
// key are not coordinated — the data folder is assumed to have a single
// owning process.
type Provider struct {
	key       Key
	spec      ColumnSpec
	store     *Store
	fetchAll  SourceFunc
	fetch     IncrementalFunc // nil when the source has no bounded download
	tolerance float64
}

// NewProvider returns a provider for the key. fetchAll is required; fetch is
// optional and enables incremental refreshes. A non-positive tol selects
// DefaultTolerance. Construction is cheap and performs no I/O: the first
// download happens on first use.
func NewProvider(store *Store, key Key, spec ColumnSpec, fetchAll SourceFunc, fetch IncrementalFunc, tol float64) *Provider {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	return &Provider{key: key, spec: spec, store: store, fetchAll: fetchAll, fetch: fetch, tolerance: tol}
}

// Key returns the key this provider serves.
func (p *Provider) Key() Key { return p.key }

// Spec returns the column spec of the dataset.
func (p *Provider) Spec() ColumnSpec { return p.spec }

// Exists reports whether the key has local data.
func (p *Provider) Exists() bool { return p.store.Exists(p.key) }

// EnsureInitialized downloads the full history and persists it if the key has
// no local data yet. It is idempotent: when local data is already present it
// is a no-op and the source is not contacted.
//
// The first download is persisted without a consistency check — there is
// nothing to validate against. An empty download is a source failure
// (ErrEmptySource), not a valid empty dataset.
func (p *Provider) EnsureInitialized() error {
	if p.store.Exists(p.key) {
		return nil
	}
	log.Printf("creating local data for %s", p.key)
	t, err := p.fetchAll(p.key.Ticker)
	if err != nil {
		return err
	}
	if t.Len() == 0 {
		return fmt.Errorf("creating %s: %w", p.key, ErrEmptySource)
	}
	return p.store.Save(p.key, t)
}

// Read returns the stored table. This is the cheap, frequent-path operation:
// it never contacts the source unless the key is absent, in which case it
// initializes the local data first.
func (p *Provider) Read() (*Table, error) {
	if !p.store.Exists(p.key) {
		if err := p.EnsureInitialized(); err != nil {
			return nil, err
		}
	}
	return p.store.Load(p.key, p.spec)
}

// Refresh re-downloads the dataset if the local copy is older than maxAgeDays.
//
// A fresh copy makes it a no-op with zero network calls. Otherwise the new
// data is validated against the stored table over their shared dates before
// the file is overwritten; on ShapeMismatchError or DataDriftError the
// refresh is abandoned and the stored file is left exactly as it was. An
// absent key is initialized instead.
func (p *Provider) Refresh(maxAgeDays float64) error {
	if !p.store.Exists(p.key) {
		return p.EnsureInitialized()
	}
	age, err := p.store.AgeInDays(p.key)
	if err != nil {
		return err
	}
	if age <= maxAgeDays {
		return nil
	}

	existing, err := p.store.Load(p.key, p.spec)
	if err != nil {
		return err
	}
	if p.fetch == nil {
		return p.refreshFull(existing)
	}
	return p.refreshIncremental(existing)
}

// refreshFull re-downloads the whole history and replaces the stored table
// with it. The download must cover every stored date.
func (p *Provider) refreshFull(existing *Table) error {
	candidate, err := p.fetchAll(p.key.Ticker)
	if err != nil {
		return err
	}
	if candidate.Len() == 0 {
		return fmt.Errorf("refreshing %s: %w", p.key, ErrEmptySource)
	}
	if err := Consistent(existing, candidate, p.tolerance); err != nil {
		return fmt.Errorf("refusing to refresh %s: %w", p.key, err)
	}
	return p.store.Save(p.key, candidate)
}

// refreshIncremental downloads history from the last stored date onward and
// replaces the stored table with the stored rows strictly before that date
// followed by the download. The boundary row overlaps both tables, which is
// what the consistency check compares.
func (p *Provider) refreshIncremental(existing *Table) error {
	since := existing.Last()
	candidate, err := p.fetch(p.key.Ticker, since)
	if err != nil {
		return err
	}
	if candidate.Len() == 0 {
		return fmt.Errorf("refreshing %s since %s: %w", p.key, since, ErrEmptySource)
	}
	if err := Consistent(existing.Since(since), candidate, p.tolerance); err != nil {
		return fmt.Errorf("refusing to refresh %s: %w", p.key, err)
	}

	merged := NewTable(existing.Columns()...)
	for day, row := range existing.Values() {
		if !day.Before(since) {
			break
		}
		merged.Append(day, row...)
	}
	for day, row := range candidate.Values() {
		merged.Append(day, row...)
	}
	return p.store.Save(p.key, merged)
}
