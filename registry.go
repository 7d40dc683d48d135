package moexdata

import (
	"fmt"
	"sort"
)

// Dataset describes how providers for one category are built: the on-disk
// column layout and the source functions downloading the data. Source
// functions are injected by the application entry point, keeping this
// package free of any knowledge about remote endpoints.
type Dataset struct {
	Category string
	Spec     ColumnSpec
	FetchAll SourceFunc
	Fetch    IncrementalFunc // optional, nil when the source only supports full downloads
}

// Registry owns one provider per dataset key. It is constructed and owned by
// the application entry point and passed by reference to consumers; no
// provider exists as a side effect of importing code.
type Registry struct {
	store     *Store
	tolerance float64
	datasets  map[string]Dataset
	providers map[Key]*Provider
}

// NewRegistry returns an empty registry over the store. A non-positive tol
// selects DefaultTolerance for all providers.
func NewRegistry(store *Store, tol float64) *Registry {
	return &Registry{
		store:     store,
		tolerance: tol,
		datasets:  make(map[string]Dataset),
		providers: make(map[Key]*Provider),
	}
}

// Register adds a dataset kind to the registry.
func (r *Registry) Register(d Dataset) error {
	if d.Category == "" {
		return fmt.Errorf("dataset has no category")
	}
	if d.FetchAll == nil {
		return fmt.Errorf("dataset %q has no full-history source", d.Category)
	}
	if _, ok := r.datasets[d.Category]; ok {
		return fmt.Errorf("dataset %q is already registered", d.Category)
	}
	r.datasets[d.Category] = d
	return nil
}

// Categories returns the registered category names in sorted order.
func (r *Registry) Categories() []string {
	names := make([]string, 0, len(r.datasets))
	for name := range r.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Spec returns the column spec of a registered category.
func (r *Registry) Spec(category string) (ColumnSpec, error) {
	d, ok := r.datasets[category]
	if !ok {
		return ColumnSpec{}, fmt.Errorf("unknown dataset category %q", category)
	}
	return d.Spec, nil
}

// Provider returns the provider for (category, ticker), building it on first
// request. The same provider instance serves all subsequent requests for the
// same key.
func (r *Registry) Provider(category, ticker string) (*Provider, error) {
	d, ok := r.datasets[category]
	if !ok {
		return nil, fmt.Errorf("unknown dataset category %q", category)
	}
	key := NewKey(category, ticker)
	if p, ok := r.providers[key]; ok {
		return p, nil
	}
	p := NewProvider(r.store, key, d.Spec, d.FetchAll, d.Fetch, r.tolerance)
	r.providers[key] = p
	return p, nil
}

// Get returns the stored table for (category, ticker), downloading the full
// history first if the key has no local data yet.
func (r *Registry) Get(category, ticker string) (*Table, error) {
	p, err := r.Provider(category, ticker)
	if err != nil {
		return nil, err
	}
	return p.Read()
}

// Update refreshes (category, ticker) if its local copy is older than
// maxAgeDays, initializing it when absent.
func (r *Registry) Update(category, ticker string, maxAgeDays float64) error {
	p, err := r.Provider(category, ticker)
	if err != nil {
		return err
	}
	return p.Refresh(maxAgeDays)
}
