package facet

import (
	"encoding/json"
	"sync"

	"github.com/cespare/xxhash/v2"

	"harshagw/fleetsearch/internal/filter"
	"harshagw/fleetsearch/internal/search"
	"harshagw/fleetsearch/internal/vehicle"
)

// Exclusion names the filter dimensions a facet ignores when computing its
// own counts, so selecting a value never hides its siblings.
type Exclusion struct {
	Name       string
	Dimensions []filter.Dimension
}

var (
	ExcludeCategory = Exclusion{"category", []filter.Dimension{filter.DimCategory, filter.DimSubcategory}}
	ExcludeChassis  = Exclusion{"chassis", []filter.Dimension{filter.DimChassisManufacturer, filter.DimChassisModel}}
	ExcludeBody     = Exclusion{"body", []filter.Dimension{filter.DimBodyManufacturer, filter.DimBodyModel}}
)

// ExcludeField excludes a single flat dimension.
func ExcludeField(dim filter.Dimension) Exclusion {
	return Exclusion{Name: string(dim), Dimensions: []filter.Dimension{dim}}
}

// Reduce returns f without the excluded dimensions.
func (e Exclusion) Reduce(f filter.Filters) filter.Filters {
	return filter.Clear(f, e.Dimensions...)
}

// Context returns the vehicles matching the query and every filter except
// the excluded ones. A nil matcher uses substring matching.
func Context(vehicles []vehicle.Vehicle, query string, f filter.Filters, ex Exclusion, m search.TextMatcher) []vehicle.Vehicle {
	if m == nil {
		m = search.NewSubstringMatcher()
	}
	return filter.Apply(search.SearchWith(vehicles, query, m), ex.Reduce(f))
}

// Fingerprint hashes a query and a filter state.
func Fingerprint(query string, f filter.Filters) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(query)
	_, _ = d.Write([]byte{0})
	data, err := json.Marshal(f)
	if err != nil {
		// Filters always marshal; fall back to the query alone.
		return d.Sum64()
	}
	_, _ = d.Write(data)
	return d.Sum64()
}

type memo struct {
	key    uint64
	result []vehicle.Vehicle
}

// Contexts computes facet contexts over one vehicle list and remembers the
// last result of every exclusion, keyed by the fingerprint of the query and
// the reduced filters. Changing a dimension an exclusion ignores therefore
// reuses its context. The text match of the last query is cached as well.
//
// A Contexts is bound to the vehicle list and matcher it was created with
// and is safe for concurrent use.
type Contexts struct {
	vehicles []vehicle.Vehicle
	matcher  search.TextMatcher

	mu      sync.Mutex
	query   string
	matched []vehicle.Vehicle
	hasText bool
	entries map[string]memo

	hits   int
	misses int
}

func NewContexts(vehicles []vehicle.Vehicle, m search.TextMatcher) *Contexts {
	if m == nil {
		m = search.NewSubstringMatcher()
	}
	return &Contexts{
		vehicles: vehicles,
		matcher:  m,
		entries:  make(map[string]memo),
	}
}

// Get returns the context of an exclusion.
func (c *Contexts) Get(query string, f filter.Filters, ex Exclusion) []vehicle.Vehicle {
	reduced := ex.Reduce(f)
	key := Fingerprint(query, reduced)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[ex.Name]; ok && e.key == key {
		c.hits++
		return e.result
	}
	c.misses++

	result := filter.Apply(c.match(query), reduced)
	c.entries[ex.Name] = memo{key: key, result: result}
	return result
}

// Matched returns the text and signal matches of a query, cached for the
// most recent query.
func (c *Contexts) Matched(query string) []vehicle.Vehicle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.match(query)
}

func (c *Contexts) match(query string) []vehicle.Vehicle {
	if !c.hasText || c.query != query {
		c.matched = search.SearchWith(c.vehicles, query, c.matcher)
		c.query = query
		c.hasText = true
	}
	return c.matched
}

// Stats returns memo hits and misses.
func (c *Contexts) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
