// Package engine ties normalization, the text index, filters, facets and
// sorting together over one immutable catalog snapshot.
package engine

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"harshagw/fleetsearch/internal/config"
	"harshagw/fleetsearch/internal/facet"
	"harshagw/fleetsearch/internal/filter"
	"harshagw/fleetsearch/internal/index"
	"harshagw/fleetsearch/internal/search"
	"harshagw/fleetsearch/internal/signal"
	"harshagw/fleetsearch/internal/vehicle"
)

// Request describes one search. A zero Page means the first page and a zero
// Size the configured page size; an empty Sort the configured default.
// Filters must start from filter.Default, as NewRequest does.
type Request struct {
	Query   string          `json:"query"`
	Filters filter.Filters  `json:"filters"`
	Sort    search.SortMode `json:"sort"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
}

// NewRequest returns an unfiltered request for query.
func NewRequest(query string) Request {
	return Request{Query: query, Filters: filter.Default()}
}

// UnmarshalJSON decodes onto NewRequest, so a document without filters is
// unfiltered.
func (r *Request) UnmarshalJSON(data []byte) error {
	type plain Request
	decoded := plain(NewRequest(""))
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*r = Request(decoded)
	return nil
}

// Response is one page of results with the facet panel computed for the
// same query and filters.
type Response struct {
	Items   []vehicle.Vehicle `json:"items"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
	Pages   int               `json:"pages"`
	Sort    search.SortMode   `json:"sort"`
	Filters filter.Filters    `json:"filters"`
	Panel   facet.Panel       `json:"panel"`
}

// snapshot is the state of one load cycle. It is never modified after Load
// publishes it.
type snapshot struct {
	epoch    uint64
	vehicles []vehicle.Vehicle
	byID     map[string]int
	idx      *index.Index
	matcher  search.TextMatcher
	contexts *facet.Contexts
	loadedAt time.Time
}

type Engine struct {
	mu      sync.RWMutex
	current *snapshot

	cfg    *config.Config
	logger zerolog.Logger
}

// New creates an engine with an empty catalog.
func New(cfg *config.Config, logger zerolog.Logger) *Engine {
	e := &Engine{cfg: cfg, logger: logger}
	e.current = e.newSnapshot(0, nil, nil)
	return e
}

// Load replaces the catalog with the normalized form of raws and rebuilds
// the text index. Readers holding the previous snapshot keep using it.
func (e *Engine) Load(raws []vehicle.RawVehicle) {
	start := time.Now()
	vehicles := vehicle.NormalizeAll(raws)

	var idx *index.Index
	if e.cfg.Index.Enabled {
		ic := index.DefaultConfig()
		ic.Threshold = e.cfg.Index.Threshold
		ic.Weights = e.cfg.Index.Weights

		var err error
		idx, err = index.Build(vehicles, ic)
		if err != nil {
			// Substring matching still serves the catalog.
			e.logger.Warn().Err(err).Msg("Failed to build text index, using substring matching")
			idx = nil
		}
	}

	e.mu.Lock()
	snap := e.newSnapshot(e.current.epoch+1, vehicles, idx)
	e.current = snap
	e.mu.Unlock()

	e.logger.Info().
		Uint64("epoch", snap.epoch).
		Int("vehicles", len(vehicles)).
		Bool("indexed", idx != nil).
		Dur("duration", time.Since(start)).
		Msg("Catalog loaded")
}

func (e *Engine) newSnapshot(epoch uint64, vehicles []vehicle.Vehicle, idx *index.Index) *snapshot {
	byID := make(map[string]int, len(vehicles))
	for i, v := range vehicles {
		if _, dup := byID[v.ID]; !dup {
			byID[v.ID] = i
		}
	}
	matcher := search.MatcherFor(idx)
	return &snapshot{
		epoch:    epoch,
		vehicles: vehicles,
		byID:     byID,
		idx:      idx,
		matcher:  matcher,
		contexts: facet.NewContexts(vehicles, matcher),
		loadedAt: time.Now(),
	}
}

func (e *Engine) snapshot() *snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Search runs the query and filters, then sorts and paginates the result.
// Selected child values that no longer fit the selected parents are dropped
// first; the response carries the filters actually applied.
func (e *Engine) Search(req Request) Response {
	start := time.Now()
	snap := e.snapshot()

	f := facet.Reconcile(snap.vehicles, req.Filters)
	mode := e.sortMode(req.Sort)
	size := req.Size
	if size <= 0 {
		size = e.cfg.Search.PageSize
	}

	results := e.results(snap, req.Query, f, mode)
	page := search.Paginate(results, req.Page, size)
	panel := facet.BuildPanel(snap.contexts, req.Query, f)

	e.logger.Debug().
		Str("query", req.Query).
		Str("sort", string(mode)).
		Int("total", page.Total).
		Dur("duration", time.Since(start)).
		Msg("Search")

	return Response{
		Items:   page.Items,
		Total:   page.Total,
		Page:    page.Page,
		Size:    page.Size,
		Pages:   page.Pages,
		Sort:    mode,
		Filters: f,
		Panel:   panel,
	}
}

// Facets computes the facet panel of a query and filter state.
func (e *Engine) Facets(query string, f filter.Filters) facet.Panel {
	start := time.Now()
	snap := e.snapshot()
	panel := facet.BuildPanel(snap.contexts, query, facet.Reconcile(snap.vehicles, f))

	hits, misses := snap.contexts.Stats()
	e.logger.Debug().
		Str("query", query).
		Int("memo_hits", hits).
		Int("memo_misses", misses).
		Dur("duration", time.Since(start)).
		Msg("Facets")
	return panel
}

// Export returns the full ordered result of req without pagination. With
// ids, only those vehicles are kept, still in result order.
func (e *Engine) Export(req Request, ids ...string) []vehicle.Vehicle {
	snap := e.snapshot()
	f := facet.Reconcile(snap.vehicles, req.Filters)
	results := e.results(snap, req.Query, f, e.sortMode(req.Sort))
	if len(ids) == 0 {
		return results
	}

	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[strings.TrimSpace(id)] = true
	}
	out := make([]vehicle.Vehicle, 0, len(ids))
	for _, v := range results {
		if keep[v.ID] {
			out = append(out, v)
		}
	}
	return out
}

// Get returns the vehicle with the given ID.
func (e *Engine) Get(id string) (vehicle.Vehicle, bool) {
	snap := e.snapshot()
	i, ok := snap.byID[id]
	if !ok {
		return vehicle.Vehicle{}, false
	}
	return snap.vehicles[i], true
}

// Explain returns the relevance contributions of one vehicle for a query.
func (e *Engine) Explain(id, query string) ([]search.Contribution, bool) {
	v, ok := e.Get(id)
	if !ok {
		return nil, false
	}
	return search.Explain(v, query, signal.Parse(query)), true
}

func (e *Engine) results(snap *snapshot, query string, f filter.Filters, mode search.SortMode) []vehicle.Vehicle {
	matched := snap.contexts.Matched(query)
	return search.Sort(filter.Apply(matched, f), mode, query)
}

func (e *Engine) sortMode(mode search.SortMode) search.SortMode {
	if mode == "" {
		mode = search.SortMode(e.cfg.Search.DefaultSort)
	}
	parsed, err := search.ParseSortMode(string(mode))
	if err != nil {
		return search.SortRelevance
	}
	return parsed
}

// Stats describes the current snapshot.
type Stats struct {
	Epoch    uint64             `json:"epoch"`
	Vehicles int                `json:"vehicles"`
	Indexed  bool               `json:"indexed"`
	Fields   []index.FieldStats `json:"fields,omitempty"`
	LoadedAt time.Time          `json:"loadedAt"`
}

func (e *Engine) Stats() Stats {
	snap := e.snapshot()
	s := Stats{
		Epoch:    snap.epoch,
		Vehicles: len(snap.vehicles),
		Indexed:  snap.idx != nil,
		LoadedAt: snap.loadedAt,
	}
	if snap.idx != nil {
		s.Fields = snap.idx.Stats()
	}
	return s
}

// Vehicles returns the current catalog in load order.
func (e *Engine) Vehicles() []vehicle.Vehicle {
	return e.snapshot().vehicles
}

// Index returns the text index of the current snapshot, nil when indexing
// is disabled or failed.
func (e *Engine) Index() *index.Index {
	return e.snapshot().idx
}
