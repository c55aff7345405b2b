// Package search matches free-text queries against vehicles, scores and
// orders the results, and pages them.
package search

import (
	"strings"

	"harshagw/fleetsearch/internal/analysis"
	"harshagw/fleetsearch/internal/index"
	"harshagw/fleetsearch/internal/signal"
	"harshagw/fleetsearch/internal/vehicle"
)

// TextMatcher selects the vehicles whose searchable text matches a query.
type TextMatcher interface {
	Match(vehicles []vehicle.Vehicle, query string) ([]vehicle.Vehicle, error)
}

// IndexMatcher matches through a prebuilt fuzzy index. Results are ordered
// by text score, ties in input order.
type IndexMatcher struct {
	idx *index.Index
}

func NewIndexMatcher(idx *index.Index) *IndexMatcher {
	return &IndexMatcher{idx: idx}
}

// Match maps index hits back onto vehicles. When vehicles holds the indexed
// documents in index order hits map by position, otherwise by ID; vehicles
// missing from the index never match.
func (m *IndexMatcher) Match(vehicles []vehicle.Vehicle, query string) ([]vehicle.Vehicle, error) {
	hits, err := m.idx.Search(query)
	if err != nil {
		return nil, err
	}

	out := make([]vehicle.Vehicle, 0, len(hits))
	if m.indexOrder(vehicles) {
		for _, h := range hits {
			out = append(out, vehicles[h.Doc])
		}
		return out, nil
	}

	byID := make(map[string]int, len(vehicles))
	for i, v := range vehicles {
		if _, ok := byID[v.ID]; !ok {
			byID[v.ID] = i
		}
	}
	for _, h := range hits {
		if i, ok := byID[m.idx.ID(h.Doc)]; ok {
			out = append(out, vehicles[i])
		}
	}
	return out, nil
}

// indexOrder reports whether vehicles[i] is document i for every document.
func (m *IndexMatcher) indexOrder(vehicles []vehicle.Vehicle) bool {
	if len(vehicles) != m.idx.Len() {
		return false
	}
	for i, v := range vehicles {
		if v.ID != m.idx.ID(uint32(i)) {
			return false
		}
	}
	return true
}

// SubstringMatcher keeps the vehicles where every query token occurs inside
// at least one searchable field. Input order is kept.
type SubstringMatcher struct {
	analyzer analysis.Analyzer
}

func NewSubstringMatcher() *SubstringMatcher {
	return &SubstringMatcher{analyzer: analysis.NewFolding()}
}

func (m *SubstringMatcher) Match(vehicles []vehicle.Vehicle, query string) ([]vehicle.Vehicle, error) {
	tokens := m.analyzer.Analyze(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	var out []vehicle.Vehicle
	for _, v := range vehicles {
		fields := index.FieldValues(v)
		for i, f := range fields {
			fields[i] = analysis.Fold(f)
		}
		if containsAll(fields, tokens) {
			out = append(out, v)
		}
	}
	return out, nil
}

func containsAll(fields, tokens []string) bool {
	for _, token := range tokens {
		found := false
		for _, f := range fields {
			if strings.Contains(f, token) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MatcherFor returns the index strategy when an index is available and the
// substring strategy otherwise.
func MatcherFor(idx *index.Index) TextMatcher {
	if idx == nil {
		return NewSubstringMatcher()
	}
	return NewIndexMatcher(idx)
}

// Search returns the vehicles matching the query text and every signal it
// carries. A blank query returns the input unchanged. A query made only of
// signals still needs a text match.
func Search(vehicles []vehicle.Vehicle, query string, idx *index.Index) []vehicle.Vehicle {
	return SearchWith(vehicles, query, MatcherFor(idx))
}

// SearchWith is Search with an explicit strategy. If the strategy fails the
// substring strategy is used instead.
func SearchWith(vehicles []vehicle.Vehicle, query string, m TextMatcher) []vehicle.Vehicle {
	if strings.TrimSpace(query) == "" {
		return vehicles
	}

	matched, err := m.Match(vehicles, query)
	if err != nil {
		matched, _ = NewSubstringMatcher().Match(vehicles, query)
	}

	signals := signal.Parse(query)
	if signals.Empty() {
		return matched
	}

	out := matched[:0:0]
	for _, v := range matched {
		if MatchesSignals(v, signals) {
			out = append(out, v)
		}
	}
	return out
}
