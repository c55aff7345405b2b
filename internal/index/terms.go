package index

import (
	"bytes"
	"fmt"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/couchbase/vellum"
	"github.com/couchbase/vellum/levenshtein"
)

// Match quality per kind of term match. Fuzzy quality drops per edit.
const (
	exactQuality  = 1.0
	prefixQuality = 0.8
	fuzzyQuality  = 0.7
	fuzzyPenalty  = 0.2
)

var levBuilders [MaxEdits + 1]struct {
	once    sync.Once
	builder *levenshtein.LevenshteinAutomatonBuilder
	err     error
}

// levenshteinBuilder returns the shared automaton builder for a distance.
// Builders are expensive to create and safe to reuse.
func levenshteinBuilder(distance uint8) (*levenshtein.LevenshteinAutomatonBuilder, error) {
	lb := &levBuilders[distance]
	lb.once.Do(func() {
		lb.builder, lb.err = levenshtein.NewLevenshteinAutomatonBuilder(distance, true)
	})
	return lb.builder, lb.err
}

// maxEdits returns the edit budget of a token.
func (idx *Index) maxEdits(token string) uint8 {
	edits := int(math.Floor(idx.threshold * float64(utf8.RuneCountInString(token))))
	if edits > MaxEdits {
		edits = MaxEdits
	}
	if edits < 0 {
		edits = 0
	}
	return uint8(edits)
}

// expand returns the term ordinals a token matches in this field with the
// best quality each was reached with.
func (fi *fieldIndex) expand(token string, maxEdits uint8) (map[uint64]float64, error) {
	if fi.terms == 0 {
		return nil, nil
	}
	matches := make(map[uint64]float64)
	record := func(ord uint64, quality float64) {
		if quality > matches[ord] {
			matches[ord] = quality
		}
	}

	ord, exists, err := fi.fst.Get([]byte(token))
	if err != nil {
		return nil, err
	}
	if exists {
		record(ord, exactQuality)
	}

	if utf8.RuneCountInString(token) >= minPrefix {
		if err := fi.prefixTerms(token, func(ord uint64) { record(ord, prefixQuality) }); err != nil {
			return nil, err
		}
	}

	for d := uint8(1); d <= maxEdits; d++ {
		quality := fuzzyQuality - fuzzyPenalty*float64(d-1)
		if err := fi.fuzzyTerms(token, d, func(ord uint64) { record(ord, quality) }); err != nil {
			return nil, err
		}
	}

	return matches, nil
}

// prefixTerms visits every term that starts with prefix using an FST range
// scan.
func (fi *fieldIndex) prefixTerms(prefix string, visit func(ord uint64)) error {
	start := []byte(prefix)
	end := prefixSuccessor(start)

	iter, err := fi.fst.Iterator(start, end)
	for err == nil {
		_, ord := iter.Current()
		visit(ord)
		err = iter.Next()
	}
	if err != vellum.ErrIteratorDone {
		return fmt.Errorf("failed to scan prefix %q: %w", prefix, err)
	}
	return nil
}

// fuzzyTerms visits every term within distance edits of term.
func (fi *fieldIndex) fuzzyTerms(term string, distance uint8, visit func(ord uint64)) error {
	builder, err := levenshteinBuilder(distance)
	if err != nil {
		return fmt.Errorf("failed to create levenshtein builder: %w", err)
	}

	aut, err := builder.BuildDfa(term, distance)
	if err != nil {
		return fmt.Errorf("failed to build fuzzy automaton: %w", err)
	}

	iter, err := fi.fst.Search(aut, nil, nil)
	for err == nil {
		_, ord := iter.Current()
		visit(ord)
		err = iter.Next()
	}
	if err != vellum.ErrIteratorDone {
		return fmt.Errorf("failed to search FST: %w", err)
	}
	return nil
}

// prefixSuccessor returns the lexicographically next prefix after the given one.
func prefixSuccessor(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}

	succ := bytes.Clone(prefix)

	for i := len(succ) - 1; i >= 0; i-- {
		if succ[i] < 0xff {
			succ[i]++
			return succ[:i+1]
		}
	}

	return nil
}
