package index

import (
	"errors"
	"fmt"

	"github.com/couchbase/vellum"
	"github.com/couchbase/vellum/regexp"
)

// ErrUnknownField is returned for a field that is not indexed.
var ErrUnknownField = errors.New("unknown field")

// TermInfo is one dictionary entry.
type TermInfo struct {
	Term string
	Docs uint64
}

func (idx *Index) field(name string) (*fieldIndex, error) {
	fi, ok := idx.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return fi, nil
}

// Terms lists the terms of a field matching a regular expression, in
// dictionary order. An empty pattern matches every term.
func (idx *Index) Terms(field, pattern string) ([]TermInfo, error) {
	fi, err := idx.field(field)
	if err != nil {
		return nil, err
	}
	if fi.terms == 0 {
		return nil, nil
	}
	if pattern == "" {
		pattern = ".*"
	}

	aut, err := regexp.New(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}

	var terms []TermInfo
	iter, err := fi.fst.Search(aut, nil, nil)
	for err == nil {
		term, ord := iter.Current()
		terms = append(terms, TermInfo{Term: string(term), Docs: fi.postings[ord].GetCardinality()})
		err = iter.Next()
	}
	if err != vellum.ErrIteratorDone {
		return nil, fmt.Errorf("failed to search FST: %w", err)
	}
	return terms, nil
}

// Postings returns the vehicle IDs whose field holds the exact term.
func (idx *Index) Postings(field, term string) ([]string, error) {
	fi, err := idx.field(field)
	if err != nil {
		return nil, err
	}
	if fi.terms == 0 {
		return nil, nil
	}

	ord, exists, err := fi.fst.Get([]byte(term))
	if err != nil || !exists {
		return nil, err
	}

	bm := fi.postings[ord]
	ids := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		ids = append(ids, idx.ids[it.Next()])
	}
	return ids, nil
}
