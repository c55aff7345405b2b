// Package index builds an in-memory weighted fuzzy text index over a
// vehicle catalog.
//
// Each indexed field keeps a vellum FST term dictionary whose values are
// term ordinals, and one roaring bitmap of vehicle positions per term. A
// query token matches a term exactly, by prefix, or within an edit distance
// derived from the similarity threshold.
package index

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring"
	"github.com/couchbase/vellum"

	"harshagw/fleetsearch/internal/analysis"
	"harshagw/fleetsearch/internal/vehicle"
)

type Config struct {
	// Threshold scales the edit budget of a token: maxEdits is
	// floor(Threshold * len(token)), capped at MaxEdits.
	Threshold float64
	// Weights overrides DefaultWeights per field.
	Weights  map[string]float64
	Analyzer analysis.Analyzer
}

// MaxEdits is the largest edit distance a fuzzy token may use.
const MaxEdits = 2

// minPrefix is the shortest token that is expanded by prefix.
const minPrefix = 2

func DefaultConfig() Config {
	return Config{
		Threshold: 0.3,
		Analyzer:  analysis.NewFolding(),
	}
}

// Index is immutable once built and safe for concurrent readers.
type Index struct {
	analyzer  analysis.Analyzer
	threshold float64
	weights   map[string]float64
	fields    map[string]*fieldIndex
	ids       []string
}

// fieldIndex is the term dictionary and postings of one field.
type fieldIndex struct {
	fst      *vellum.FST
	postings []*roaring.Bitmap
	terms    int
}

// Build indexes the vehicles. A vehicle's document number is its position
// in the slice.
func Build(vehicles []vehicle.Vehicle, config Config) (*Index, error) {
	if config.Analyzer == nil {
		config.Analyzer = analysis.NewFolding()
	}

	weights := make(map[string]float64, len(Fields))
	for _, f := range Fields {
		weights[f.Name] = f.Weight
		if w, ok := config.Weights[f.Name]; ok {
			weights[f.Name] = w
		}
	}

	idx := &Index{
		analyzer:  config.Analyzer,
		threshold: config.Threshold,
		weights:   weights,
		fields:    make(map[string]*fieldIndex, len(Fields)),
		ids:       make([]string, len(vehicles)),
	}

	terms := make(map[string]map[string]*roaring.Bitmap, len(Fields))
	for _, f := range Fields {
		terms[f.Name] = make(map[string]*roaring.Bitmap)
	}

	for docNum, v := range vehicles {
		idx.ids[docNum] = v.ID
		for _, f := range Fields {
			for _, token := range idx.analyzer.Analyze(f.Value(v)) {
				bm, ok := terms[f.Name][token]
				if !ok {
					bm = roaring.New()
					terms[f.Name][token] = bm
				}
				bm.Add(uint32(docNum))
			}
		}
	}

	for name, fieldTerms := range terms {
		fi, err := buildField(fieldTerms)
		if err != nil {
			return nil, fmt.Errorf("failed to build dictionary for field %s: %w", name, err)
		}
		idx.fields[name] = fi
	}

	return idx, nil
}

// buildField writes the sorted terms into an FST mapping term -> ordinal.
func buildField(terms map[string]*roaring.Bitmap) (*fieldIndex, error) {
	termList := make([]string, 0, len(terms))
	for term := range terms {
		termList = append(termList, term)
	}
	sort.Strings(termList)

	var fstBuf bytes.Buffer
	fstBuilder, err := vellum.New(&fstBuf, nil)
	if err != nil {
		return nil, err
	}

	postings := make([]*roaring.Bitmap, len(termList))
	for ord, term := range termList {
		bm := terms[term]
		bm.RunOptimize()
		postings[ord] = bm
		if err := fstBuilder.Insert([]byte(term), uint64(ord)); err != nil {
			return nil, err
		}
	}
	if err := fstBuilder.Close(); err != nil {
		return nil, err
	}

	fst, err := vellum.Load(fstBuf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to load FST: %w", err)
	}

	return &fieldIndex{fst: fst, postings: postings, terms: len(termList)}, nil
}

// Len returns the number of indexed vehicles.
func (idx *Index) Len() int { return len(idx.ids) }

// ID returns the vehicle ID of a document number.
func (idx *Index) ID(docNum uint32) string { return idx.ids[docNum] }

// Weight returns the weight of a field.
func (idx *Index) Weight(field string) float64 { return idx.weights[field] }

// Analyzer returns the analyzer queries are tokenized with.
func (idx *Index) Analyzer() analysis.Analyzer { return idx.analyzer }

// FieldStats describes one field dictionary.
type FieldStats struct {
	Name   string
	Weight float64
	Terms  int
}

// Stats returns per-field dictionary sizes in field order.
func (idx *Index) Stats() []FieldStats {
	stats := make([]FieldStats, 0, len(Fields))
	for _, f := range Fields {
		fi := idx.fields[f.Name]
		stats = append(stats, FieldStats{Name: f.Name, Weight: idx.weights[f.Name], Terms: fi.terms})
	}
	return stats
}
