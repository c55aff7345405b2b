package index

import (
	"slices"

	"github.com/RoaringBitmap/roaring"
)

// Hit is a matching vehicle and its weighted text score.
type Hit struct {
	Doc   uint32
	Score float64
}

// Search returns the vehicles matching every token of the query, ordered by
// score with ties broken by document number.
func (idx *Index) Search(query string) ([]Hit, error) {
	tokens := uniqueTokens(idx.analyzer.Analyze(query))
	if len(tokens) == 0 {
		return nil, nil
	}

	var matched *roaring.Bitmap
	scores := make(map[uint32]float64)

	for _, token := range tokens {
		docs, tokenScores, err := idx.searchToken(token)
		if err != nil {
			return nil, err
		}
		if matched == nil {
			matched = docs
		} else {
			matched.And(docs)
		}
		if matched.IsEmpty() {
			return nil, nil
		}
		for doc, s := range tokenScores {
			scores[doc] += s
		}
	}

	hits := make([]Hit, 0, matched.GetCardinality())
	it := matched.Iterator()
	for it.HasNext() {
		doc := it.Next()
		hits = append(hits, Hit{Doc: doc, Score: scores[doc]})
	}

	sortHits(hits)
	return hits, nil
}

// searchToken unions the postings of every term the token expands to, over
// all fields. A vehicle scores the field weight times the best match quality
// for each field it matched in.
func (idx *Index) searchToken(token string) (*roaring.Bitmap, map[uint32]float64, error) {
	docs := roaring.New()
	scores := make(map[uint32]float64)
	edits := idx.maxEdits(token)

	for _, f := range Fields {
		fi := idx.fields[f.Name]
		matches, err := fi.expand(token, edits)
		if err != nil {
			return nil, nil, err
		}
		if len(matches) == 0 {
			continue
		}

		best := make(map[uint32]float64)
		for ord, quality := range matches {
			it := fi.postings[ord].Iterator()
			for it.HasNext() {
				doc := it.Next()
				if quality > best[doc] {
					best[doc] = quality
				}
			}
			docs.Or(fi.postings[ord])
		}

		weight := idx.weights[f.Name]
		for doc, quality := range best {
			scores[doc] += weight * quality
		}
	}

	return docs, scores, nil
}

// sortHits orders hits by score descending, then by document number.
func sortHits(hits []Hit) {
	slices.SortFunc(hits, func(a, b Hit) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.Doc < b.Doc {
			return -1
		}
		if a.Doc > b.Doc {
			return 1
		}
		return 0
	})
}

func uniqueTokens(tokens []string) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
