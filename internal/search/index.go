package search

import (
	"sort"
	"strings"

	"nriassist/internal/textutil"
)

// DefaultThreshold is the highest score a result may have unless overridden.
const DefaultThreshold = 0.3

// Result is one ranked match.
type Result struct {
	Document Document
	Score    float64
	// Index is the document's insertion position.
	Index int
}

// Option configures an Index.
type Option func(*Index)

// WithThreshold sets the maximum accepted score, clamped to [0,1].
func WithThreshold(t float64) Option {
	return func(idx *Index) {
		idx.threshold = capScore(t)
	}
}

// WithScorer replaces the default EditScorer. A nil scorer is ignored.
func WithScorer(s Scorer) Option {
	return func(idx *Index) {
		if s != nil {
			idx.scorer = s
		}
	}
}

type entry struct {
	doc    Document
	fields []string
}

// Index is an immutable fuzzy index. It is safe for concurrent use.
type Index struct {
	entries   []entry
	threshold float64
	scorer    Scorer
}

// NewIndex builds an index over copies of docs.
func NewIndex(docs []Document, opts ...Option) *Index {
	idx := &Index{
		threshold: DefaultThreshold,
		scorer:    EditScorer{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(idx)
		}
	}
	idx.entries = make([]entry, 0, len(docs))
	for _, doc := range docs {
		fields := make([]string, 0, 1+len(doc.Options))
		if text := textutil.Normalize(doc.Text); text != "" {
			fields = append(fields, text)
		}
		for _, opt := range doc.Options {
			if norm := textutil.Normalize(opt); norm != "" {
				fields = append(fields, norm)
			}
		}
		idx.entries = append(idx.entries, entry{doc: doc.clone(), fields: fields})
	}
	return idx
}

// Len reports the number of indexed documents.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Threshold returns the configured threshold.
func (idx *Index) Threshold() float64 {
	return idx.threshold
}

// Scorer returns the configured scorer.
func (idx *Index) Scorer() Scorer {
	return idx.scorer
}

// Search returns the documents scoring at or below the threshold, best first.
// Blank queries return nothing.
func (idx *Index) Search(query string) []Result {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	q := textutil.Normalize(query)
	if q == "" {
		return nil
	}
	var results []Result
	for i, e := range idx.entries {
		score, ok := idx.score(q, e.fields)
		if !ok || score > idx.threshold {
			continue
		}
		results = append(results, Result{Document: e.doc.clone(), Score: score, Index: i})
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score < results[b].Score
	})
	return results
}

func (idx *Index) score(query string, fields []string) (float64, bool) {
	if len(fields) == 0 {
		return 0, false
	}
	best := 1.0
	for _, field := range fields {
		if s := idx.scorer.Score(query, field); s < best {
			best = s
		}
		if best == 0 {
			break
		}
	}
	return best, true
}
