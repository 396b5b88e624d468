package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"nriassist/internal/textutil"
)

// Scorer rates how well query matches text. Both inputs are already
// normalized. Implementations return a value in [0,1], 0 being a perfect
// match, and must be deterministic.
type Scorer interface {
	Name() string
	Score(query, text string) float64
}

// ParseScorer resolves a scorer by name. An empty name selects EditScorer.
func ParseScorer(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "edit":
		return EditScorer{}, nil
	case "subsequence", "fuzzy":
		return SubsequenceScorer{}, nil
	case "token", "tokens":
		return TokenScorer{}, nil
	default:
		return nil, fmt.Errorf("search: unknown scorer %q", name)
	}
}

// ScorerNames lists the names ParseScorer accepts canonically.
func ScorerNames() []string {
	return []string{"edit", "subsequence", "token"}
}

// EditScorer finds the best approximate occurrence of the query anywhere in
// the text (Sellers' algorithm) and scores the edit distance relative to the
// query length.
type EditScorer struct{}

func (EditScorer) Name() string { return "edit" }

func (EditScorer) Score(query, text string) float64 {
	q := []rune(query)
	if len(q) == 0 {
		return 1
	}
	col := make([]int, len(q)+1)
	for i := range col {
		col[i] = i
	}
	best := col[len(q)]
	for _, tr := range text {
		diag := col[0]
		for i := 1; i <= len(q); i++ {
			prev := col[i]
			cost := 1
			if q[i-1] == tr {
				cost = 0
			}
			col[i] = min(prev+1, col[i-1]+1, diag+cost)
			diag = prev
		}
		best = min(best, col[len(q)])
		if best == 0 {
			break
		}
	}
	return capScore(float64(best) / float64(len(q)))
}

// SubsequenceScorer matches the query as an in-order subsequence of the text
// using sahilm/fuzzy. Non-matches score 1; matches score by how tightly the
// matched runes cluster, so a contiguous occurrence scores 0.
type SubsequenceScorer struct{}

func (SubsequenceScorer) Name() string { return "subsequence" }

func (SubsequenceScorer) Score(query, text string) float64 {
	if query == "" || text == "" {
		return 1
	}
	matches := fuzzy.Find(query, []string{text})
	if len(matches) == 0 || len(matches[0].MatchedIndexes) == 0 {
		return 1
	}
	idx := matches[0].MatchedIndexes
	first, last := idx[0], idx[len(idx)-1]
	_, size := utf8.DecodeRuneInString(text[last:])
	span := utf8.RuneCountInString(text[first : last+size])
	if span == 0 {
		return 1
	}
	return capScore(1 - float64(utf8.RuneCountInString(query))/float64(span))
}

// TokenScorer compares whole tokens: the share of query tokens present in
// the text, blended with the cosine similarity of the two fingerprints.
type TokenScorer struct{}

func (TokenScorer) Name() string { return "token" }

func (TokenScorer) Score(query, text string) float64 {
	qTokens := textutil.Tokenize(query)
	if len(qTokens) == 0 {
		return 1
	}
	textFP := textutil.NewFingerprint(text)
	if textFP == nil {
		return 1
	}
	present := 0
	for _, token := range qTokens {
		if textFP.Contains(token) {
			present++
		}
	}
	coverage := float64(present) / float64(len(qTokens))
	cosine := textutil.CosineSimilarity(textutil.NewFingerprint(query), textFP)
	return capScore(1 - (0.75*coverage + 0.25*cosine))
}

func capScore(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
