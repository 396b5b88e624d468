package textutil

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Tokens shorter than this ("to", "an") carry no meaning in guide text.
const minTokenLength = 3

// Tokenize returns the normalized words of text, dropping short ones.
func Tokenize(text string) []string {
	words := strings.Fields(Normalize(text))
	kept := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) >= minTokenLength {
			kept = append(kept, w)
		}
	}
	return kept
}

// Fingerprint is a bag-of-words vector over the tokens of a text.
type Fingerprint struct {
	weights map[string]float64
	norm    float64
}

// NewFingerprint builds the vector for text, or nil when text has no tokens.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	fp := &Fingerprint{weights: make(map[string]float64, len(tokens))}
	for _, tok := range tokens {
		fp.weights[tok]++
	}
	var sum float64
	for _, w := range fp.weights {
		sum += w * w
	}
	fp.norm = math.Sqrt(sum)
	return fp
}

// TokenCount is the number of distinct tokens.
func (f *Fingerprint) TokenCount() int {
	if f == nil {
		return 0
	}
	return len(f.weights)
}

func (f *Fingerprint) Contains(token string) bool {
	if f == nil {
		return false
	}
	_, ok := f.weights[token]
	return ok
}

// CosineSimilarity returns the cosine of the angle between a and b, in
// [0, 1]. Empty or nil vectors score 0.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	small, large := a, b
	if len(small.weights) > len(large.weights) {
		small, large = large, small
	}
	var dot float64
	for tok, w := range small.weights {
		dot += w * large.weights[tok]
	}
	return dot / (a.norm * b.norm)
}
