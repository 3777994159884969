package enrich

import (
	"math"
	"strings"
)

// InformationDensity returns the Shannon entropy (bits per token) of the
// whitespace-token distribution of text. Higher values mean less repetition.
// Returns 0 for empty text.
func InformationDensity(text string) float64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0
	}
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	total := float64(len(tokens))
	var entropy float64
	for _, c := range counts {
		p := float64(c) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}
