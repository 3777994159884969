package enrich

import "strings"

// EstimateTokens approximates token cost as the whitespace-separated token
// count, minimum 1 for non-empty text. This is intentionally simple — exact
// tokenizer alignment is not required for chunking — but it is the single
// policy used by every component that costs text, so estimates stay
// comparable across passes.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	n := len(strings.Fields(text))
	if n < 1 {
		n = 1
	}
	return n
}
