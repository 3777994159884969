package enrich

import "fmt"

// ChunkConfig controls chunk assembly.
type ChunkConfig struct {
	MaxTokens int // Token budget per chunk.
	Overlap   int // Trailing elements carried into the next chunk.
}

// DefaultChunkConfig returns the stock limits.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxTokens: 500,
		Overlap:   50,
	}
}

// Validate rejects configurations that would produce degenerate output.
func (c ChunkConfig) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens must be positive, got %d", ErrInvalidConfig, c.MaxTokens)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must be non-negative, got %d", ErrInvalidConfig, c.Overlap)
	}
	return nil
}

// Chunk is one token-bounded group of block fragments.
type Chunk struct {
	Index     int      `json:"index"`     // Zero-based sequence number.
	Fragments []string `json:"fragments"` // Block markup, in document order.
	Tokens    int      `json:"tokens"`    // Estimated cost including carried overlap.
}

// ChunkResult carries the assembled chunks plus any configuration warnings
// observed while packing.
type ChunkResult struct {
	Chunks   []Chunk
	Warnings []string
}

// AssembleChunks packs blocks into token-bounded chunks with element-count
// overlap between consecutive chunks.
//
// The packer is a greedy forward pass: blocks accumulate until adding the
// next one would exceed MaxTokens, the chunk is closed, and the last
// Overlap elements are carried into the next chunk before the new block is
// appended. A block is never dropped and a chunk is never empty; a single
// block costing more than MaxTokens still gets (or starts) a chunk of its
// own. Overlap at or above the closed chunk's length duplicates the whole
// chunk forward — accepted, but reported as a warning.
func AssembleChunks(blocks []Block, cfg ChunkConfig) (ChunkResult, error) {
	if err := cfg.Validate(); err != nil {
		return ChunkResult{}, err
	}

	var res ChunkResult
	var cur []Block
	tokens := 0

	flush := func() {
		fragments := make([]string, len(cur))
		total := 0
		for i, b := range cur {
			fragments[i] = b.HTML
			total += b.Tokens
		}
		res.Chunks = append(res.Chunks, Chunk{
			Index:     len(res.Chunks),
			Fragments: fragments,
			Tokens:    total,
		})
	}

	for _, b := range blocks {
		if tokens+b.Tokens > cfg.MaxTokens && len(cur) > 0 {
			flush()

			// Seed the next chunk with the trailing overlap elements.
			carry := cfg.Overlap
			if carry > len(cur) {
				carry = len(cur)
			}
			if cfg.Overlap > 0 && carry == len(cur) {
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"overlap %d covers the entire %d-element chunk %d; content will be duplicated across chunks",
					cfg.Overlap, len(cur), len(res.Chunks)-1))
			}
			cur = append([]Block(nil), cur[len(cur)-carry:]...)
			tokens = 0
			for _, o := range cur {
				tokens += o.Tokens
			}
		}
		cur = append(cur, b)
		tokens += b.Tokens
	}

	if len(cur) > 0 {
		flush()
	}
	return res, nil
}
