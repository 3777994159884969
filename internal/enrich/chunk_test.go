package enrich

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// wordsBlock builds a block whose estimated cost is exactly n tokens.
func wordsBlock(id, n int) Block {
	text := strings.TrimSpace(strings.Repeat(fmt.Sprintf("w%d ", id), n))
	return Block{
		HTML:   fmt.Sprintf("<p>%s</p>", text),
		Text:   text,
		Tokens: EstimateTokens(text),
	}
}

func blockSeq(costs ...int) []Block {
	blocks := make([]Block, len(costs))
	for i, c := range costs {
		blocks[i] = wordsBlock(i, c)
	}
	return blocks
}

// carried returns how many fragments at the head of chunk i were carried
// over from the previous chunk.
func carried(chunks []Chunk, i, overlap int) int {
	if i == 0 {
		return 0
	}
	n := overlap
	if n > len(chunks[i-1].Fragments) {
		n = len(chunks[i-1].Fragments)
	}
	return n
}

// reconstruct concatenates each chunk's first-appearing fragments.
func reconstruct(chunks []Chunk, overlap int) []string {
	var out []string
	for i, c := range chunks {
		out = append(out, c.Fragments[carried(chunks, i, overlap):]...)
	}
	return out
}

func TestAssembleChunks_SingleChunkWhenUnderBudget(t *testing.T) {
	blocks := blockSeq(10, 20, 30)
	res, err := AssembleChunks(blocks, ChunkConfig{MaxTokens: 100, Overlap: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(res.Chunks))
	}
	if len(res.Chunks[0].Fragments) != 3 {
		t.Errorf("expected 3 fragments, got %d", len(res.Chunks[0].Fragments))
	}
	if res.Chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", res.Chunks[0].Index)
	}
}

func TestAssembleChunks_CoverageAndBound(t *testing.T) {
	costs := []int{50, 40, 60, 30, 55, 45, 35, 50}
	blocks := blockSeq(costs...)
	cfg := ChunkConfig{MaxTokens: 100, Overlap: 1}

	res, err := AssembleChunks(blocks, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Chunks) < 2 {
		t.Fatalf("expected multiple chunks for 365 tokens at budget 100, got %d", len(res.Chunks))
	}

	// Coverage: first-appearing fragments reconstruct the input in order.
	got := reconstruct(res.Chunks, cfg.Overlap)
	if len(got) != len(blocks) {
		t.Fatalf("reconstruction has %d fragments, want %d", len(got), len(blocks))
	}
	for i, b := range blocks {
		if got[i] != b.HTML {
			t.Errorf("fragment %d: got %q, want %q", i, got[i], b.HTML)
		}
	}

	// Bound: non-overlap token sums never exceed the budget (no block here
	// exceeds it alone).
	for i, c := range res.Chunks {
		skip := carried(res.Chunks, i, cfg.Overlap)
		sum := 0
		for _, frag := range c.Fragments[skip:] {
			sum += EstimateTokens(frag)
		}
		if sum > cfg.MaxTokens {
			t.Errorf("chunk %d: non-overlap tokens %d exceed budget %d", i, sum, cfg.MaxTokens)
		}
	}

	// Sequential indexing.
	for i, c := range res.Chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
	}
}

func TestAssembleChunks_OverlapRepeatsTrailingBlocks(t *testing.T) {
	blocks := blockSeq(60, 60, 60, 60)
	cfg := ChunkConfig{MaxTokens: 100, Overlap: 1}

	res, err := AssembleChunks(blocks, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(res.Chunks))
	}

	for i := 1; i < len(res.Chunks); i++ {
		prev := res.Chunks[i-1].Fragments
		cur := res.Chunks[i].Fragments
		n := carried(res.Chunks, i, cfg.Overlap)
		for j := 0; j < n; j++ {
			want := prev[len(prev)-n+j]
			if cur[j] != want {
				t.Errorf("chunk %d head[%d]: got %q, want tail of chunk %d %q", i, j, cur[j], i-1, want)
			}
		}
	}
}

func TestAssembleChunks_ZeroOverlapDisablesCarry(t *testing.T) {
	blocks := blockSeq(60, 60, 60)
	res, err := AssembleChunks(blocks, ChunkConfig{MaxTokens: 100, Overlap: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := 0
	for _, c := range res.Chunks {
		total += len(c.Fragments)
	}
	if total != len(blocks) {
		t.Errorf("expected %d total fragments with no overlap, got %d", len(blocks), total)
	}
}

func TestAssembleChunks_OversizedBlockGetsOwnChunk(t *testing.T) {
	blocks := blockSeq(30, 250, 30)
	res, err := AssembleChunks(blocks, ChunkConfig{MaxTokens: 100, Overlap: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The oversized block must appear exactly once, never dropped.
	found := 0
	for _, c := range res.Chunks {
		for _, frag := range c.Fragments {
			if frag == blocks[1].HTML {
				found++
			}
		}
	}
	if found != 1 {
		t.Errorf("oversized block appeared %d times, want 1", found)
	}
}

func TestAssembleChunks_DegenerateOverlapWarns(t *testing.T) {
	blocks := blockSeq(80, 80, 80)
	res, err := AssembleChunks(blocks, ChunkConfig{MaxTokens: 100, Overlap: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(res.Chunks))
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning when overlap covers entire chunks")
	}

	// Content is duplicated but still never dropped.
	got := reconstruct(res.Chunks, 5)
	if len(got) != len(blocks) {
		t.Errorf("reconstruction has %d fragments, want %d", len(got), len(blocks))
	}
}

func TestAssembleChunks_EmptyInput(t *testing.T) {
	res, err := AssembleChunks(nil, ChunkConfig{MaxTokens: 100, Overlap: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Chunks) != 0 {
		t.Errorf("expected 0 chunks for empty input, got %d", len(res.Chunks))
	}
}

func TestAssembleChunks_InvalidConfig(t *testing.T) {
	blocks := blockSeq(10)

	if _, err := AssembleChunks(blocks, ChunkConfig{MaxTokens: 0, Overlap: 1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("max_tokens=0: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := AssembleChunks(blocks, ChunkConfig{MaxTokens: 100, Overlap: -1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("overlap=-1: expected ErrInvalidConfig, got %v", err)
	}
}

func TestEstimateTokens(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"two words", 2},
		{"  padded   out  ", 2},
		{"a\nb\tc", 3},
	}
	for _, tc := range cases {
		if got := EstimateTokens(tc.in); got != tc.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
