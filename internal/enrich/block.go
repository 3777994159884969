package enrich

import (
	"golang.org/x/net/html"

	"github.com/dgallion1/htmlgeo/internal/htmldoc"
)

// blockTags is the allow-list of tags treated as chunkable blocks.
var blockTags = map[string]bool{
	"p":          true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"h5":         true,
	"h6":         true,
	"li":         true,
	"blockquote": true,
}

// Block is a block-level node together with its rendered markup,
// collapsed text, and estimated token cost. Derived per call, never cached.
type Block struct {
	Node   *html.Node
	HTML   string
	Text   string
	Tokens int
}

// SegmentBlocks extracts the ordered block sequence from a tree.
// Blocks whose collapsed text is empty are dropped.
func SegmentBlocks(root *html.Node) ([]Block, error) {
	nodes := htmldoc.FindAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && blockTags[n.Data]
	})

	blocks := make([]Block, 0, len(nodes))
	for _, n := range nodes {
		text := htmldoc.Text(n)
		if text == "" {
			continue
		}
		markup, err := htmldoc.Render(n)
		if err != nil {
			return nil, &InvalidContentError{Reason: err.Error()}
		}
		blocks = append(blocks, Block{
			Node:   n,
			HTML:   markup,
			Text:   text,
			Tokens: EstimateTokens(text),
		})
	}
	return blocks, nil
}
