package source

import (
	"fmt"
	"io"

	"github.com/dgallion1/htmlgeo/internal/htmldoc"
)

// HTMLConverter passes HTML through after a parse round-trip, which both
// validates the markup and normalizes it to the tree the passes will see.
type HTMLConverter struct{}

func (c *HTMLConverter) Convert(r io.Reader, filename string) (string, error) {
	doc, err := htmldoc.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return htmldoc.RenderBody(doc)
}
