package source

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"strings"
)

// CSVConverter handles CSV files. The header row becomes a heading and each
// data row a list item, so rows segment as individual blocks.
type CSVConverter struct{}

func (c *CSVConverter) Convert(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	headers := records[0]

	var out strings.Builder
	out.WriteString("<h2>")
	out.WriteString(html.EscapeString(strings.Join(headers, ", ")))
	out.WriteString("</h2>\n<ul>\n")

	for _, row := range records[1:] {
		var cells []string
		for j, cell := range row {
			if j < len(headers) {
				cells = append(cells, headers[j]+": "+cell)
			} else {
				cells = append(cells, cell)
			}
		}
		out.WriteString("<li>")
		out.WriteString(html.EscapeString(strings.Join(cells, ", ")))
		out.WriteString("</li>\n")
	}
	out.WriteString("</ul>\n")

	return out.String(), nil
}
