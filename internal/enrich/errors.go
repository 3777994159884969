package enrich

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig wraps chunking configuration errors so callers can
// distinguish them from content errors.
var ErrInvalidConfig = errors.New("invalid enrichment config")

// NotFoundError reports a citation id that has no matching record.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("citation id %q not found in records", e.ID)
}

// InvalidContentError reports content that does not match the expected
// tree shape. No partial enrichment is returned alongside it.
type InvalidContentError struct {
	Reason string
}

func (e *InvalidContentError) Error() string {
	return "invalid content: " + e.Reason
}
