package search

import (
	"context"
)

// Result is a single hit returned by a provider. Link doubles as the
// dedup key downstream, so providers must not emit empty links.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
	Source  string `json:"-"` // provider name for observability
}

// Provider is a minimal interface for search providers. A call returns at
// most limit results; provider failures are returned as-is so the caller
// decides whether the request can continue.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}
