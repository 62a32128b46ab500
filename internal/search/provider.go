package search

import (
	"context"

	"github.com/ppiankov/slant/internal/model"
)

// MaxResults caps the evidence each provider returns
const MaxResults = 3

// Provider is one source-search strategy in the fallback chain
type Provider interface {
	// Name returns the provider identifier used in logs and metrics
	Name() string

	// Enabled reports whether the provider has the credentials it needs
	Enabled() bool

	// Search returns evidence in provider relevance order. An empty list
	// with a nil error means the provider found nothing.
	Search(ctx context.Context, query string) ([]model.Evidence, error)
}
