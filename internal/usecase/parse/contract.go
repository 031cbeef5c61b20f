package parse

import (
	"context"

	"github.com/memovox/memovox/internal/domain/query"
	"github.com/memovox/memovox/internal/nlp"
)

// Generative is the external language-model parsing capability. It may
// fail for any reason; the service falls back to rule-based extraction.
type Generative interface {
	ParseQuery(ctx context.Context, text string) (query.Parameters, error)
}

// Tagger provides entity and part-of-speech extraction.
type Tagger interface {
	Entities(text string) ([]nlp.Entity, error)
}
