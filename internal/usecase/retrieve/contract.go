package retrieve

import (
	"context"

	"github.com/memovox/memovox/internal/domain"
	"github.com/memovox/memovox/internal/domain/daterange"
	"github.com/memovox/memovox/internal/domain/result"
	"github.com/memovox/memovox/internal/domain/transcript"
)

// TranscriptReader reads transcript records from the relational store.
type TranscriptReader interface {
	QueryByDateRanges(ctx context.Context, ranges []daterange.Range) ([]transcript.Record, error)
}

// VectorSearcher runs semantic similarity search, optionally constrained
// to an identity set.
type VectorSearcher interface {
	SearchKNN(ctx context.Context, vector []float32, k int, idFilter []string) ([]result.Result, error)
}

// Embedder vectorizes the search text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
