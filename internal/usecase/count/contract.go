package count

import (
	"context"

	"github.com/memovox/memovox/internal/domain/daterange"
	"github.com/memovox/memovox/internal/domain/transcript"
)

// TranscriptReader reads transcript records from the relational store.
// An empty ranges slice means all records.
type TranscriptReader interface {
	QueryByDateRanges(ctx context.Context, ranges []daterange.Range) ([]transcript.Record, error)
}
