// Package retrieve implements hybrid retrieval: relational date filtering
// intersected with semantic similarity search.
package retrieve

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/memovox/memovox/internal/domain/daterange"
	"github.com/memovox/memovox/internal/domain/query"
	"github.com/memovox/memovox/internal/domain/result"
	"github.com/memovox/memovox/internal/domain/transcript"
	"github.com/memovox/memovox/internal/logger"
)

// fallbackSearchText keeps the vector search executable when the query
// carries no keywords.
const fallbackSearchText = "memory"

// Service executes hybrid retrieval over the relational and vector stores.
type Service struct {
	transcripts TranscriptReader
	vectors     VectorSearcher
	embed       Embedder
}

// New creates a retrieval service.
func New(transcripts TranscriptReader, vectors VectorSearcher, embed Embedder) *Service {
	return &Service{transcripts: transcripts, vectors: vectors, embed: embed}
}

// Search resolves date filters, narrows candidates in the relational
// store, and runs identity-constrained semantic search. Store failures
// degrade to an empty result list; they never propagate.
func (s *Service) Search(ctx context.Context, params query.Parameters, maxResults int) []result.Result {
	log := logger.FromContext(ctx)

	ranges := resolveFilters(params.DateFilters())
	dateFiltered := len(ranges) > 0

	var (
		idFilter []string
		byID     map[string]transcript.Record
	)
	if dateFiltered {
		records, err := s.transcripts.QueryByDateRanges(ctx, ranges)
		if err != nil {
			log.Error("relational date filter failed", zap.Error(err))
			return nil
		}
		// A date filter that matches nothing short-circuits: the user asked
		// about a specific window, unconstrained matches would be wrong.
		if len(records) == 0 {
			return nil
		}

		idFilter = make([]string, 0, len(records))
		byID = make(map[string]transcript.Record, len(records))
		for _, rec := range records {
			id := strconv.FormatInt(rec.ID, 10)
			idFilter = append(idFilter, id)
			byID[id] = rec
		}
	}

	searchText := strings.Join(params.Keywords(), " ")
	if searchText == "" {
		searchText = fallbackSearchText
	}

	emb, err := s.embed.Embed(ctx, searchText)
	if err != nil {
		log.Error("embed search text failed", zap.Error(err))
		return nil
	}

	hits, err := s.vectors.SearchKNN(ctx, emb.Embedding, maxResults, idFilter)
	if err != nil {
		log.Error("vector search failed", zap.Error(err))
		return nil
	}

	if dateFiltered {
		for i := range hits {
			enrich(&hits[i], byID)
		}
	}

	return hits
}

// enrich copies every non-identity relational record field into the
// hit's metadata. Relational values win on collision, except the
// identity key.
func enrich(hit *result.Result, byID map[string]transcript.Record) {
	id, ok := hit.Metadata()[transcript.IdentityKey].(string)
	if !ok {
		return
	}
	rec, ok := byID[id]
	if !ok {
		return
	}

	hit.SetMetadata("filename", rec.Filename)
	hit.SetMetadata("recording_date", rec.RecordingDate.Format("2006-01-02"))
	hit.SetMetadata("transcript_date", rec.TranscriptDate.Format(time.RFC3339))
	hit.SetMetadata("duration_seconds", rec.DurationSeconds)
	hit.SetMetadata("file_path", rec.FilePath)
	hit.SetMetadata("transcript_text", rec.Text)
	hit.SetMetadata("word_count", rec.WordCount)
}

// resolveFilters resolves each date phrase, dropping unresolvable ones.
func resolveFilters(phrases []string) []daterange.Range {
	var ranges []daterange.Range
	for _, p := range phrases {
		if r := daterange.Resolve(p); r.Resolved() {
			ranges = append(ranges, r)
		}
	}
	return ranges
}
