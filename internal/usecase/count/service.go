// Package count aggregates keyword occurrence counts over date-filtered
// transcripts for how-many queries.
package count

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/memovox/memovox/internal/domain"
	"github.com/memovox/memovox/internal/domain/count"
	"github.com/memovox/memovox/internal/domain/daterange"
	"github.com/memovox/memovox/internal/domain/query"
	"github.com/memovox/memovox/internal/domain/transcript"
	"github.com/memovox/memovox/internal/logger"
)

// Service counts literal keyword occurrences in transcript text.
type Service struct {
	transcripts TranscriptReader
}

// New creates a count service.
func New(transcripts TranscriptReader) *Service {
	return &Service{transcripts: transcripts}
}

// Count tallies lower-cased substring occurrences of each keyword over
// the records matching the resolved date-filter union (all records when
// no filter resolves). Unreadable transcript files are skipped with a
// warning; a query without keywords is a typed error.
func (s *Service) Count(ctx context.Context, params query.Parameters) (count.Result, error) {
	log := logger.FromContext(ctx)

	keywords := params.Keywords()
	if len(keywords) == 0 {
		return count.Result{}, domain.ErrNoKeywords
	}

	var ranges []daterange.Range
	for _, phrase := range params.DateFilters() {
		if r := daterange.Resolve(phrase); r.Resolved() {
			ranges = append(ranges, r)
		}
	}

	records, err := s.transcripts.QueryByDateRanges(ctx, ranges)
	if err != nil {
		return count.Result{}, fmt.Errorf("query transcripts: %w", err)
	}

	counts := make(map[string]int, len(keywords))
	for _, kw := range keywords {
		counts[kw] = 0
	}

	dateSet := make(map[string]struct{})
	total := 0

	for i := range records {
		text, ok := s.recordText(ctx, &records[i])
		if !ok {
			continue
		}
		lower := strings.ToLower(text)

		matched := false
		for _, kw := range keywords {
			n := strings.Count(lower, strings.ToLower(kw))
			if n > 0 {
				counts[kw] += n
				total += n
				matched = true
			}
		}
		if matched {
			dateSet[records[i].RecordingDay()] = struct{}{}
		}
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	dateRange := params.TimeRange()
	if dateRange == "" {
		dateRange = "all time"
	}

	log.Debug("keyword count complete",
		zap.Int("records", len(records)),
		zap.Int("total_mentions", total),
	)

	return count.Result{
		Counts:        counts,
		TotalMentions: total,
		MatchingDates: dates,
		DateRange:     dateRange,
	}, nil
}

// recordText returns the transcript text, preferring the stored column and
// falling back to the transcript file on disk. A missing file skips the
// record, it does not abort the aggregation.
func (s *Service) recordText(ctx context.Context, rec *transcript.Record) (string, bool) {
	if rec.Text != "" {
		return rec.Text, true
	}
	if rec.FilePath == "" {
		return "", false
	}
	data, err := os.ReadFile(rec.FilePath)
	if err != nil {
		logger.FromContext(ctx).Warn("skipping unreadable transcript file",
			zap.String("path", rec.FilePath),
			zap.Error(err),
		)
		return "", false
	}
	return string(data), true
}
