// Package parse turns a raw query string into structured query parameters.
package parse

import (
	"context"
	"regexp"

	"go.uber.org/zap"

	"github.com/memovox/memovox/internal/domain/query"
	"github.com/memovox/memovox/internal/logger"
	"github.com/memovox/memovox/internal/metrics"
	"github.com/memovox/memovox/internal/nlp"
)

// Intent trigger patterns. Count takes priority over insight; applied as
// deterministic overrides because generative intent classification is
// unreliable while these triggers are not.
var (
	countTrigger   = regexp.MustCompile(`(?i)\b(how many|how often|count|frequency|times|instances|occurrences)\b`)
	insightTrigger = regexp.MustCompile(`(?i)\b(pattern|trend|insight|analysis|analyze|summarize|understand|discover|key points)\b`)
	recallTrigger  = regexp.MustCompile(`(?i)\bwhat\b.*\b(happen(ed)?|do|did|occurred|said|talked)\b`)
)

// Service extracts structured parameters from query text: generative
// parse first, deterministic rule-based extraction whenever that fails.
type Service struct {
	generative Generative
	tagger     Tagger
}

// New creates a parse service. generative may be nil to run rule-based only.
func New(generative Generative, tagger Tagger) *Service {
	return &Service{generative: generative, tagger: tagger}
}

// Parse produces structured query parameters. Any failure of the
// generative path falls through to the fallback parser unconditionally.
func (s *Service) Parse(ctx context.Context, text string) query.Parameters {
	log := logger.FromContext(ctx)

	if s.generative == nil {
		return s.fallbackParse(ctx, text)
	}

	params, err := s.generative.ParseQuery(ctx, text)
	if err != nil {
		log.Warn("generative parse failed, using rule-based fallback", zap.Error(err))
		metrics.ParserFallbacksTotal.Inc()
		return s.fallbackParse(ctx, text)
	}

	params = s.mergeEntityDates(ctx, text, params)
	return applyOverrides(text, params)
}

// mergeEntityDates appends locally detected DATE spans the generative
// result missed, original capitalization preserved.
func (s *Service) mergeEntityDates(ctx context.Context, text string, params query.Parameters) query.Parameters {
	entities, err := s.tagger.Entities(text)
	if err != nil {
		logger.FromContext(ctx).Warn("entity extraction failed", zap.Error(err))
		return params
	}

	dates := params.DateFilters()
	for _, ent := range entities {
		if ent.Label != nlp.LabelDate {
			continue
		}
		if !params.ContainsDateFilter(ent.Text) {
			dates = append(dates, ent.Text)
		}
	}

	return query.New(dates, params.Keywords(), params.TimeRange(), params.CountRequest(), params.Type())
}

// applyOverrides forces intent from trigger patterns in the raw text.
func applyOverrides(text string, params query.Parameters) query.Parameters {
	switch {
	case countTrigger.MatchString(text):
		return query.New(params.DateFilters(), params.Keywords(), params.TimeRange(), true, query.TypeCount)
	case insightTrigger.MatchString(text):
		return query.New(params.DateFilters(), params.Keywords(), params.TimeRange(), false, query.TypeInsight)
	default:
		return params
	}
}
