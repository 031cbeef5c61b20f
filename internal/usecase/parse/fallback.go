package parse

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/memovox/memovox/internal/domain/query"
	"github.com/memovox/memovox/internal/logger"
	"github.com/memovox/memovox/internal/nlp"
)

var (
	monthDateRe = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)(\s+\d{1,2})?(,?\s+\d{4})?\b`)
	yearRe      = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// timeRangePatterns in priority order: first match wins.
var timeRangePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(last|past|previous|this|next)\s+\w+\b`),
	regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)(\s+\d{4})?\b`),
	regexp.MustCompile(`\b(19|20)\d{2}\b`),
	regexp.MustCompile(`(?i)\byesterday\b`),
	regexp.MustCompile(`(?i)\btoday\b`),
	regexp.MustCompile(`(?i)\btomorrow\b`),
}

// fallbackParse is the deterministic rule-based extraction path.
func (s *Service) fallbackParse(ctx context.Context, text string) query.Parameters {
	var dates, keywords []string

	entities, err := s.tagger.Entities(text)
	if err != nil {
		logger.FromContext(ctx).Warn("entity extraction failed", zap.Error(err))
	}

	appendDate := func(phrase string) {
		for _, d := range dates {
			if strings.EqualFold(d, phrase) {
				return
			}
		}
		dates = append(dates, phrase)
	}

	for _, ent := range entities {
		switch ent.Label {
		case nlp.LabelDate:
			appendDate(ent.Text)
		case nlp.LabelNoun, nlp.LabelProp:
			keywords = appendKeyword(keywords, ent.Text)
		case nlp.LabelVerb:
			if !nlp.IsAuxiliary(ent.Text) {
				keywords = appendKeyword(keywords, ent.Text)
			}
		}
	}

	for _, m := range monthDateRe.FindAllString(text, -1) {
		appendDate(m)
	}
	for _, m := range yearRe.FindAllString(text, -1) {
		appendDate(m)
	}

	timeRange := extractTimeRange(text)

	countReq := countTrigger.MatchString(text)
	qtype := classify(text, countReq, len(dates) > 0)

	return query.New(dates, keywords, timeRange, countReq, qtype)
}

// extractTimeRange returns the highest-priority time-range phrase in the text.
func extractTimeRange(text string) string {
	for _, re := range timeRangePatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// classify picks the intent: count > insight > recall > general.
func classify(text string, countReq, hasDates bool) query.Type {
	switch {
	case countReq:
		return query.TypeCount
	case insightTrigger.MatchString(text):
		return query.TypeInsight
	case hasDates || recallTrigger.MatchString(text):
		return query.TypeRecall
	default:
		return query.TypeGeneral
	}
}

func appendKeyword(keywords []string, w string) []string {
	w = strings.ToLower(strings.Trim(w, ".,!?;:'\""))
	if len(w) <= 2 || nlp.IsStopword(w) {
		return keywords
	}
	for _, k := range keywords {
		if k == w {
			return keywords
		}
	}
	return append(keywords, w)
}
