// Package answer composes retrieved passages into a prose answer.
package answer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/memovox/memovox/internal/domain/count"
	"github.com/memovox/memovox/internal/domain/result"
	"github.com/memovox/memovox/internal/logger"
)

const systemPrompt = "You are a personal memory assistant. Answer the user's question " +
	"using only the provided voice-memo excerpts. Mention recording dates when relevant. " +
	"If the excerpts do not contain the answer, say so plainly."

// Service generates prose answers over retrieval output.
type Service struct {
	completer Completer
}

// New creates an answer service.
func New(completer Completer) *Service {
	return &Service{completer: completer}
}

// FromResults answers the question from retrieved passages. Generation
// failure degrades to an apologetic message, never an error to the caller.
func (s *Service) FromResults(ctx context.Context, question string, results []result.Result) string {
	if len(results) == 0 {
		return "I couldn't find any memories matching your question."
	}

	var b strings.Builder
	for i := range results {
		meta := results[i].Metadata()
		date, _ := meta["recording_date"].(string)
		if date == "" {
			date = "unknown date"
		}
		fmt.Fprintf(&b, "[%s] %s\n\n", date, results[i].Content())
	}

	prompt := fmt.Sprintf("Question: %s\n\nExcerpts:\n%s", question, b.String())

	text, err := s.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		logger.FromContext(ctx).Error("answer generation failed", zap.Error(err))
		return "I found matching memories but couldn't compose an answer right now."
	}
	return text
}

// FromCount renders a count aggregate as a readable sentence.
func (s *Service) FromCount(res count.Result) string {
	var b strings.Builder

	if res.TotalMentions == 0 {
		fmt.Fprintf(&b, "No mentions found (%s).", res.DateRange)
		return b.String()
	}

	keywords := make([]string, 0, len(res.Counts))
	for kw := range res.Counts {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	fmt.Fprintf(&b, "Found %d mention(s) over %s:\n", res.TotalMentions, res.DateRange)
	for _, kw := range keywords {
		fmt.Fprintf(&b, "  %q: %d\n", kw, res.Counts[kw])
	}
	if len(res.MatchingDates) > 0 {
		fmt.Fprintf(&b, "On dates: %s", strings.Join(res.MatchingDates, ", "))
	}
	return b.String()
}
