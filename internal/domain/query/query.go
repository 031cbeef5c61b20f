// Package query defines the structured query produced by parsing and
// consumed by the retrieval and counting paths.
package query

import "strings"

// Type classifies a query for dispatch.
type Type string

const (
	// TypeRecall asks what happened at a specific time.
	TypeRecall Type = "recall"
	// TypeCount asks how many / how often.
	TypeCount Type = "count"
	// TypeInsight asks for patterns or analysis.
	TypeInsight Type = "insight"
	// TypeGeneral is the default semantic lookup.
	TypeGeneral Type = "general"
)

// ParseType maps a raw string onto a Type, defaulting to TypeGeneral
// for anything unrecognized.
func ParseType(s string) Type {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeRecall:
		return TypeRecall
	case TypeCount:
		return TypeCount
	case TypeInsight:
		return TypeInsight
	default:
		return TypeGeneral
	}
}

// Parameters is a structured query. Date filters and keywords keep
// insertion order with case-insensitive duplicates suppressed; a count
// request always carries TypeCount.
type Parameters struct {
	dateFilters  []string
	keywords     []string
	timeRange    string
	countRequest bool
	qtype        Type
}

// New builds Parameters, enforcing the invariants: duplicates are removed
// case-insensitively preserving first-seen order and capitalization, and
// countRequest forces the count type.
func New(dateFilters, keywords []string, timeRange string, countRequest bool, qtype Type) Parameters {
	if countRequest {
		qtype = TypeCount
	}
	if qtype == "" {
		qtype = TypeGeneral
	}
	return Parameters{
		dateFilters:  dedupeFold(dateFilters),
		keywords:     dedupeFold(keywords),
		timeRange:    timeRange,
		countRequest: countRequest,
		qtype:        qtype,
	}
}

// DateFilters returns the raw date phrases, order preserved.
func (p *Parameters) DateFilters() []string { return p.dateFilters }

// Keywords returns the topic terms, order preserved.
func (p *Parameters) Keywords() []string { return p.keywords }

// TimeRange returns the descriptive time-range phrase, if any.
func (p *Parameters) TimeRange() string { return p.timeRange }

// CountRequest reports whether the query asks how many / how often.
func (p *Parameters) CountRequest() bool { return p.countRequest }

// Type returns the query classification.
func (p *Parameters) Type() Type { return p.qtype }

// HasDateFilter reports whether any date phrase was extracted.
func (p *Parameters) HasDateFilter() bool { return len(p.dateFilters) > 0 }

// ContainsDateFilter checks case-insensitive membership of a phrase.
func (p *Parameters) ContainsDateFilter(phrase string) bool {
	for _, f := range p.dateFilters {
		if strings.EqualFold(f, phrase) {
			return true
		}
	}
	return false
}

func dedupeFold(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
