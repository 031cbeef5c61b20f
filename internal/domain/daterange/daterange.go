// Package daterange resolves natural-language date expressions into
// concrete instant ranges.
package daterange

import (
	"regexp"
	"strings"
	"time"
)

// Range is a resolved date expression. Both ends are inclusive.
// Span=false denotes a single calendar day; the zero Range means the
// phrase did not resolve.
type Range struct {
	Start time.Time
	End   time.Time
	Span  bool
}

// Resolved reports whether the range carries a usable bound.
func (r Range) Resolved() bool {
	return !r.Start.IsZero() || !r.End.IsZero()
}

var (
	todayRe     = regexp.MustCompile(`(?i)^today$`)
	yesterdayRe = regexp.MustCompile(`(?i)^(yesterday|last\s+day)$`)
	lastWeekRe  = regexp.MustCompile(`(?i)^last\s+week$`)
	lastMonthRe = regexp.MustCompile(`(?i)^last\s+month$`)
	lastYearRe  = regexp.MustCompile(`(?i)^last\s+year$`)
)

// Absolute single-day formats, tried in order. Month-first slash dates win
// over day-first on ambiguous input.
var dayFormats = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
}

var monthYearFormats = []string{
	"January 2006",
	"Jan 2006",
}

var monthOnlyFormats = []string{
	"January",
	"Jan",
}

// Resolve converts a natural-language date phrase into a Range anchored at
// the current wall-clock time. Unresolvable phrases yield the zero Range,
// never an error: the caller drops the filter.
func Resolve(phrase string) Range {
	return ResolveAt(phrase, time.Now())
}

// ResolveAt is Resolve with an explicit anchor, for deterministic resolution.
func ResolveAt(phrase string, now time.Time) Range {
	p := strings.TrimSpace(phrase)
	if p == "" {
		return Range{}
	}

	switch {
	case todayRe.MatchString(p):
		return singleDay(now)
	case yesterdayRe.MatchString(p):
		return singleDay(now.AddDate(0, 0, -1))
	case lastWeekRe.MatchString(p):
		return Range{Start: now.AddDate(0, 0, -7), End: now, Span: true}
	case lastMonthRe.MatchString(p):
		// Fixed 30-day offset, not calendar-month arithmetic.
		return Range{Start: now.AddDate(0, 0, -30), End: now, Span: true}
	case lastYearRe.MatchString(p):
		// Fixed 365-day offset, no leap-year adjustment.
		return Range{Start: now.AddDate(0, 0, -365), End: now, Span: true}
	}

	normalized := normalizeCase(p)

	for _, layout := range dayFormats {
		if t, err := time.ParseInLocation(layout, normalized, now.Location()); err == nil {
			return singleDay(t)
		}
	}

	for _, layout := range monthYearFormats {
		if t, err := time.ParseInLocation(layout, normalized, now.Location()); err == nil {
			return wholeMonth(t.Year(), t.Month(), now.Location())
		}
	}

	for _, layout := range monthOnlyFormats {
		if t, err := time.ParseInLocation(layout, normalized, now.Location()); err == nil {
			return wholeMonth(now.Year(), t.Month(), now.Location())
		}
	}

	return Range{}
}

// singleDay expands an instant into its full calendar day:
// 00:00:00 through 23:59:59.999999.
func singleDay(t time.Time) Range {
	y, m, d := t.Date()
	return Range{
		Start: time.Date(y, m, d, 0, 0, 0, 0, t.Location()),
		End:   endOfDay(y, m, d, t.Location()),
		Span:  false,
	}
}

// wholeMonth covers day 1 through the last calendar day of the month,
// leap years included via time.Date normalization.
func wholeMonth(year int, month time.Month, loc *time.Location) Range {
	lastDay := time.Date(year, month+1, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	return Range{
		Start: time.Date(year, month, 1, 0, 0, 0, 0, loc),
		End:   endOfDay(lastDay.Year(), lastDay.Month(), lastDay.Day(), loc),
		Span:  true,
	}
}

func endOfDay(y int, m time.Month, d int, loc *time.Location) time.Time {
	return time.Date(y, m, d, 23, 59, 59, 999999000, loc)
}

// normalizeCase title-cases the leading letters of words so lower- or
// upper-cased month names parse; time.Parse month matching is case-sensitive.
func normalizeCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(strings.ToLower(w))
		if r[0] >= 'a' && r[0] <= 'z' {
			r[0] = r[0] - 'a' + 'A'
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
