package daterange

import (
	"testing"
	"time"
)

var anchor = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

func TestResolveAt_Today_SingleDay(t *testing.T) {
	r := ResolveAt("today", anchor)

	if !r.Resolved() {
		t.Fatal("today: not resolved")
	}
	if r.Span {
		t.Error("today: Span = true, want false")
	}
	if r.Start.Hour() != 0 || r.End.Hour() != 23 {
		t.Errorf("today: boundaries %v..%v, want full day", r.Start, r.End)
	}
	if r.Start.Day() != 15 || r.End.Day() != 15 {
		t.Errorf("today: day %d..%d, want 15..15", r.Start.Day(), r.End.Day())
	}
}

func TestResolveAt_Yesterday_OneDayBack(t *testing.T) {
	for _, phrase := range []string{"yesterday", "Yesterday", "last day"} {
		r := ResolveAt(phrase, anchor)
		if !r.Resolved() {
			t.Fatalf("%q: not resolved", phrase)
		}
		if r.Span {
			t.Errorf("%q: Span = true, want false", phrase)
		}
		diff := anchor.Truncate(24 * time.Hour).Sub(r.Start.Truncate(24 * time.Hour))
		if diff != 24*time.Hour {
			t.Errorf("%q: start is %v before anchor, want 24h", phrase, diff)
		}
	}
}

func TestResolveAt_RelativeSpans_FixedOffsets(t *testing.T) {
	tests := []struct {
		phrase string
		days   int
	}{
		{"last week", 7},
		{"last month", 30},
		{"last year", 365},
	}

	for _, tt := range tests {
		r := ResolveAt(tt.phrase, anchor)
		if !r.Resolved() {
			t.Fatalf("%q: not resolved", tt.phrase)
		}
		if !r.Span {
			t.Errorf("%q: Span = false, want true", tt.phrase)
		}
		if !r.End.Equal(anchor) {
			t.Errorf("%q: end = %v, want anchor", tt.phrase, r.End)
		}
		want := anchor.AddDate(0, 0, -tt.days)
		if !r.Start.Equal(want) {
			t.Errorf("%q: start = %v, want %v", tt.phrase, r.Start, want)
		}
	}
}

func TestResolveAt_AbsoluteFormats_FullDay(t *testing.T) {
	phrases := []string{
		"October 5, 2023",
		"Oct 5, 2023",
		"2023-10-05",
		"10/05/2023",
		"october 5, 2023", // month casing must not matter
	}

	for _, p := range phrases {
		r := ResolveAt(p, anchor)
		if !r.Resolved() {
			t.Fatalf("%q: not resolved", p)
		}
		if r.Span {
			t.Errorf("%q: Span = true, want false", p)
		}
		if r.Start.Year() != 2023 || r.Start.Month() != time.October || r.Start.Day() != 5 {
			t.Errorf("%q: start = %v, want 2023-10-05", p, r.Start)
		}
		if r.Start.Hour() != 0 || r.End.Hour() != 23 {
			t.Errorf("%q: boundaries %v..%v, want full day", p, r.Start, r.End)
		}
	}
}

func TestResolveAt_AmbiguousSlashDate_MonthFirst(t *testing.T) {
	// 03/04/2024 parses as March 4, not April 3.
	r := ResolveAt("03/04/2024", anchor)

	if r.Start.Month() != time.March || r.Start.Day() != 4 {
		t.Errorf("03/04/2024: got %v, want March 4", r.Start)
	}
}

func TestResolveAt_DayFirstWhenMonthFirstImpossible(t *testing.T) {
	// 25/12/2023 cannot be month-first, so day-first applies.
	r := ResolveAt("25/12/2023", anchor)

	if !r.Resolved() {
		t.Fatal("25/12/2023: not resolved")
	}
	if r.Start.Month() != time.December || r.Start.Day() != 25 {
		t.Errorf("25/12/2023: got %v, want December 25", r.Start)
	}
}

func TestResolveAt_MonthYear_LeapFebruary(t *testing.T) {
	r := ResolveAt("February 2024", anchor)
	if r.End.Day() != 29 {
		t.Errorf("February 2024: end day = %d, want 29", r.End.Day())
	}
	if !r.Span {
		t.Error("February 2024: Span = false, want true")
	}

	r = ResolveAt("February 2023", anchor)
	if r.End.Day() != 28 {
		t.Errorf("February 2023: end day = %d, want 28", r.End.Day())
	}
}

func TestResolveAt_MonthYear_Boundaries(t *testing.T) {
	r := ResolveAt("October 2023", anchor)

	if r.Start.Day() != 1 || r.Start.Hour() != 0 {
		t.Errorf("start = %v, want October 1 00:00", r.Start)
	}
	if r.End.Day() != 31 || r.End.Hour() != 23 {
		t.Errorf("end = %v, want October 31 23:59", r.End)
	}
}

func TestResolveAt_BareMonth_CurrentYear(t *testing.T) {
	r := ResolveAt("December", anchor)

	if !r.Resolved() {
		t.Fatal("December: not resolved")
	}
	if r.Start.Year() != anchor.Year() {
		t.Errorf("December: year = %d, want %d", r.Start.Year(), anchor.Year())
	}
	if r.End.Day() != 31 {
		t.Errorf("December: end day = %d, want 31", r.End.Day())
	}
}

func TestResolveAt_Unresolvable_ZeroRange(t *testing.T) {
	for _, p := range []string{"", "whenever", "the day my cat sneezed", "13/13/2024"} {
		r := ResolveAt(p, anchor)
		if r.Resolved() {
			t.Errorf("%q: resolved to %v..%v, want zero range", p, r.Start, r.End)
		}
		if r.Span {
			t.Errorf("%q: Span = true, want false", p)
		}
	}
}

func TestResolveAt_Idempotent(t *testing.T) {
	for _, p := range []string{"yesterday", "last month", "October 5, 2023", "February 2024"} {
		a := ResolveAt(p, anchor)
		b := ResolveAt(p, anchor)
		if !a.Start.Equal(b.Start) || !a.End.Equal(b.End) || a.Span != b.Span {
			t.Errorf("%q: two resolutions differ: %+v vs %+v", p, a, b)
		}
	}
}

func TestResolveAt_EndOfDayMicroseconds(t *testing.T) {
	r := ResolveAt("2023-10-05", anchor)

	if r.End.Nanosecond() != 999999000 {
		t.Errorf("end nanoseconds = %d, want 999999000", r.End.Nanosecond())
	}
	if r.End.Minute() != 59 || r.End.Second() != 59 {
		t.Errorf("end = %v, want 23:59:59", r.End)
	}
}
