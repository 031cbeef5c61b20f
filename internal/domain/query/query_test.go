package query

import "testing"

func TestParseType_KnownAndUnknown(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"recall", TypeRecall},
		{"COUNT", TypeCount},
		{" insight ", TypeInsight},
		{"general", TypeGeneral},
		{"banana", TypeGeneral},
		{"", TypeGeneral},
	}

	for _, tt := range tests {
		if got := ParseType(tt.in); got != tt.want {
			t.Errorf("ParseType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew_CountRequestForcesCountType(t *testing.T) {
	p := New(nil, []string{"vacation"}, "last month", true, TypeRecall)

	if p.Type() != TypeCount {
		t.Errorf("type = %q, want count", p.Type())
	}
	if !p.CountRequest() {
		t.Error("CountRequest = false, want true")
	}
}

func TestNew_EmptyTypeDefaultsToGeneral(t *testing.T) {
	p := New(nil, nil, "", false, "")

	if p.Type() != TypeGeneral {
		t.Errorf("type = %q, want general", p.Type())
	}
}

func TestNew_DedupesCaseInsensitivePreservingFirst(t *testing.T) {
	p := New(
		[]string{"October 5, 2023", "october 5, 2023", "last week"},
		[]string{"Vacation", "vacation", "beach", "Beach "},
		"", false, TypeRecall,
	)

	dates := p.DateFilters()
	if len(dates) != 2 {
		t.Fatalf("date filters = %v, want 2 entries", dates)
	}
	if dates[0] != "October 5, 2023" {
		t.Errorf("first date = %q, original capitalization lost", dates[0])
	}

	kws := p.Keywords()
	if len(kws) != 2 {
		t.Fatalf("keywords = %v, want 2 entries", kws)
	}
	if kws[0] != "Vacation" || kws[1] != "beach" {
		t.Errorf("keywords = %v, want [Vacation beach]", kws)
	}
}

func TestContainsDateFilter_CaseInsensitive(t *testing.T) {
	p := New([]string{"October 5, 2023"}, nil, "", false, TypeRecall)

	if !p.ContainsDateFilter("OCTOBER 5, 2023") {
		t.Error("case-insensitive membership failed")
	}
	if p.ContainsDateFilter("October 6, 2023") {
		t.Error("false positive membership")
	}
}
