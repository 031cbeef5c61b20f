package count

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/memovox/memovox/internal/domain"
	"github.com/memovox/memovox/internal/domain/daterange"
	"github.com/memovox/memovox/internal/domain/query"
	"github.com/memovox/memovox/internal/domain/transcript"
)

type mockTranscripts struct {
	records    []transcript.Record
	err        error
	lastRanges []daterange.Range
}

func (m *mockTranscripts) QueryByDateRanges(_ context.Context, ranges []daterange.Range) ([]transcript.Record, error) {
	m.lastRanges = ranges
	return m.records, m.err
}

func record(id int64, day, text string) transcript.Record {
	d, _ := time.Parse("2006-01-02", day)
	return transcript.Record{ID: id, RecordingDate: d, Text: text}
}

func TestCount_NoKeywords_TypedError(t *testing.T) {
	svc := New(&mockTranscripts{})

	params := query.New(nil, nil, "", true, query.TypeCount)
	_, err := svc.Count(context.Background(), params)

	if !errors.Is(err, domain.ErrNoKeywords) {
		t.Fatalf("err = %v, want ErrNoKeywords", err)
	}
	if err.Error() != "No keywords provided for counting" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestCount_SubstringOccurrences(t *testing.T) {
	store := &mockTranscripts{records: []transcript.Record{
		record(1, "2023-10-05", "Vacation was great. VACATION again soon."),
		record(2, "2023-10-07", "Thinking about the vacation budget."),
		record(3, "2023-10-09", "Nothing relevant here."),
	}}
	svc := New(store)

	params := query.New(nil, []string{"vacation", "budget"}, "", true, query.TypeCount)
	res, err := svc.Count(context.Background(), params)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	if res.Counts["vacation"] != 3 {
		t.Errorf("vacation = %d, want 3", res.Counts["vacation"])
	}
	if res.Counts["budget"] != 1 {
		t.Errorf("budget = %d, want 1", res.Counts["budget"])
	}
	if res.TotalMentions != 4 {
		t.Errorf("total = %d, want 4", res.TotalMentions)
	}
}

func TestCount_MatchingDates_SortedDeduped(t *testing.T) {
	store := &mockTranscripts{records: []transcript.Record{
		record(1, "2023-10-09", "vacation"),
		record(2, "2023-10-05", "vacation and more vacation"),
		record(3, "2023-10-05", "vacation again, same day"),
		record(4, "2023-10-07", "nothing"),
	}}
	svc := New(store)

	params := query.New(nil, []string{"vacation"}, "", true, query.TypeCount)
	res, err := svc.Count(context.Background(), params)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	want := []string{"2023-10-05", "2023-10-09"}
	if len(res.MatchingDates) != len(want) {
		t.Fatalf("dates = %v, want %v", res.MatchingDates, want)
	}
	for i := range want {
		if res.MatchingDates[i] != want[i] {
			t.Errorf("dates = %v, want %v", res.MatchingDates, want)
			break
		}
	}
}

func TestCount_DateRangeDefaultsToAllTime(t *testing.T) {
	svc := New(&mockTranscripts{})

	params := query.New(nil, []string{"vacation"}, "", true, query.TypeCount)
	res, err := svc.Count(context.Background(), params)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if res.DateRange != "all time" {
		t.Errorf("date range = %q, want \"all time\"", res.DateRange)
	}

	params = query.New(nil, []string{"vacation"}, "last month", true, query.TypeCount)
	res, err = svc.Count(context.Background(), params)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if res.DateRange != "last month" {
		t.Errorf("date range = %q, want \"last month\"", res.DateRange)
	}
}

func TestCount_ResolvedFiltersPassedToStore(t *testing.T) {
	store := &mockTranscripts{}
	svc := New(store)

	params := query.New([]string{"October 2023", "gibberish"}, []string{"vacation"}, "", true, query.TypeCount)
	if _, err := svc.Count(context.Background(), params); err != nil {
		t.Fatalf("Count: %v", err)
	}

	// The unresolvable phrase is dropped, the month resolves.
	if len(store.lastRanges) != 1 {
		t.Fatalf("ranges = %d, want 1", len(store.lastRanges))
	}
	if store.lastRanges[0].Start.Month() != time.October {
		t.Errorf("range start = %v, want October", store.lastRanges[0].Start)
	}
}

func TestCount_UnreadableFile_SkippedNotFatal(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	if err := os.WriteFile(good, []byte("vacation twice: vacation"), 0o644); err != nil {
		t.Fatal(err)
	}

	goodRec := record(1, "2023-10-05", "")
	goodRec.FilePath = good
	badRec := record(2, "2023-10-06", "")
	badRec.FilePath = filepath.Join(dir, "missing.txt")

	svc := New(&mockTranscripts{records: []transcript.Record{goodRec, badRec}})

	params := query.New(nil, []string{"vacation"}, "", true, query.TypeCount)
	res, err := svc.Count(context.Background(), params)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	if res.Counts["vacation"] != 2 {
		t.Errorf("vacation = %d, want 2 from the readable file", res.Counts["vacation"])
	}
	if len(res.MatchingDates) != 1 || res.MatchingDates[0] != "2023-10-05" {
		t.Errorf("dates = %v, want only the readable record's date", res.MatchingDates)
	}
}

func TestCount_StoreError_Propagates(t *testing.T) {
	svc := New(&mockTranscripts{err: errors.New("db gone")})

	params := query.New(nil, []string{"vacation"}, "", true, query.TypeCount)
	if _, err := svc.Count(context.Background(), params); err == nil {
		t.Fatal("err = nil, want store error")
	}
}
