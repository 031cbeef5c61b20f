package transcript

import (
	"context"
	"testing"
	"time"

	"github.com/memovox/memovox/internal/domain/daterange"
	"github.com/memovox/memovox/internal/domain/transcript"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return repo
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func insert(t *testing.T, repo *Repository, recorded string, text string, kws ...string) int64 {
	t.Helper()
	rec := &transcript.Record{
		Filename:       "memo.wav",
		RecordingDate:  day(recorded),
		TranscriptDate: time.Now(),
		Text:           text,
		WordCount:      len(text),
	}
	for _, kw := range kws {
		rec.Keywords = append(rec.Keywords, transcript.KeywordFreq{Keyword: kw, Frequency: 1})
	}
	id, err := repo.Insert(context.Background(), rec)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	return id
}

func TestInsertAndQueryAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := insert(t, repo, "2023-10-05", "went to the dentist", "dentist")
	if id == 0 {
		t.Fatal("id = 0")
	}

	records, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Text != "went to the dentist" {
		t.Errorf("text = %q", records[0].Text)
	}
	if records[0].RecordingDate.Format("2006-01-02") != "2023-10-05" {
		t.Errorf("recording date = %v", records[0].RecordingDate)
	}
}

func TestQueryByDateRanges_Union(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	insert(t, repo, "2023-10-05", "in window one")
	insert(t, repo, "2023-11-20", "in window two")
	insert(t, repo, "2023-12-25", "outside both")

	ranges := []daterange.Range{
		{Start: day("2023-10-01"), End: day("2023-10-31")},
		{Start: day("2023-11-01"), End: day("2023-11-30")},
	}

	records, err := repo.QueryByDateRanges(ctx, ranges)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 (OR of ranges)", len(records))
	}
	// Ordered by recording date.
	if records[0].Text != "in window one" || records[1].Text != "in window two" {
		t.Errorf("unexpected order: %q, %q", records[0].Text, records[1].Text)
	}
}

func TestQueryByDateRanges_EmptyMeansAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	insert(t, repo, "2023-10-05", "one")
	insert(t, repo, "2023-11-20", "two")

	records, err := repo.QueryByDateRanges(ctx, nil)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want all", len(records))
	}
}

func TestSearchText_CaseInsensitive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	insert(t, repo, "2023-10-05", "Talked about the VACATION budget")
	insert(t, repo, "2023-10-06", "nothing relevant")

	records, err := repo.SearchText(ctx, "vacation")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
}

func TestKeywordsFor_UniquePerTranscript(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := insert(t, repo, "2023-10-05", "text", "dentist", "appointment")

	kws, err := repo.KeywordsFor(ctx, id)
	if err != nil {
		t.Fatalf("keywords: %v", err)
	}
	if len(kws) != 2 {
		t.Errorf("keywords = %v, want 2", kws)
	}
}
