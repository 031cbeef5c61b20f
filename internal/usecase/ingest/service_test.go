package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/memovox/memovox/internal/domain"
	"github.com/memovox/memovox/internal/domain/transcript"
)

// --- Mocks ---

type mockTranscriber struct {
	text string
	err  error
}

func (m *mockTranscriber) Transcribe(_ context.Context, audioPath string) (Transcription, error) {
	if m.err != nil {
		return Transcription{}, m.err
	}
	return Transcription{Text: m.text, DurationSeconds: 30}, nil
}

type mockKeyworder struct {
	keywords []string
	err      error
}

func (m *mockKeyworder) Keywords(_ string) ([]string, error) {
	return m.keywords, m.err
}

type mockTranscripts struct {
	mu      sync.Mutex
	nextID  int64
	records []*transcript.Record
	err     error
}

func (m *mockTranscripts) Insert(_ context.Context, rec *transcript.Record) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.records = append(m.records, rec)
	return m.nextID, nil
}

type mockVectors struct {
	mu     sync.Mutex
	added  map[string]map[string]string
	err    error
	lastID string
}

func (m *mockVectors) Add(_ context.Context, id string, _ string, _ []float32, metadata map[string]string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.added == nil {
		m.added = map[string]map[string]string{}
	}
	m.added[id] = metadata
	m.lastID = id
	return nil
}

type mockEmbedder struct{ err error }

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, m.err
}

func newTestService(t *testing.T, tr *mockTranscriber, ts *mockTranscripts, vs *mockVectors) *Service {
	t.Helper()
	return New(tr, &mockKeyworder{keywords: []string{"vacation"}}, ts, vs, &mockEmbedder{}, t.TempDir(), 2)
}

// --- Tests ---

func TestProcessFile_FullPipeline(t *testing.T) {
	transcripts := &mockTranscripts{}
	vectors := &mockVectors{}
	svc := newTestService(t, &mockTranscriber{text: "vacation was great, vacation indeed"}, transcripts, vectors)

	id, err := svc.ProcessFile(context.Background(), "/audio/2024-03-15_memo.wav")
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if id != 1 {
		t.Errorf("id = %d, want 1", id)
	}

	rec := transcripts.records[0]
	if rec.WordCount != 5 {
		t.Errorf("word count = %d, want 5", rec.WordCount)
	}
	if rec.RecordingDay() != "2024-03-15" {
		t.Errorf("recording day = %q, want from filename", rec.RecordingDay())
	}
	if len(rec.Keywords) != 1 || rec.Keywords[0].Frequency != 2 {
		t.Errorf("keywords = %+v, want vacation x2", rec.Keywords)
	}
	if rec.FilePath == "" {
		t.Error("transcript file not persisted")
	} else if _, err := os.Stat(rec.FilePath); err != nil {
		t.Errorf("transcript file missing: %v", err)
	}

	if vectors.lastID != "1" {
		t.Errorf("vector id = %q, want relational id", vectors.lastID)
	}
	meta := vectors.added["1"]
	if meta["recording_date"] != "2024-03-15" {
		t.Errorf("vector metadata = %v", meta)
	}
}

func TestProcessFile_EmptyTranscript_Error(t *testing.T) {
	svc := newTestService(t, &mockTranscriber{text: "   "}, &mockTranscripts{}, &mockVectors{})

	if _, err := svc.ProcessFile(context.Background(), "/audio/memo.wav"); err == nil {
		t.Fatal("err = nil, want empty-transcript error")
	}
}

func TestProcessFile_VectorFailure_NotFatal(t *testing.T) {
	transcripts := &mockTranscripts{}
	svc := newTestService(t, &mockTranscriber{text: "some memo"}, transcripts, &mockVectors{err: errors.New("index gone")})

	id, err := svc.ProcessFile(context.Background(), "/audio/memo.wav")
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if id != 1 {
		t.Errorf("id = %d; relational insert must survive vector failure", id)
	}
}

func TestProcessFile_InsertFailure_Fatal(t *testing.T) {
	svc := newTestService(t, &mockTranscriber{text: "some memo"}, &mockTranscripts{err: errors.New("db locked")}, &mockVectors{})

	if _, err := svc.ProcessFile(context.Background(), "/audio/memo.wav"); err == nil {
		t.Fatal("err = nil, want insert error")
	}
}

func TestProcessDir_SkipsNonAudioAndSurvivesFailures(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.wav", "b.mp3", "notes.txt", "c.flac"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	transcripts := &mockTranscripts{}
	svc := newTestService(t, &mockTranscriber{text: "memo text"}, transcripts, &mockVectors{})

	n, err := svc.ProcessDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDir: %v", err)
	}
	if n != 3 {
		t.Errorf("processed = %d, want 3 audio files", n)
	}
}

func TestProcessDir_TranscriberFailure_CountsZero(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.wav"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := newTestService(t, &mockTranscriber{err: errors.New("api down")}, &mockTranscripts{}, &mockVectors{})

	n, err := svc.ProcessDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDir: %v", err)
	}
	if n != 0 {
		t.Errorf("processed = %d, want 0", n)
	}
}

func TestRecordingDateFromName(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		filename string
		want     string
	}{
		{"2024-03-15_meeting.wav", "2024-03-15"},
		{"2024-03-15.mp3", "2024-03-15"},
		{"240315_0930.wav", "2024-03-15"},
		{"random_memo.wav", "2025-06-01"},
		{"short.wav", "2025-06-01"},
	}
	for _, tt := range tests {
		got := recordingDateFromName(tt.filename, now)
		if got.Format("2006-01-02") != tt.want {
			t.Errorf("recordingDateFromName(%q) = %s, want %s", tt.filename, got.Format("2006-01-02"), tt.want)
		}
	}
}
