// Package ingest implements the transcribe → extract → store pipeline
// that turns audio recordings into indexed transcripts.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/memovox/memovox/internal/domain/transcript"
	"github.com/memovox/memovox/internal/logger"
)

// audioExtensions accepted for directory ingestion.
var audioExtensions = map[string]struct{}{
	".wav": {}, ".mp3": {}, ".m4a": {}, ".ogg": {}, ".flac": {},
}

// Service runs the ingestion pipeline.
type Service struct {
	transcriber Transcriber
	keyworder   Keyworder
	transcripts TranscriptWriter
	vectors     VectorWriter
	embed       Embedder

	transcriptDir string
	workers       int
}

// New creates an ingest service. transcriptDir receives the persisted
// transcript text files; workers bounds directory ingestion parallelism.
func New(
	transcriber Transcriber, keyworder Keyworder,
	transcripts TranscriptWriter, vectors VectorWriter, embed Embedder,
	transcriptDir string, workers int,
) *Service {
	if workers <= 0 {
		workers = 1
	}
	return &Service{
		transcriber:   transcriber,
		keyworder:     keyworder,
		transcripts:   transcripts,
		vectors:       vectors,
		embed:         embed,
		transcriptDir: transcriptDir,
		workers:       workers,
	}
}

// ProcessFile ingests a single audio file: transcribe, extract keywords,
// persist text, insert the relational record, and index the embedding
// under the relational identity.
func (s *Service) ProcessFile(ctx context.Context, audioPath string) (int64, error) {
	log := logger.FromContext(ctx).With(zap.String("file", audioPath))

	tr, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return 0, fmt.Errorf("transcribe %s: %w", audioPath, err)
	}
	if strings.TrimSpace(tr.Text) == "" {
		return 0, fmt.Errorf("transcribe %s: empty transcript", audioPath)
	}

	keywords, err := s.keyworder.Keywords(tr.Text)
	if err != nil {
		log.Warn("keyword extraction failed", zap.Error(err))
	}

	filename := filepath.Base(audioPath)
	rec := &transcript.Record{
		Filename:        filename,
		RecordingDate:   recordingDateFromName(filename, time.Now()),
		TranscriptDate:  time.Now(),
		DurationSeconds: tr.DurationSeconds,
		Text:            tr.Text,
		WordCount:       len(strings.Fields(tr.Text)),
		Keywords:        keywordFrequencies(tr.Text, keywords),
	}

	if path, err := s.writeTranscriptFile(filename, tr.Text); err != nil {
		log.Warn("persist transcript file failed", zap.Error(err))
	} else {
		rec.FilePath = path
	}

	id, err := s.transcripts.Insert(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("insert transcript: %w", err)
	}
	rec.ID = id

	if err := s.indexVector(ctx, rec); err != nil {
		// Relational row exists; vector indexing can be repaired by re-ingest.
		log.Error("vector indexing failed", zap.Int64("id", id), zap.Error(err))
	}

	log.Info("ingested recording",
		zap.Int64("id", id),
		zap.Int("words", rec.WordCount),
		zap.Int("keywords", len(rec.Keywords)),
	)
	return id, nil
}

// ProcessDir ingests every audio file in a directory using a bounded
// worker pool. One file's failure does not abort the batch.
func (s *Service) ProcessDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read dir %s: %w", dir, err)
	}

	files := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	processed := 0

	for range s.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range files {
				if _, err := s.ProcessFile(ctx, path); err != nil {
					logger.FromContext(ctx).Error("ingest failed", zap.String("file", path), zap.Error(err))
					continue
				}
				mu.Lock()
				processed++
				mu.Unlock()
			}
		}()
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if _, ok := audioExtensions[ext]; !ok {
			continue
		}
		files <- filepath.Join(dir, e.Name())
	}
	close(files)
	wg.Wait()

	return processed, nil
}

func (s *Service) writeTranscriptFile(audioName, text string) (string, error) {
	if err := os.MkdirAll(s.transcriptDir, 0o755); err != nil {
		return "", fmt.Errorf("create transcript dir: %w", err)
	}
	base := strings.TrimSuffix(audioName, filepath.Ext(audioName))
	path := filepath.Join(s.transcriptDir, base+".txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}

func (s *Service) indexVector(ctx context.Context, rec *transcript.Record) error {
	emb, err := s.embed.Embed(ctx, rec.Text)
	if err != nil {
		return fmt.Errorf("embed transcript: %w", err)
	}

	id := strconv.FormatInt(rec.ID, 10)
	metadata := map[string]string{
		"filename":       rec.Filename,
		"recording_date": rec.RecordingDay(),
		"recording_ts":   strconv.FormatInt(rec.RecordingDate.Unix(), 10),
	}
	if err := s.vectors.Add(ctx, id, rec.Text, emb.Embedding, metadata); err != nil {
		return fmt.Errorf("vector add: %w", err)
	}
	return nil
}

// Filename date conventions: 2024-03-15_meeting.wav or 240315_0930.wav.
var (
	isoNameLayout     = "2006-01-02"
	compactNameLayout = "060102_1504"
)

// recordingDateFromName derives the recording date from the filename,
// falling back to now when no convention matches.
func recordingDateFromName(filename string, now time.Time) time.Time {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	if len(base) >= len(isoNameLayout) {
		if t, err := time.ParseInLocation(isoNameLayout, base[:len(isoNameLayout)], now.Location()); err == nil {
			return t
		}
	}
	if len(base) >= len(compactNameLayout) {
		if t, err := time.ParseInLocation(compactNameLayout, base[:len(compactNameLayout)], now.Location()); err == nil {
			return t
		}
	}
	return now
}

// keywordFrequencies counts each keyword's occurrences in the text.
func keywordFrequencies(text string, keywords []string) []transcript.KeywordFreq {
	lower := strings.ToLower(text)
	out := make([]transcript.KeywordFreq, 0, len(keywords))
	for _, kw := range keywords {
		n := strings.Count(lower, strings.ToLower(kw))
		if n == 0 {
			n = 1
		}
		out = append(out, transcript.KeywordFreq{Keyword: kw, Frequency: n})
	}
	return out
}
