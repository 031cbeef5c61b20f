package ingest

import (
	"context"

	"github.com/memovox/memovox/internal/domain"
	"github.com/memovox/memovox/internal/domain/transcript"
)

// Transcriber converts an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (Transcription, error)
}

// Transcription is the transcriber output.
type Transcription struct {
	Text            string
	DurationSeconds int
}

// Keyworder extracts salient keywords from transcript text.
type Keyworder interface {
	Keywords(text string) ([]string, error)
}

// TranscriptWriter persists transcript records to the relational store.
type TranscriptWriter interface {
	Insert(ctx context.Context, rec *transcript.Record) (int64, error)
}

// VectorWriter adds documents to the vector store.
type VectorWriter interface {
	Add(ctx context.Context, id string, content string, vector []float32, metadata map[string]string) error
}

// Embedder vectorizes transcript text for the vector store.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
