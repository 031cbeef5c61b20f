package domain

import "errors"

var (
	// ErrNoKeywords signals a count request without any keywords to count.
	ErrNoKeywords = errors.New("No keywords provided for counting")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrTranscriptionProviderError signals a transcription provider failure.
	ErrTranscriptionProviderError = errors.New("transcription provider error")
)
