package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/memovox/memovox/internal/domain"
	"github.com/memovox/memovox/internal/metrics"
	"github.com/memovox/memovox/internal/usecase/ingest"
)

// Transcriber converts audio files to text via the Whisper API.
type Transcriber struct {
	client *openai.Client
	model  string
}

// NewTranscriber creates a Whisper-backed transcriber.
func NewTranscriber(client *openai.Client, model string) *Transcriber {
	return &Transcriber{client: client, model: model}
}

// Transcribe implements the ingestion transcriber contract. The verbose
// response format carries the audio duration alongside the text.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (ingest.Transcription, error) {
	start := time.Now()

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})

	if err != nil {
		metrics.TranscriptionsTotal.WithLabelValues(t.model, "error").Inc()
		return ingest.Transcription{}, fmt.Errorf("transcription request: %w: %v",
			domain.ErrTranscriptionProviderError, err)
	}

	metrics.TranscriptionsTotal.WithLabelValues(t.model, "success").Inc()
	metrics.TranscriptionDuration.WithLabelValues(t.model).Observe(time.Since(start).Seconds())

	return ingest.Transcription{
		Text:            resp.Text,
		DurationSeconds: int(resp.Duration),
	}, nil
}
