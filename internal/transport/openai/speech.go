package openai

import (
	"context"
	"fmt"
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// Speech synthesizes answer text to audio via the TTS API.
type Speech struct {
	client *openai.Client
	model  string
	voice  string
}

// NewSpeech creates a speech synthesizer.
func NewSpeech(client *openai.Client, model, voice string) *Speech {
	return &Speech{client: client, model: model, voice: voice}
}

// Synthesize writes the spoken rendering of text to outPath as MP3.
func (s *Speech) Synthesize(ctx context.Context, text, outPath string) error {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(s.model),
		Voice: openai.SpeechVoice(s.voice),
		Input: text,
	})
	if err != nil {
		return fmt.Errorf("speech request: %w", err)
	}
	defer resp.Close()

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	return nil
}
