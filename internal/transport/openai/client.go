// Package openai adapts the external OpenAI capabilities: embeddings,
// generative query parsing, transcription, answer generation and speech.
package openai

import openai "github.com/sashabaranov/go-openai"

// NewClient builds the shared API client. Created once at startup and
// passed by reference into each adapter.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
