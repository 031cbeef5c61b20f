package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Chat generates prose answers via chat completion.
type Chat struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewChat creates an answer generator.
func NewChat(client *openai.Client, model string, temperature float32) *Chat {
	return &Chat{client: client, model: model, temperature: temperature}
}

// Complete implements the answer completer contract.
func (c *Chat) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
