package openai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/memovox/memovox/internal/domain/query"
)

// parseInstruction asks for the structured-query fields as a JSON object.
const parseInstruction = `Extract search parameters from the user's question about their voice memos.
Return a JSON object with exactly these fields:
- "date_filters": array of date/time phrases from the question, verbatim (e.g. ["October 5, 2023", "last week"])
- "keywords": array of topic terms (nouns, names, salient verbs), lowercase
- "time_range": single phrase describing the time span, or ""
- "count_request": true if the question asks how many / how often
- "query_type": one of "recall", "count", "insight", "general"
Return only the JSON object.`

// parsedQuery mirrors the JSON shape the model is instructed to return.
type parsedQuery struct {
	DateFilters  []string `json:"date_filters"`
	Keywords     []string `json:"keywords"`
	TimeRange    string   `json:"time_range"`
	CountRequest bool     `json:"count_request"`
	QueryType    string   `json:"query_type"`
}

// Parser extracts structured query parameters via chat completion.
type Parser struct {
	client *openai.Client
	model  string
}

// NewParser creates a generative query parser.
func NewParser(client *openai.Client, model string) *Parser {
	return &Parser{client: client, model: model}
}

// ParseQuery implements the generative parsing contract. Any transport or
// decoding failure is returned to the caller, which falls back to
// rule-based parsing.
func (p *Parser) ParseQuery(ctx context.Context, text string) (query.Parameters, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: parseInstruction},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return query.Parameters{}, fmt.Errorf("parse completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return query.Parameters{}, fmt.Errorf("parse completion: empty response")
	}

	var parsed parsedQuery
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return query.Parameters{}, fmt.Errorf("decode parse response: %w", err)
	}

	return query.New(
		parsed.DateFilters,
		parsed.Keywords,
		parsed.TimeRange,
		parsed.CountRequest,
		query.ParseType(parsed.QueryType),
	), nil
}
