package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// LLMClient is the slice of the OpenAI-compatible client the classifier
// needs; the concrete client satisfies it.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLMClassifier extracts the industry phrase with a chat model under a
// strict JSON-only contract. When the model returns non-JSON or the call
// fails, the parser falls back to the keyword table.
type LLMClassifier struct {
	Client LLMClient
	Model  string
}

const classifierSystemMessage = "You are a query classification assistant for a business lead search engine. Respond with strict JSON only, no narration. The JSON schema is {\"industry\": string}. Given a search query with any location already removed, return the business industry or category it asks for, as a short lower-case plural noun phrase (e.g. \"hospitals\", \"law firms\"). Return {\"industry\": \"\"} when the query names no industry."

// Industry implements Classifier against a chat completions endpoint.
func (c *LLMClassifier) Industry(ctx context.Context, query string) (string, error) {
	if c.Client == nil || c.Model == "" {
		return "", errors.New("industry classifier not configured")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}
	resp, err := c.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifierSystemMessage},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: 0.1,
		N:           1,
	})
	if err != nil {
		return "", fmt.Errorf("classifier call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices")
	}
	var out struct {
		Industry string `json:"industry"`
	}
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return "", fmt.Errorf("parse classifier json: %w", err)
	}
	return strings.ToLower(strings.TrimSpace(out.Industry)), nil
}
