package intent

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type fakeLLM struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (f *fakeLLM) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestLLMClassifier_StrictJSON(t *testing.T) {
	fake := &fakeLLM{content: `{"industry": "Law Firms"}`}
	c := &LLMClassifier{Client: fake, Model: "test-model"}

	got, err := c.Industry(context.Background(), "attorneys")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "law firms" {
		t.Fatalf("industry = %q, want %q", got, "law firms")
	}
	if len(fake.lastReq.Messages) != 2 || fake.lastReq.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("expected system+user messages, got %+v", fake.lastReq.Messages)
	}
}

func TestLLMClassifier_RejectsNarration(t *testing.T) {
	fake := &fakeLLM{content: `Sure! The industry is law firms.`}
	c := &LLMClassifier{Client: fake, Model: "test-model"}

	if _, err := c.Industry(context.Background(), "attorneys"); err == nil {
		t.Fatal("non-JSON response must be an error")
	}
}

func TestLLMClassifier_Unconfigured(t *testing.T) {
	c := &LLMClassifier{}
	if _, err := c.Industry(context.Background(), "attorneys"); err == nil {
		t.Fatal("unconfigured classifier must error")
	}
}

func TestParse_ClassifierFailureFallsBackToKeywords(t *testing.T) {
	p := &Parser{Classifier: &LLMClassifier{
		Client: &fakeLLM{err: errors.New("upstream down")},
		Model:  "test-model",
	}}

	it := p.Parse(context.Background(), "hospitals in Lagos", Options{})
	if it.Industry != "hospitals" {
		t.Fatalf("keyword fallback should resolve the industry, got %q", it.Industry)
	}
	if it.Location != "Lagos" {
		t.Fatalf("location = %q, want Lagos", it.Location)
	}
}

func TestParse_ClassifierWinsOverKeywords(t *testing.T) {
	p := &Parser{Classifier: &LLMClassifier{
		Client: &fakeLLM{content: `{"industry": "dental clinics"}`},
		Model:  "test-model",
	}}

	it := p.Parse(context.Background(), "teeth whitening places in Lagos", Options{})
	if it.Industry != "dental clinics" {
		t.Fatalf("classifier verdict should win, got %q", it.Industry)
	}
}
