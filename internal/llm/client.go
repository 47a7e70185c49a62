// ABOUTME: OpenAI chat-completion wrapper used by translation, tagging, and summarization
// ABOUTME: Single-shot calls; retry policy belongs to each caller
package llm

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultChatModel is the default model for chat completions
const DefaultChatModel = "gpt-4o-mini"

// CompletionRequest is one system+user chat-completion call.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int           // output token budget; 0 = provider default
	Timeout     time.Duration // 0 = 30s
}

// Completion is the provider response shape the pipeline depends on:
// finish reason distinguishes "stopped naturally" from "cut off by
// length", and token usage feeds adaptive budget tuning.
type Completion struct {
	ID               string
	Text             string
	FinishReason     string // "stop", "length", ...
	PromptTokens     int
	CompletionTokens int
}

// Completer is the narrow interface the pipeline components consume,
// so tests can substitute fakes.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// Client wraps the OpenAI API client.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a chat-completion client for the given key and model.
func NewClient(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if model == "" {
		model = DefaultChatModel
	}
	return &Client{client: openai.NewClient(apiKey), model: model}, nil
}

// GetClient returns the underlying OpenAI client for direct use
// (transcription and speech synthesis share the same credentials).
func (c *Client) GetClient() *openai.Client {
	return c.client
}

// Complete performs one chat completion with a bounded timeout.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no completion choices returned")
	}

	choice := resp.Choices[0]
	return &Completion{
		ID:               resp.ID,
		Text:             choice.Message.Content,
		FinishReason:     string(choice.FinishReason),
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}
