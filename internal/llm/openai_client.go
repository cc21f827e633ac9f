package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompatibleClient serves any provider reachable through an
// OpenAI-shaped chat completions endpoint (OpenAI itself plus
// OpenRouter, Groq, Together, Fireworks, DeepSeek, Mistral, xAI,
// Perplexity, Zhipu, Qwen, Cerebras, DeepInfra, and Moonshot/Kimi),
// parameterized purely by base URL and API key.
//
// Grounded on the teacher's provider abstraction (internal/agent
// provider_types.go's LLMProvider), collapsed to the spec's
// non-streaming call/response contract.
type OpenAICompatibleClient struct {
	provider string
	inner    *openai.Client
}

// NewOpenAICompatibleClient constructs a client against baseURL using
// apiKey. provider is a label only (used in error messages).
func NewOpenAICompatibleClient(provider, baseURL, apiKey string) *OpenAICompatibleClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompatibleClient{provider: provider, inner: openai.NewClientWithConfig(cfg)}
}

func (c *OpenAICompatibleClient) Call(ctx context.Context, model string, messages []Message, tools []ToolSchema, reasoning string, temperature float64, timeout time.Duration) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toOpenAIMessages(messages),
		Temperature: float32(temperature),
	}
	if reasoning != "" {
		req.ReasoningEffort = reasoning
		// Reasoning models ignore sampling temperature (spec.md §4.5).
		req.Temperature = 0
	}
	if len(tools) > 0 {
		req.Tools = toOpenAITools(tools)
	}

	resp, err := c.inner.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, classifyOpenAIError(c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return nil, newError("UPSTREAM_ERROR", fmt.Sprintf("%s: empty choices in response", c.provider))
	}
	choice := resp.Choices[0]
	if len(choice.Message.ToolCalls) > 0 {
		calls := make([]ToolCallRequest, 0, len(choice.Message.ToolCalls))
		for _, tc := range choice.Message.ToolCalls {
			calls = append(calls, ToolCallRequest{
				ID:    tc.ID,
				Name:  tc.Function.Name,
				Input: json.RawMessage(tc.Function.Arguments),
			})
		}
		return &Response{Kind: ResponseToolCalls, Calls: calls}, nil
	}
	return &Response{Kind: ResponseFinal, Text: choice.Message.Content}, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msg := openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
		if m.Role == "tool" {
			msg.ToolCallID = m.ToolCallID
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: string(tc.Input),
				},
			})
		}
		out = append(out, msg)
	}
	return out
}

func toOpenAITools(tools []ToolSchema) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  json.RawMessage(t.Parameters),
			},
		})
	}
	return out
}

func classifyOpenAIError(provider string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 429 {
			return newError("RATE_LIMITED", fmt.Sprintf("%s: rate limited: %v", provider, err))
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newError("TIMEOUT", fmt.Sprintf("%s: request timed out", provider))
	}
	return newError("UPSTREAM_ERROR", fmt.Sprintf("%s: %v", provider, err))
}
