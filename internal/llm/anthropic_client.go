package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient serves Claude models via the first-party SDK.
//
// Grounded on internal/agent/providers/anthropic.go's AnthropicProvider,
// collapsed from its streaming SSE contract (Messages.NewStreaming) to
// a single non-streaming Messages.New call matching this package's
// Client contract.
type AnthropicClient struct {
	inner anthropic.Client
}

// NewAnthropicClient constructs a client against apiKey, optionally
// overriding the default Anthropic base URL.
func NewAnthropicClient(apiKey, baseURL string) *AnthropicClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicClient{inner: anthropic.NewClient(opts...)}
}

func (c *AnthropicClient) Call(ctx context.Context, model string, messages []Message, tools []ToolSchema, reasoning string, temperature float64, timeout time.Duration) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	system, converted, err := convertAnthropicMessages(messages)
	if err != nil {
		return nil, newError("UPSTREAM_ERROR", fmt.Sprintf("anthropic: %v", err))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		Messages:  converted,
		MaxTokens: 4096,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if reasoning != "" {
		// Claude has no discrete reasoning-effort knob; extended
		// thinking is the closest analogue, enabled with a fixed
		// budget when a non-empty reasoning tier is requested.
		params.Thinking = anthropic.ThinkingConfigParamOfEnabled(8000)
	} else {
		params.Temperature = anthropic.Float(temperature)
	}
	if len(tools) > 0 {
		params.Tools = convertAnthropicTools(tools)
	}

	msg, err := c.inner.Messages.New(ctx, params)
	if err != nil {
		return nil, classifyAnthropicError(err)
	}

	var text string
	var calls []ToolCallRequest
	for _, block := range msg.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			text += variant.Text
		case anthropic.ToolUseBlock:
			calls = append(calls, ToolCallRequest{
				ID:    variant.ID,
				Name:  variant.Name,
				Input: json.RawMessage(variant.Input),
			})
		}
	}
	if len(calls) > 0 {
		return &Response{Kind: ResponseToolCalls, Calls: calls}, nil
	}
	return &Response{Kind: ResponseFinal, Text: text}, nil
}

func convertAnthropicMessages(messages []Message) (string, []anthropic.MessageParam, error) {
	var system string
	var out []anthropic.MessageParam
	for _, m := range messages {
		if m.Role == "system" {
			system += m.Content
			continue
		}
		var content []anthropic.ContentBlockParamUnion
		switch {
		case m.Role == "tool":
			content = append(content, anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false))
		case len(m.ToolCalls) > 0:
			if m.Content != "" {
				content = append(content, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				var input any
				if err := json.Unmarshal(tc.Input, &input); err != nil {
					return "", nil, fmt.Errorf("decode tool call input: %w", err)
				}
				content = append(content, anthropic.NewToolUseBlock(tc.ID, input, tc.Name))
			}
		default:
			content = append(content, anthropic.NewTextBlock(m.Content))
		}

		var param anthropic.MessageParam
		if m.Role == "assistant" {
			param = anthropic.NewAssistantMessage(content...)
		} else {
			param = anthropic.NewUserMessage(content...)
		}
		out = append(out, param)
	}
	return system, out, nil
}

func convertAnthropicTools(tools []ToolSchema) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		var schema anthropic.ToolInputSchemaParam
		_ = json.Unmarshal(t.Parameters, &schema)
		toolParam := anthropic.ToolUnionParamOfTool(schema, t.Name)
		toolParam.OfTool.Description = anthropic.String(t.Description)
		out = append(out, toolParam)
	}
	return out
}

func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 429 {
			return newError("RATE_LIMITED", fmt.Sprintf("anthropic: rate limited: %v", err))
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newError("TIMEOUT", "anthropic: request timed out")
	}
	return newError("UPSTREAM_ERROR", fmt.Sprintf("anthropic: %v", err))
}
