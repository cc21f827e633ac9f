// Package llm implements the LLM Client (C6): a provider-agnostic
// request/response contract plus concrete clients for an
// OpenAI-compatible endpoint and for Anthropic.
//
// Grounded on internal/agent/provider_types.go's LLMProvider
// interface, collapsed from a streaming-chunk channel contract to
// the spec's simpler call/response shape (the spec does not require
// token-level streaming — see spec.md Non-goals).
package llm

import (
	"context"
	"encoding/json"
	"time"
)

// ResponseKind discriminates an LlmResponse.
type ResponseKind string

const (
	ResponseFinal     ResponseKind = "FINAL"
	ResponseToolCalls ResponseKind = "TOOL_CALLS"
)

// ToolCallRequest is one tool invocation the model asked for.
type ToolCallRequest struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// Response is the client's answer to one Call: either a terminal
// message or a set of tool-call requests.
type Response struct {
	Kind  ResponseKind
	Text  string
	Calls []ToolCallRequest
}

// Message is one entry in the conversation sent to the provider.
type Message struct {
	Role       string // system, user, assistant, tool
	Content    string
	ToolCalls  []ToolCallRequest // set when Role == assistant and the turn re-sends its own prior calls
	ToolCallID string            // set when Role == tool
}

// ToolSchema describes one callable tool for the provider's function
// calling surface.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// Client is the contract every concrete provider client satisfies
// (§4.6). Implementations must be safe for concurrent use.
type Client interface {
	// Call sends one completion request and returns either a final
	// message or a set of tool-call requests. reasoning is the
	// model's reasoning effort when the model supports it; empty
	// means "default". timeout bounds the whole call as an outer
	// deadline. The turn engine passes a fixed 300 seconds;
	// ProviderConfig.RequestTimeoutSeconds is not consulted.
	Call(ctx context.Context, model string, messages []Message, tools []ToolSchema, reasoning string, temperature float64, timeout time.Duration) (*Response, error)
}

// Error classifies an LLM client failure so callers can map it onto
// agentstate.FailureKind without inspecting error strings.
type Error struct {
	Kind    string // UPSTREAM_ERROR, TIMEOUT, RATE_LIMITED
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind, message string) *Error { return &Error{Kind: kind, Message: message} }
