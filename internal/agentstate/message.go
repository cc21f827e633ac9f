// Package agentstate defines the core data model shared by the turn
// engine, the tool registry, and every tool executor: sessions,
// per-turn context, messages, tool calls/results, attachments, and
// turn budgets.
package agentstate

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in a turn's conversation. Messages are
// append-only within a turn.
type Message struct {
	ID         string     `json:"id"`
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // set on Role==RoleTool
	CreatedAt  time.Time  `json:"created_at"`
}

// ToolCall is a structured request issued by the LLM to invoke a
// named tool with an argument mapping.
type ToolCall struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// FailureKind classifies why a tool execution did not succeed.
type FailureKind string

const (
	FailureValidation     FailureKind = "VALIDATION"
	FailurePolicyDenied   FailureKind = "POLICY_DENIED"
	FailureRateLimited    FailureKind = "RATE_LIMITED"
	FailureTimeout        FailureKind = "TIMEOUT"
	FailureUpstreamError  FailureKind = "UPSTREAM_ERROR"
	FailureDisabled       FailureKind = "DISABLED"
	FailureNotFound       FailureKind = "NOT_FOUND"
	FailureInternalError  FailureKind = "INTERNAL_ERROR"
)

// ToolResult is the outcome of one tool execution. Invariant:
// Success implies Error == "" and FailureKind == ""; !Success implies
// FailureKind != "".
type ToolResult struct {
	Success     bool           `json:"success"`
	Output      string         `json:"output"`
	Error       string         `json:"error,omitempty"`
	FailureKind FailureKind    `json:"failure_kind,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	DurationMS  int64          `json:"duration_ms,omitempty"`
}

// Ok builds a successful ToolResult.
func Ok(output string, data map[string]any) *ToolResult {
	return &ToolResult{Success: true, Output: output, Data: data}
}

// Fail builds a failed ToolResult. Panics in development builds would
// be wrong here: callers must always supply a FailureKind so the
// invariant holds.
func Fail(kind FailureKind, err string) *ToolResult {
	return &ToolResult{Success: false, Error: err, FailureKind: kind}
}

// AttachmentType enumerates the kinds of file Attachment a tool can
// produce.
type AttachmentType string

const (
	AttachmentImage    AttachmentType = "IMAGE"
	AttachmentDocument AttachmentType = "DOCUMENT"
	AttachmentAudio    AttachmentType = "AUDIO"
	AttachmentVideo    AttachmentType = "VIDEO"
)

// Attachment is an immutable file artifact produced by a tool (e.g.
// send_file, screenshot, voice response) and surfaced on the turn
// result.
type Attachment struct {
	Type     AttachmentType `json:"type"`
	Filename string         `json:"filename"`
	MimeType string         `json:"mime_type"`
	Bytes    []byte         `json:"-"`
}

// Milestone is a structured event emitted when a task or goal
// changes lifecycle state, or when the turn engine terminates on a
// budget/deadline.
type Milestone struct {
	Kind      string         `json:"kind"`
	Subject   string         `json:"subject"`
	Detail    string         `json:"detail,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
