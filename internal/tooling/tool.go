// Package tooling holds the Tool Registry (C1): the capability set
// every tool executor implements, and the thread-safe registry that
// the turn engine consults for dispatch and for the schema subset it
// shows the model.
//
// Grounded on internal/agent/tool_registry.go from the teacher repo,
// generalized from a flat name->Tool map into the capability-gated,
// schema-validating registry the spec requires.
package tooling

import (
	"context"
	"encoding/json"

	"github.com/agentcore/turnengine/internal/agentstate"
)

// Tool is the capability set every tool executor implements:
// definition (name/description/schema), an enable gate, and
// execution. Shared parameter parsing and schema validation live in
// helper functions (see registry.go), not in a base type — there is
// no inheritance hierarchy here, only composition.
type Tool interface {
	Name() string
	Description() string
	// Schema returns a JSON-Schema-like document describing the
	// tool's input parameters.
	Schema() json.RawMessage
	// IsEnabled reports whether the tool is currently callable for
	// the given turn context. Driven by Runtime Config (C9).
	IsEnabled(ctx *agentstate.Context) bool
	// Execute runs the tool. Implementations never panic into the
	// engine: every failure mode is represented in the returned
	// ToolResult's FailureKind.
	Execute(ctx context.Context, actx *agentstate.Context, params json.RawMessage) (*agentstate.ToolResult, error)
}

// Definition is the subset of a Tool's metadata shown to the LLM.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      json.RawMessage `json:"input_schema"`
}
