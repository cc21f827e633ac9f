package tooling

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/agentcore/turnengine/internal/agentstate"
)

// Registry holds named tools, their schemas, and enable gates.
// Grounded on internal/agent/tool_registry.go (ToolRegistry), with
// List/DescribeForLLM/Execute generalized to accept a per-turn agentstate.Context so
// tools can consult session-scoped capabilities and the registry can
// enforce the DISABLED invariant without each tool repeating it.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	schemas map[string]*jsonschema.Schema
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		schemas: make(map[string]*jsonschema.Schema),
	}
}

// Register adds a tool, replacing any existing tool of the same
// name. The tool's schema is compiled eagerly so a malformed schema
// fails at startup rather than on first invocation.
func (r *Registry) Register(tool Tool) error {
	compiled, err := compileSchema(tool.Name(), tool.Schema())
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
	r.schemas[tool.Name()] = compiled
	return nil
}

// MustRegister panics on a compile error; used at process wiring
// time where a bad schema is a programming bug, not a runtime
// condition.
func (r *Registry) MustRegister(tool Tool) {
	if err := r.Register(tool); err != nil {
		panic(err)
	}
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns the tools currently enabled for the active context.
func (r *Registry) List(actx *agentstate.Context) []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		if t.IsEnabled(actx) {
			out = append(out, t)
		}
	}
	return out
}

// DescribeForLLM returns the schemas of tools enabled for the
// active context — the subset shown to the model. A disabled tool
// never appears here (§4.1 invariant).
func (r *Registry) DescribeForLLM(actx *agentstate.Context) []Definition {
	tools := r.List(actx)
	out := make([]Definition, 0, len(tools))
	for _, t := range tools {
		out = append(out, Definition{
			Name:        t.Name(),
			Description: t.Description(),
			Schema:      t.Schema(),
		})
	}
	return out
}

// Execute runs a tool by name. If the tool does not exist, NOT_FOUND
// is returned. If the tool exists but is not enabled, DISABLED is
// returned without invoking the executor (§4.1 invariant: a disabled
// tool invoked anyway never runs). If the parameters fail schema
// validation, VALIDATION is returned before the executor runs.
func (r *Registry) Execute(ctx context.Context, actx *agentstate.Context, name string, params json.RawMessage) *agentstate.ToolResult {
	r.mu.RLock()
	tool, ok := r.tools[name]
	schema := r.schemas[name]
	r.mu.RUnlock()

	if !ok {
		return agentstate.Fail(agentstate.FailureNotFound, "tool not found: "+name)
	}
	if !tool.IsEnabled(actx) {
		return agentstate.Fail(agentstate.FailureDisabled, "tool disabled: "+name)
	}
	if len(params) == 0 {
		params = json.RawMessage(`{}`)
	}
	if err := validateParams(schema, params); err != nil {
		return agentstate.Fail(agentstate.FailureValidation, err.Error())
	}

	result, err := tool.Execute(ctx, actx, params)
	if err != nil {
		return agentstate.Fail(agentstate.FailureInternalError, err.Error())
	}
	if result == nil {
		return agentstate.Fail(agentstate.FailureInternalError, "tool returned no result: "+name)
	}
	return result
}

func compileSchema(name string, raw json.RawMessage) (*jsonschema.Schema, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("tool %s: invalid schema json: %w", name, err)
	}
	compiler := jsonschema.NewCompiler()
	resource := "tool://" + name + "/schema.json"
	if err := compiler.AddResource(resource, bytesReader(raw)); err != nil {
		return nil, fmt.Errorf("tool %s: add schema resource: %w", name, err)
	}
	schema, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("tool %s: compile schema: %w", name, err)
	}
	return schema, nil
}

func validateParams(schema *jsonschema.Schema, params json.RawMessage) error {
	if schema == nil {
		return nil
	}
	var doc any
	if err := json.Unmarshal(params, &doc); err != nil {
		return fmt.Errorf("parameters must be valid JSON: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("parameters must be a mapping, got null")
	}
	if _, isMap := doc.(map[string]any); !isMap {
		return fmt.Errorf("parameters must be a mapping")
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}
