// Package plan implements the plan_get / plan_set_content /
// plan_finalize tool executors (C2), gated by the Plan Service (C10,
// internal/plan) (spec.md §4.2, §4.10).
package plan

import (
	"context"
	"encoding/json"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
	planservice "github.com/agentcore/turnengine/internal/plan"
)

const finalizedOutput = "[Plan finalized]"

// GetTool implements "plan_get".
type GetTool struct {
	Runtime *config.Runtime
	Service *planservice.Service
}

func NewGetTool(rt *config.Runtime, svc *planservice.Service) *GetTool {
	return &GetTool{Runtime: rt, Service: svc}
}

func (t *GetTool) Name() string        { return "plan_get" }
func (t *GetTool) Description() string { return "Read the current plan-mode markdown content." }
func (t *GetTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}
func (t *GetTool) IsEnabled(actx *agentstate.Context) bool { return t.Runtime.Snapshot().IsPlanEnabled() }

func (t *GetTool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	sessionID := sessionIDOf(actx)
	if !t.Service.IsActive(sessionID) {
		return agentstate.Fail(agentstate.FailurePolicyDenied, "plan mode is not active"), nil
	}
	return agentstate.Ok(t.Service.Content(sessionID), nil), nil
}

// SetContentTool implements "plan_set_content".
type SetContentTool struct {
	Runtime *config.Runtime
	Service *planservice.Service
}

func NewSetContentTool(rt *config.Runtime, svc *planservice.Service) *SetContentTool {
	return &SetContentTool{Runtime: rt, Service: svc}
}

func (t *SetContentTool) Name() string        { return "plan_set_content" }
func (t *SetContentTool) Description() string { return "Replace the current plan-mode markdown content." }
func (t *SetContentTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {"content": {"type": "string"}}, "required": ["content"]}`)
}
func (t *SetContentTool) IsEnabled(actx *agentstate.Context) bool {
	return t.Runtime.Snapshot().IsPlanEnabled()
}

type setContentParams struct {
	Content string `json:"content"`
}

func (t *SetContentTool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	sessionID := sessionIDOf(actx)
	if !t.Service.IsActive(sessionID) {
		return agentstate.Fail(agentstate.FailurePolicyDenied, "plan mode is not active"), nil
	}
	var p setContentParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return agentstate.Fail(agentstate.FailureValidation, "invalid parameters: "+err.Error()), nil
	}
	t.Service.SetContent(sessionID, p.Content)
	return agentstate.Ok("plan content updated", nil), nil
}

// FinalizeTool implements "plan_finalize".
type FinalizeTool struct {
	Runtime *config.Runtime
	Service *planservice.Service
}

func NewFinalizeTool(rt *config.Runtime, svc *planservice.Service) *FinalizeTool {
	return &FinalizeTool{Runtime: rt, Service: svc}
}

func (t *FinalizeTool) Name() string        { return "plan_finalize" }
func (t *FinalizeTool) Description() string { return "Finalize the plan and exit plan mode." }
func (t *FinalizeTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}
func (t *FinalizeTool) IsEnabled(actx *agentstate.Context) bool {
	return t.Runtime.Snapshot().IsPlanEnabled()
}

func (t *FinalizeTool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	sessionID := sessionIDOf(actx)
	if !t.Service.IsActive(sessionID) {
		return agentstate.Fail(agentstate.FailurePolicyDenied, "plan mode is not active"), nil
	}
	t.Service.Finalize(sessionID)
	return agentstate.Ok(finalizedOutput, nil), nil
}

func sessionIDOf(actx *agentstate.Context) string {
	if actx.Session == nil {
		return ""
	}
	return actx.Session.ID
}
