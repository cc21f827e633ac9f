// Package sendvoice implements the send_voice tool executor (C2)
// (spec.md §4.2).
package sendvoice

import (
	"context"
	"encoding/json"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
)

// Tool implements "send_voice": marks the turn's response for voice
// delivery, optionally overriding the spoken text.
type Tool struct {
	Runtime *config.Runtime
}

func New(rt *config.Runtime) *Tool {
	return &Tool{Runtime: rt}
}

func (t *Tool) Name() string        { return "send_voice" }
func (t *Tool) Description() string { return "Deliver the response as a voice message instead of text." }

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"text": {"type": "string"}
		}
	}`)
}

func (t *Tool) IsEnabled(actx *agentstate.Context) bool {
	return t.Runtime.Snapshot().IsVoiceToolEnabled()
}

type params struct {
	Text string `json:"text"`
}

func (t *Tool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	var p params
	if err := json.Unmarshal(raw, &p); err != nil {
		return agentstate.Fail(agentstate.FailureValidation, "invalid parameters: "+err.Error()), nil
	}
	actx.SetVoiceResponse(p.Text)
	return agentstate.Ok("voice response requested", nil), nil
}
