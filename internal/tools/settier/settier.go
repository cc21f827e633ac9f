// Package settier implements the set_tier tool executor (C2)
// (spec.md §4.2).
package settier

import (
	"context"
	"encoding/json"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
)

// Tool implements "set_tier": lets the model pin the tier used for the
// rest of the turn's LLM calls, unless the user has forced a tier.
type Tool struct {
	Runtime *config.Runtime
}

func New(rt *config.Runtime) *Tool {
	return &Tool{Runtime: rt}
}

func (t *Tool) Name() string        { return "set_tier" }
func (t *Tool) Description() string { return "Override the model tier used for the rest of this turn." }

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"tier": {"type": "string", "enum": ["balanced", "smart", "coding", "deep"]}
		},
		"required": ["tier"]
	}`)
}

func (t *Tool) IsEnabled(actx *agentstate.Context) bool {
	return t.Runtime.Snapshot().IsTierToolEnabled()
}

type params struct {
	Tier string `json:"tier"`
}

var validTiers = map[agentstate.ModelTier]bool{
	agentstate.TierBalanced: true,
	agentstate.TierSmart:    true,
	agentstate.TierCoding:   true,
	agentstate.TierDeep:     true,
}

func (t *Tool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	if actx.Preferences.TierForce {
		return agentstate.Fail(agentstate.FailurePolicyDenied, "the active tier is pinned by user preference"), nil
	}

	var p params
	if err := json.Unmarshal(raw, &p); err != nil {
		return agentstate.Fail(agentstate.FailureValidation, "invalid parameters: "+err.Error()), nil
	}
	tier := agentstate.ModelTier(p.Tier)
	if !validTiers[tier] {
		return agentstate.Fail(agentstate.FailureValidation, "tier must be one of balanced, smart, coding, deep"), nil
	}

	actx.SetModelTier(tier)
	return agentstate.Ok("tier set to "+p.Tier, nil), nil
}
