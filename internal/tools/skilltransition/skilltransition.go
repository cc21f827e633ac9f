// Package skilltransition implements the skill_transition tool
// executor (C2) (spec.md §4.2).
package skilltransition

import (
	"context"
	"encoding/json"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
	"github.com/agentcore/turnengine/internal/skill"
)

// Tool implements the "skill_transition" tool executor.
type Tool struct {
	Runtime *config.Runtime
	Skills  *skill.Registry
}

func New(rt *config.Runtime, skills *skill.Registry) *Tool {
	return &Tool{Runtime: rt, Skills: skills}
}

func (t *Tool) Name() string        { return "skill_transition" }
func (t *Tool) Description() string { return "Request a switch to a different named skill for subsequent turns." }

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"target_skill": {"type": "string"},
			"reason": {"type": "string"}
		},
		"required": ["target_skill"]
	}`)
}

func (t *Tool) IsEnabled(actx *agentstate.Context) bool { return true }

type params struct {
	TargetSkill string `json:"target_skill"`
	Reason      string `json:"reason"`
}

func (t *Tool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	if actx == nil {
		return agentstate.Fail(agentstate.FailureInternalError, "No agent context"), nil
	}

	var p params
	if err := json.Unmarshal(raw, &p); err != nil {
		return agentstate.Fail(agentstate.FailureValidation, "invalid parameters: "+err.Error()), nil
	}
	if p.TargetSkill == "" {
		return agentstate.Fail(agentstate.FailureValidation, "target_skill is required"), nil
	}
	if !skill.NamePattern.MatchString(p.TargetSkill) {
		return agentstate.Fail(agentstate.FailureValidation, "target_skill has an invalid name"), nil
	}

	s, ok := t.Skills.Get(p.TargetSkill)
	if !ok {
		return agentstate.Fail(agentstate.FailureNotFound, "skill not found: "+p.TargetSkill), nil
	}
	if !s.Available {
		return agentstate.Fail(agentstate.FailureValidation, "skill is not available: "+p.TargetSkill), nil
	}

	actx.RequestSkillTransition(p.TargetSkill, p.Reason)
	return agentstate.Ok("requested transition to "+p.TargetSkill, nil), nil
}
