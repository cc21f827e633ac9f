package skilltransition

import (
	"context"
	"testing"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
	"github.com/agentcore/turnengine/internal/skill"
)

func newContext() *agentstate.Context {
	return agentstate.New(&agentstate.AgentSession{}, agentstate.TurnBudget{MaxLLMCalls: 10, MaxToolExecutions: 10}, agentstate.UserPreferences{})
}

func TestTransitionToAvailableSkillSucceeds(t *testing.T) {
	skills := skill.NewRegistry(skill.Skill{Name: "coder", Available: true})
	tool := New(config.NewRuntimeWithSettings(config.Defaults()), skills)
	actx := newContext()

	result, err := tool.Execute(context.Background(), actx, []byte(`{"target_skill":"coder","reason":"needs code"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if actx.SkillTransition == nil || actx.SkillTransition.TargetSkill != "coder" {
		t.Fatalf("expected pending transition to coder, got %+v", actx.SkillTransition)
	}
}

func TestTransitionToUnknownSkillIsNotFound(t *testing.T) {
	skills := skill.NewRegistry()
	tool := New(config.NewRuntimeWithSettings(config.Defaults()), skills)

	result, err := tool.Execute(context.Background(), newContext(), []byte(`{"target_skill":"ghost"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.FailureKind != agentstate.FailureNotFound {
		t.Fatalf("expected NOT_FOUND, got %+v", result)
	}
}

func TestTransitionToUnavailableSkillIsValidationError(t *testing.T) {
	skills := skill.NewRegistry(skill.Skill{Name: "retired", Available: false})
	tool := New(config.NewRuntimeWithSettings(config.Defaults()), skills)

	result, err := tool.Execute(context.Background(), newContext(), []byte(`{"target_skill":"retired"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.FailureKind != agentstate.FailureValidation {
		t.Fatalf("expected VALIDATION, got %+v", result)
	}
}
