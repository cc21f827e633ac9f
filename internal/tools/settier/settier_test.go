package settier

import (
	"context"
	"testing"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
)

func runtimeWithTier(t *testing.T) *config.Runtime {
	t.Helper()
	s := config.Defaults()
	s.Tools.TierToolEnabled = true
	return config.NewRuntimeWithSettings(s)
}

func TestSetTierUpdatesContext(t *testing.T) {
	tool := New(runtimeWithTier(t))
	actx := agentstate.New(&agentstate.AgentSession{}, agentstate.TurnBudget{MaxLLMCalls: 10, MaxToolExecutions: 10}, agentstate.UserPreferences{})

	result, err := tool.Execute(context.Background(), actx, []byte(`{"tier":"deep"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if actx.ModelTier != agentstate.TierDeep {
		t.Fatalf("expected ModelTier=deep, got %s", actx.ModelTier)
	}
}

func TestSetTierRejectsInvalidTier(t *testing.T) {
	tool := New(runtimeWithTier(t))
	actx := agentstate.New(&agentstate.AgentSession{}, agentstate.TurnBudget{MaxLLMCalls: 10, MaxToolExecutions: 10}, agentstate.UserPreferences{})

	result, err := tool.Execute(context.Background(), actx, []byte(`{"tier":"routing"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.FailureKind != agentstate.FailureValidation {
		t.Fatalf("expected VALIDATION (routing is not a settable tier), got %+v", result)
	}
}

func TestSetTierDeniedWhenForced(t *testing.T) {
	tool := New(runtimeWithTier(t))
	actx := agentstate.New(&agentstate.AgentSession{}, agentstate.TurnBudget{MaxLLMCalls: 10, MaxToolExecutions: 10}, agentstate.UserPreferences{TierForce: true})

	result, err := tool.Execute(context.Background(), actx, []byte(`{"tier":"deep"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.FailureKind != agentstate.FailurePolicyDenied {
		t.Fatalf("expected POLICY_DENIED, got %+v", result)
	}
}
