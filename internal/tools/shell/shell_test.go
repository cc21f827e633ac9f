package shell

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
)

func runtimeWithShell(t *testing.T, injectionDetection bool) *config.Runtime {
	t.Helper()
	s := config.Defaults()
	s.Tools.ShellEnabled = true
	s.Tools.Workspace = t.TempDir()
	s.Tools.CommandInjectionDetectionEnabled = injectionDetection
	return config.NewRuntimeWithSettings(s)
}

func newContext() *agentstate.Context {
	return agentstate.New(&agentstate.AgentSession{}, agentstate.TurnBudget{MaxLLMCalls: 10, MaxToolExecutions: 10}, agentstate.UserPreferences{})
}

func TestExecuteRunsCommandAndCapturesOutput(t *testing.T) {
	tool := New(runtimeWithShell(t, false), 5*time.Second, nil)

	raw, _ := json.Marshal(map[string]any{"command": "echo hello"})
	result, err := tool.Execute(context.Background(), newContext(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Output != "hello\n" {
		t.Fatalf("expected captured stdout, got %q", result.Output)
	}
}

func TestExecuteTimesOutLongRunningCommand(t *testing.T) {
	tool := New(runtimeWithShell(t, false), 1*time.Second, nil)

	raw, _ := json.Marshal(map[string]any{"command": "sleep 5", "timeout_seconds": 1})
	result, err := tool.Execute(context.Background(), newContext(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.FailureKind != agentstate.FailureTimeout {
		t.Fatalf("expected TIMEOUT, got %+v", result)
	}
}

func TestExecuteRejectsEmptyCommand(t *testing.T) {
	tool := New(runtimeWithShell(t, false), 5*time.Second, nil)

	raw, _ := json.Marshal(map[string]any{"command": ""})
	result, err := tool.Execute(context.Background(), newContext(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.FailureKind != agentstate.FailureValidation {
		t.Fatalf("expected VALIDATION, got %+v", result)
	}
}

func TestClampTimeoutBoundsToMax(t *testing.T) {
	got := clampTimeout(600, 30*time.Second)
	if got != 30*time.Second {
		t.Fatalf("expected clamp to max 30s, got %s", got)
	}
	got = clampTimeout(0, 30*time.Second)
	if got != minTimeoutSeconds*time.Second {
		t.Fatalf("expected non-positive request to clamp to minimum, got %s", got)
	}
}
