package datetime

import (
	"context"
	"testing"
	"time"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
)

func runtimeWithDatetime(t *testing.T) *config.Runtime {
	t.Helper()
	s := config.Defaults()
	s.Tools.DatetimeEnabled = true
	return config.NewRuntimeWithSettings(s)
}

func newContext() *agentstate.Context {
	return agentstate.New(&agentstate.AgentSession{}, agentstate.TurnBudget{MaxLLMCalls: 10, MaxToolExecutions: 10}, agentstate.UserPreferences{})
}

func TestExecuteReportsRequestedTimezone(t *testing.T) {
	tool := New(runtimeWithDatetime(t))
	tool.Now = func() time.Time { return time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC) }

	result, err := tool.Execute(context.Background(), newContext(), []byte(`{"timezone":"Asia/Tokyo"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Data["timezone"] != "Asia/Tokyo" {
		t.Fatalf("expected data.timezone=Asia/Tokyo, got %v", result.Data["timezone"])
	}
}

func TestExecuteRejectsUnknownTimezone(t *testing.T) {
	tool := New(runtimeWithDatetime(t))
	result, err := tool.Execute(context.Background(), newContext(), []byte(`{"timezone":"Not/ARealZone"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.FailureKind != agentstate.FailureValidation {
		t.Fatalf("expected VALIDATION, got %+v", result)
	}
}

func TestExecuteDefaultsToUTCWhenNoTimezoneGiven(t *testing.T) {
	tool := New(runtimeWithDatetime(t))
	result, err := tool.Execute(context.Background(), newContext(), []byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Data["timezone"] != "UTC" {
		t.Fatalf("expected data.timezone=UTC, got %v", result.Data["timezone"])
	}
}
