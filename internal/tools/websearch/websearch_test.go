package websearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/backoff"
	"github.com/agentcore/turnengine/internal/config"
)

type scriptedDoer struct {
	statuses []int
	calls    int
}

func (d *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	status := d.statuses[d.calls]
	d.calls++
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(`{"web":{"results":[]}}`))}, nil
}

func newContext() *agentstate.Context {
	return agentstate.New(&agentstate.AgentSession{}, agentstate.TurnBudget{MaxLLMCalls: 10, MaxToolExecutions: 10}, agentstate.UserPreferences{})
}

func runtimeWithSearch(t *testing.T, key string) *config.Runtime {
	t.Helper()
	s := config.Defaults()
	s.Tools.WebSearchEnabled = true
	s.Tools.BraveSearchAPIKey = key
	return config.NewRuntimeWithSettings(s)
}

func TestSucceedsOnFourthAttemptAfterThreeRateLimits(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{429, 429, 429, 200}}
	tool := &Tool{Runtime: runtimeWithSearch(t, "key"), Client: doer, Policy: backoff.BackoffPolicy{InitialMs: 1, MaxMs: 2, Factor: 1, Jitter: 0}}

	result, err := tool.Execute(context.Background(), newContext(), json.RawMessage(`{"query":"go"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if doer.calls != 4 {
		t.Fatalf("expected 4 upstream calls, got %d", doer.calls)
	}
}

func TestRateLimitedOnExhaustion(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{429, 429, 429, 429}}
	tool := &Tool{Runtime: runtimeWithSearch(t, "key"), Client: doer, Policy: backoff.BackoffPolicy{InitialMs: 1, MaxMs: 2, Factor: 1, Jitter: 0}}

	result, err := tool.Execute(context.Background(), newContext(), json.RawMessage(`{"query":"go"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.FailureKind != agentstate.FailureRateLimited {
		t.Fatalf("expected RATE_LIMITED, got %+v", result)
	}
	if doer.calls != 4 {
		t.Fatalf("expected 4 upstream calls, got %d", doer.calls)
	}
}

func TestClampCount(t *testing.T) {
	if c := clampCount(50); c != maxCount {
		t.Fatalf("expected clamp to %d, got %d", maxCount, c)
	}
	if c := clampCount(0); c != 10 {
		t.Fatalf("expected default 10, got %d", c)
	}
}
