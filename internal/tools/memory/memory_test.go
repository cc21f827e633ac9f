package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
	mem "github.com/agentcore/turnengine/internal/memory"
)

type fakeEmbeddings struct{}

func (fakeEmbeddings) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func runtimeWithMemory(t *testing.T) *config.Runtime {
	t.Helper()
	s := config.Defaults()
	s.Tools.MemoryEnabled = true
	s.Memory.PromotionMinConfidence = 0.75
	return config.NewRuntimeWithSettings(s)
}

func newEngine(t *testing.T) *mem.Engine {
	t.Helper()
	store, err := mem.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return mem.New(store, fakeEmbeddings{})
}

func newContext() *agentstate.Context {
	return agentstate.New(&agentstate.AgentSession{}, agentstate.TurnBudget{MaxLLMCalls: 10, MaxToolExecutions: 10}, agentstate.UserPreferences{})
}

func TestMemoryAddRejectsEmptyContent(t *testing.T) {
	tool := New(runtimeWithMemory(t), newEngine(t))

	raw, _ := json.Marshal(map[string]any{"operation": "memory_add", "content": ""})
	result, err := tool.Execute(context.Background(), newContext(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.FailureKind != agentstate.FailureValidation {
		t.Fatalf("expected VALIDATION, got %+v", result)
	}
}

func TestMemoryAddThenSearchFindsItem(t *testing.T) {
	tool := New(runtimeWithMemory(t), newEngine(t))
	actx := newContext()

	addRaw, _ := json.Marshal(map[string]any{"operation": "memory_add", "content": "the deploy key rotates monthly", "title": "deploy key"})
	result, err := tool.Execute(context.Background(), actx, addRaw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected memory_add success, got %+v", result)
	}

	searchRaw, _ := json.Marshal(map[string]any{"operation": "memory_search", "query": "deploy key"})
	result, err = tool.Execute(context.Background(), actx, searchRaw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.Data["count"].(int) == 0 {
		t.Fatalf("expected at least one search hit, got %+v", result)
	}
}

func TestMemoryPromoteRequiresExistingItem(t *testing.T) {
	tool := New(runtimeWithMemory(t), newEngine(t))

	raw, _ := json.Marshal(map[string]any{"operation": "memory_promote", "id": "does-not-exist"})
	result, err := tool.Execute(context.Background(), newContext(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.FailureKind != agentstate.FailureNotFound {
		t.Fatalf("expected NOT_FOUND, got %+v", result)
	}
}
