package sendvoice

import (
	"context"
	"testing"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
)

func runtimeWithVoice(t *testing.T) *config.Runtime {
	t.Helper()
	s := config.Defaults()
	s.Tools.VoiceToolEnabled = true
	s.Voice.Enabled = true
	return config.NewRuntimeWithSettings(s)
}

func TestSendVoiceSetsVoiceTextAndCompletesLoop(t *testing.T) {
	tool := New(runtimeWithVoice(t))
	actx := agentstate.New(&agentstate.AgentSession{}, agentstate.TurnBudget{MaxLLMCalls: 10, MaxToolExecutions: 10}, agentstate.UserPreferences{})

	result, err := tool.Execute(context.Background(), actx, []byte(`{"text":"hello there"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if !actx.LoopComplete() {
		t.Fatal("expected loop.complete to be set")
	}
	if actx.String(agentstate.AttrVoiceText) != "hello there" {
		t.Fatalf("expected voiceText=hello there, got %q", actx.String(agentstate.AttrVoiceText))
	}
}
