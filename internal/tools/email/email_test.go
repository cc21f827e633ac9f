package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
)

func runtimeWithSMTP(t *testing.T, username, password string) *config.Runtime {
	t.Helper()
	s := config.Defaults()
	s.Tools.EmailEnabled = true
	s.Tools.SMTP.Host = "smtp.example.com"
	s.Tools.SMTP.Port = 587
	s.Tools.SMTP.Username = username
	s.Tools.SMTP.Password = password
	return config.NewRuntimeWithSettings(s)
}

func newContext() *agentstate.Context {
	return agentstate.New(&agentstate.AgentSession{}, agentstate.TurnBudget{MaxLLMCalls: 10, MaxToolExecutions: 10}, agentstate.UserPreferences{})
}

func TestExecuteRejectsMalformedAddress(t *testing.T) {
	tool := New(runtimeWithSMTP(t, "bot@example.com", "secret"))

	raw, _ := json.Marshal(map[string]any{"operation": "send", "to": "not-an-address", "subject": "hi", "body": "hello"})
	result, err := tool.Execute(context.Background(), newContext(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.FailureKind != agentstate.FailureValidation {
		t.Fatalf("expected VALIDATION, got %+v", result)
	}
}

func TestExecuteSendsToAllRecipients(t *testing.T) {
	tool := New(runtimeWithSMTP(t, "bot@example.com", "secret"))
	var gotTo []string
	tool.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotTo = to
		return nil
	}

	raw, _ := json.Marshal(map[string]any{
		"operation": "send", "to": "a@example.com", "cc": "b@example.com",
		"subject": "hi", "body": "hello",
	})
	result, err := tool.Execute(context.Background(), newContext(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(gotTo) != 2 {
		t.Fatalf("expected to+cc recipients, got %v", gotTo)
	}
}

func TestExecuteSanitizesCredentialsOnFailure(t *testing.T) {
	tool := New(runtimeWithSMTP(t, "bot@example.com", "s3cr3t"))
	tool.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("auth failed for bot@example.com with password s3cr3t")
	}

	raw, _ := json.Marshal(map[string]any{"operation": "send", "to": "a@example.com", "subject": "hi", "body": "hello"})
	result, err := tool.Execute(context.Background(), newContext(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.FailureKind != agentstate.FailureUpstreamError {
		t.Fatalf("expected UPSTREAM_ERROR, got %+v", result)
	}
	if strings.Contains(result.Error, "s3cr3t") {
		t.Fatalf("expected password redacted from error, got %q", result.Error)
	}
	if strings.Contains(result.Error, "bot@example.com") {
		t.Fatalf("expected username redacted from error, got %q", result.Error)
	}
}
