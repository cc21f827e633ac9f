package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBaseURLForKnownProvider(t *testing.T) {
	url, ok := BaseURLFor("groq", "")
	if !ok {
		t.Fatalf("expected groq to be known")
	}
	if url != "https://api.groq.com/openai/v1" {
		t.Errorf("unexpected base URL: %q", url)
	}
}

func TestBaseURLForOverrideWins(t *testing.T) {
	url, ok := BaseURLFor("openai", "https://custom.example.com/v1")
	if !ok {
		t.Fatalf("expected override to resolve")
	}
	if url != "https://custom.example.com/v1" {
		t.Errorf("expected override to win, got %q", url)
	}
}

func TestBaseURLForUnknownProviderNoOverride(t *testing.T) {
	if _, ok := BaseURLFor("acme-llm", ""); ok {
		t.Errorf("expected unknown provider without override to be unresolved")
	}
}

func TestSplitModel(t *testing.T) {
	provider, model := SplitModel("openrouter/anthropic/claude-3.5-sonnet")
	if provider != "openrouter" {
		t.Errorf("expected provider openrouter, got %q", provider)
	}
	if model != "anthropic/claude-3.5-sonnet" {
		t.Errorf("expected remainder to keep embedded slash, got %q", model)
	}
}

func TestNewRegistryGoogleResolvesToStub(t *testing.T) {
	reg, err := NewRegistry(map[string]ProviderCredentials{
		"google": {APIKey: "key"},
	})
	if err != nil {
		t.Fatalf("expected google entry to resolve to a stub client, got error: %v", err)
	}
	client, err := reg.Get("google")
	if err != nil {
		t.Fatalf("Get(google): %v", err)
	}
	_, callErr := client.Call(context.Background(), "gemini-pro", nil, nil, "", 0, time.Second)
	if callErr == nil {
		t.Fatalf("expected google stub to fail every call")
	}
	var llmErr *Error
	if !errors.As(callErr, &llmErr) || llmErr.Kind != "UPSTREAM_ERROR" {
		t.Errorf("expected UPSTREAM_ERROR, got %v", callErr)
	}
}

func TestNewRegistryRejectsUnknownProviderWithoutOverride(t *testing.T) {
	_, err := NewRegistry(map[string]ProviderCredentials{
		"mystery": {APIKey: "key"},
	})
	if err == nil {
		t.Fatalf("expected unknown provider without base_url override to be rejected")
	}
}

func TestNewRegistryAcceptsKnownAndAnthropic(t *testing.T) {
	reg, err := NewRegistry(map[string]ProviderCredentials{
		"openai":    {APIKey: "sk-test"},
		"anthropic": {APIKey: "sk-ant-test"},
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if _, err := reg.Get("openai"); err != nil {
		t.Errorf("expected openai client: %v", err)
	}
	if _, err := reg.Get("anthropic"); err != nil {
		t.Errorf("expected anthropic client: %v", err)
	}
	if _, err := reg.Get("missing"); err == nil {
		t.Errorf("expected missing provider to error")
	}
}
