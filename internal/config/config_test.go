package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, "tools:\n  shell_enabled: true\n")
	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if settings.Turn.MaxLLMCalls != 200 {
		t.Errorf("expected default MaxLLMCalls=200, got %d", settings.Turn.MaxLLMCalls)
	}
	if settings.Turn.MaxToolExecutions != 500 {
		t.Errorf("expected default MaxToolExecutions=500, got %d", settings.Turn.MaxToolExecutions)
	}
	if settings.Turn.Deadline != "PT1H" {
		t.Errorf("expected default Deadline=PT1H, got %q", settings.Turn.Deadline)
	}
	if !settings.Tools.ShellEnabled {
		t.Errorf("expected shell_enabled to be overridden to true")
	}
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_BRAVE_KEY", "secret-key")
	path := writeTempConfig(t, "tools:\n  brave_search_api_key: \"${TEST_BRAVE_KEY}\"\n")
	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if settings.Tools.BraveSearchAPIKey != "secret-key" {
		t.Errorf("expected env var expansion, got %q", settings.Tools.BraveSearchAPIKey)
	}
}

func TestRuntimeSnapshotIsStableAcrossReload(t *testing.T) {
	path := writeTempConfig(t, "tools:\n  shell_enabled: false\n")
	rt, err := NewRuntime(path, nil)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	snap := rt.Snapshot()
	if snap.IsShellEnabled() {
		t.Errorf("expected shell disabled in initial snapshot")
	}

	if err := os.WriteFile(path, []byte("tools:\n  shell_enabled: true\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	// Without invoking reload, the held snapshot must not change.
	if snap.IsShellEnabled() {
		t.Errorf("expected held snapshot to remain unaffected by file change until reload")
	}
}

func TestProviderConfigAPIKeyPresentNeverEchoesSecret(t *testing.T) {
	p := ProviderConfig{APIKey: "sk-super-secret"}
	if !p.APIKeyPresent() {
		t.Errorf("expected APIKeyPresent true")
	}
}
