// Package shell implements the shell tool executor (C2): a single
// command string run via a platform shell inside the workspace, with
// the Injection Guard (C3), a clamped timeout, and a process-group
// kill on expiry (spec.md §4.2).
//
// Grounded on the teacher's exec-tool idiom generalized onto this
// spec's contracts, and on internal/exec's argument/executable safety
// helpers and internal/security's command-injection denylist.
package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"syscall"
	"time"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
	"github.com/agentcore/turnengine/internal/security"
	"github.com/agentcore/turnengine/internal/tools/workspace"
)

const (
	minTimeoutSeconds = 1
	deniedLDPreload    = "LD_PRELOAD"
)

// Tool implements the "shell" tool executor.
type Tool struct {
	Runtime     *config.Runtime
	MaxTimeout  time.Duration
	EnvAllowlist []string
}

// New builds the shell tool. maxTimeout bounds the clamp range;
// envAllowlist names the environment variables propagated to the
// child process (PATH is always kept, LD_PRELOAD always stripped).
func New(rt *config.Runtime, maxTimeout time.Duration, envAllowlist []string) *Tool {
	if maxTimeout <= 0 {
		maxTimeout = 120 * time.Second
	}
	return &Tool{Runtime: rt, MaxTimeout: maxTimeout, EnvAllowlist: envAllowlist}
}

func (t *Tool) Name() string        { return "shell" }
func (t *Tool) Description() string { return "Execute a single shell command inside the agent's workspace." }

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"command": {"type": "string"},
			"timeout_seconds": {"type": "integer"}
		},
		"required": ["command"]
	}`)
}

func (t *Tool) IsEnabled(actx *agentstate.Context) bool {
	return t.Runtime.Snapshot().IsShellEnabled()
}

type params struct {
	Command        string `json:"command"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func (t *Tool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	var p params
	if err := json.Unmarshal(raw, &p); err != nil {
		return agentstate.Fail(agentstate.FailureValidation, "invalid parameters: "+err.Error()), nil
	}
	if p.Command == "" {
		return agentstate.Fail(agentstate.FailureValidation, "command is required"), nil
	}

	snap := t.Runtime.Snapshot()
	if snap.IsCommandInjectionDetectionEnabled() {
		if finding := security.CheckCommand(p.Command); finding != nil {
			return agentstate.Fail(agentstate.FailurePolicyDenied, "blocked: "+finding.Pattern), nil
		}
	}

	root := snap.Workspace()
	workdir, err := workspace.Resolve(root, "")
	if err != nil {
		return agentstate.Fail(agentstate.FailureValidation, err.Error()), nil
	}

	timeout := clampTimeout(p.TimeoutSeconds, t.MaxTimeout)
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := shellCommand(runCtx, p.Command)
	cmd.Dir = workdir
	cmd.Env = filterEnv(t.EnvAllowlist)
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	output := stdout.String()
	if stderr.Len() > 0 {
		output += "\n" + stderr.String()
	}

	if runCtx.Err() != nil {
		killProcessGroup(cmd)
		return agentstate.Fail(agentstate.FailureTimeout, fmt.Sprintf("command timed out after %s", timeout)), nil
	}

	output = security.AnnotateIfFlagged(output)

	if runErr != nil {
		return &agentstate.ToolResult{
			Success: false, Output: output, Error: runErr.Error(),
			FailureKind: agentstate.FailureUpstreamError,
			Data:        map[string]any{"duration_ms": elapsed.Milliseconds()},
		}, nil
	}
	return agentstate.Ok(output, map[string]any{"duration_ms": elapsed.Milliseconds()}), nil
}

func clampTimeout(requested int, max time.Duration) time.Duration {
	maxSeconds := int(max / time.Second)
	if requested <= 0 {
		requested = minTimeoutSeconds
	}
	if requested > maxSeconds {
		requested = maxSeconds
	}
	return time.Duration(requested) * time.Second
}

func filterEnv(allowlist []string) []string {
	allowed := make(map[string]bool, len(allowlist)+1)
	for _, name := range allowlist {
		if name == deniedLDPreload {
			continue
		}
		allowed[name] = true
	}
	allowed["PATH"] = true

	var out []string
	for _, kv := range os.Environ() {
		eq := indexByte(kv, '=')
		if eq < 0 {
			continue
		}
		name := kv[:eq]
		if name == deniedLDPreload {
			continue
		}
		if allowed[name] {
			out = append(out, kv)
		}
	}
	return out
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "/bin/sh", "-c", command)
}

func setProcessGroup(cmd *exec.Cmd) {
	if runtime.GOOS == "windows" {
		return
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil || runtime.GOOS == "windows" {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
