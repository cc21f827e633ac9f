package turn

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/llm"
	"github.com/agentcore/turnengine/internal/routing"
	"github.com/agentcore/turnengine/internal/tooling"
)

// ModelCaller resolves a tier to an llm.Client plus the model/
// reasoning string to call it with. Generalizes routing.Router +
// llm.Registry behind one seam so the engine need not know about
// provider credentials.
type ModelCaller interface {
	Resolve(tier string) (client llm.Client, model string, reasoning string, err error)
}

// Result is what Run returns to the caller once a turn reaches a
// terminal phase.
type Result struct {
	FinalPhase  Phase
	Text        string
	VoiceText   string
	Attachments []agentstate.Attachment
	Milestones  []agentstate.Milestone
}

// Engine runs one turn at a time through the state machine described
// in the package doc. It holds no per-turn state itself — all
// mutable state lives on the agentstate.Context passed to Run.
type Engine struct {
	Tools  *tooling.Registry
	Models ModelCaller
	Router *routing.Router
}

// New builds an Engine.
func New(tools *tooling.Registry, models ModelCaller, router *routing.Router) *Engine {
	return &Engine{Tools: tools, Models: models, Router: router}
}

// Run drives the turn to a terminal phase starting from INIT. system
// is the system prompt prepended ahead of the session's history; the
// caller has already appended the new inbound user message onto
// actx before calling Run.
func (e *Engine) Run(ctx context.Context, actx *agentstate.Context, system string) (*Result, error) {
	deadline := time.Now().Add(actx.Budget.Deadline)

	currentTier := string(actx.ModelTier)
	if currentTier == "" {
		currentTier = "balanced"
	}

	consecutiveEmpty := 0

	for {
		if term, ok := e.checkBudget(actx, deadline); ok {
			return e.finalize(actx, term), nil
		}

		client, model, reasoning, err := e.Models.Resolve(currentTier)
		if err != nil {
			return nil, fmt.Errorf("turn: resolve model for tier %q: %w", currentTier, err)
		}

		actx.IncrLLMCalls()
		resp, err := client.Call(ctx, model, e.buildMessages(actx, system), e.buildToolSchemas(actx), reasoning, 0.7, 300*time.Second)
		if err != nil {
			return nil, fmt.Errorf("turn: llm call: %w", err)
		}

		if term, ok := e.checkBudget(actx, deadline); ok {
			return e.finalize(actx, term), nil
		}

		switch resp.Kind {
		case llm.ResponseFinal:
			consecutiveEmpty = 0
			actx.Append(agentstate.Message{
				ID:        uuid.NewString(),
				Role:      agentstate.RoleAssistant,
				Content:   resp.Text,
				CreatedAt: time.Now(),
			})
			return e.finalize(actx, PhaseDone), nil

		case llm.ResponseToolCalls:
			if len(resp.Calls) == 0 {
				consecutiveEmpty++
				if consecutiveEmpty >= 2 {
					return nil, fmt.Errorf("turn: two consecutive empty LLM responses")
				}
				continue
			}
			consecutiveEmpty = 0

			calls := make([]agentstate.ToolCall, 0, len(resp.Calls))
			for _, c := range resp.Calls {
				calls = append(calls, agentstate.ToolCall{ID: c.ID, Name: c.Name, Input: c.Input})
			}
			actx.Append(agentstate.Message{
				ID:        uuid.NewString(),
				Role:      agentstate.RoleAssistant,
				ToolCalls: calls,
				CreatedAt: time.Now(),
			})

			tierBefore := actx.ModelTier
			loopComplete := e.dispatchTools(ctx, actx, calls)
			if actx.ModelTier != tierBefore {
				currentTier = string(actx.ModelTier)
			}

			for _, c := range calls {
				// Tools that take an "operation" parameter are classified
				// as "<tool>.<operation>", e.g. "filesystem.write_file".
				name := c.Name
				var op struct {
					Operation string `json:"operation"`
				}
				if json.Unmarshal(c.Input, &op) == nil && op.Operation != "" {
					name += "." + op.Operation
				}
				if tag := routing.TierForToolCall(name); tag != "" {
					currentTier = routing.Upgrade(currentTier, tag)
				}
			}

			if loopComplete || actx.LoopComplete() {
				return e.finalize(actx, PhaseDone), nil
			}

			continue
		}
	}
}

// checkBudget returns (terminal phase, true) if the turn must
// terminate immediately.
func (e *Engine) checkBudget(actx *agentstate.Context, deadline time.Time) (Phase, bool) {
	if actx.LLMCalls() > actx.Budget.MaxLLMCalls || actx.ToolExecutions() > actx.Budget.MaxToolExecutions {
		return PhaseTerminatedBudget, true
	}
	if time.Now().After(deadline) {
		return PhaseTerminatedDeadline, true
	}
	return "", false
}

// dispatchTools executes calls in order, appending one tool-result
// message per call. It never short-circuits on a failure; the LLM
// sees every result on its next call. Returns true if any tool set
// loop.complete.
func (e *Engine) dispatchTools(ctx context.Context, actx *agentstate.Context, calls []agentstate.ToolCall) bool {
	for _, call := range calls {
		actx.IncrToolExecutions()
		start := time.Now()
		result := e.Tools.Execute(ctx, actx, call.Name, call.Input)
		result.DurationMS = time.Since(start).Milliseconds()

		content := result.Output
		if !result.Success {
			content = fmt.Sprintf("error (%s): %s", result.FailureKind, result.Error)
		}
		actx.Append(agentstate.Message{
			ID:         uuid.NewString(),
			Role:       agentstate.RoleTool,
			Content:    content,
			ToolCallID: call.ID,
			CreatedAt:  time.Now(),
		})
	}
	return actx.LoopComplete()
}

func (e *Engine) buildMessages(actx *agentstate.Context, system string) []llm.Message {
	turn := actx.Messages()
	out := make([]llm.Message, 0, len(turn)+1)
	if system != "" {
		out = append(out, llm.Message{Role: "system", Content: system})
	}
	for _, m := range turn {
		msg := llm.Message{Role: string(m.Role), Content: m.Content, ToolCallID: m.ToolCallID}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, llm.ToolCallRequest{ID: tc.ID, Name: tc.Name, Input: tc.Input})
		}
		out = append(out, msg)
	}
	return out
}

func (e *Engine) buildToolSchemas(actx *agentstate.Context) []llm.ToolSchema {
	defs := e.Tools.DescribeForLLM(actx)
	out := make([]llm.ToolSchema, 0, len(defs))
	for _, d := range defs {
		out = append(out, llm.ToolSchema{Name: d.Name, Description: d.Description, Parameters: json.RawMessage(d.Schema)})
	}
	return out
}

func (e *Engine) finalize(actx *agentstate.Context, terminal Phase) *Result {
	text := lastAssistantText(actx)
	if terminal == PhaseTerminatedBudget {
		text = "Turn budget exceeded (llm calls or tool executions). Partial work preserved."
		actx.AddMilestone(agentstate.Milestone{Kind: "TURN_TERMINATED", Subject: "budget", CreatedAt: time.Now()})
	}
	if terminal == PhaseTerminatedDeadline {
		text = "Turn budget exceeded (deadline). Partial work preserved."
		actx.AddMilestone(agentstate.Milestone{Kind: "TURN_TERMINATED", Subject: "deadline", CreatedAt: time.Now()})
	}

	return &Result{
		FinalPhase:  terminal,
		Text:        text,
		VoiceText:   actx.String(agentstate.AttrVoiceText),
		Attachments: actx.Attachments,
		Milestones:  actx.Milestones,
	}
}

func lastAssistantText(actx *agentstate.Context) string {
	msgs := actx.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == agentstate.RoleAssistant && msgs[i].Content != "" {
			return msgs[i].Content
		}
	}
	return ""
}
