// Package memory implements the memory tool executor (C2): the
// memory_add / memory_search / memory_update / memory_promote /
// memory_forget operations over the Memory Engine (C4, internal/memory)
// (spec.md §4.2, §4.4).
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
	mem "github.com/agentcore/turnengine/internal/memory"
)

// Tool implements the "memory" tool executor.
type Tool struct {
	Runtime *config.Runtime
	Engine  *mem.Engine
}

// New builds the memory tool bound to a Memory Engine instance.
func New(rt *config.Runtime, engine *mem.Engine) *Tool {
	return &Tool{Runtime: rt, Engine: engine}
}

func (t *Tool) Name() string        { return "memory" }
func (t *Tool) Description() string { return "Add, search, update, promote, or forget persistent memory items." }

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"operation": {"type": "string", "enum": ["memory_add", "memory_search", "memory_update", "memory_promote", "memory_forget"]},
			"id": {"type": "string"},
			"fingerprint": {"type": "string"},
			"layer": {"type": "string", "enum": ["SEMANTIC", "EPISODIC", "PROCEDURAL"]},
			"type": {"type": "string"},
			"title": {"type": "string"},
			"content": {"type": "string"},
			"tags": {"type": "array", "items": {"type": "string"}},
			"references": {"type": "array", "items": {"type": "string"}},
			"confidence": {"type": "number"},
			"salience": {"type": "number"},
			"ttl_days": {"type": "integer"},
			"query": {"type": "string"},
			"limit": {"type": "integer"},
			"freshness_days": {"type": "integer"}
		},
		"required": ["operation"]
	}`)
}

func (t *Tool) IsEnabled(actx *agentstate.Context) bool {
	return t.Runtime.Snapshot().IsMemoryEnabled()
}

type params struct {
	Operation     string   `json:"operation"`
	ID            string   `json:"id"`
	Fingerprint   string   `json:"fingerprint"`
	Layer         string   `json:"layer"`
	Type          string   `json:"type"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Tags          []string `json:"tags"`
	References    []string `json:"references"`
	Confidence    float64  `json:"confidence"`
	Salience      float64  `json:"salience"`
	TTLDays       int      `json:"ttl_days"`
	Query         string   `json:"query"`
	Limit         int      `json:"limit"`
	FreshnessDays int      `json:"freshness_days"`
}

func (t *Tool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	var p params
	if err := json.Unmarshal(raw, &p); err != nil {
		return agentstate.Fail(agentstate.FailureValidation, "invalid parameters: "+err.Error()), nil
	}

	switch p.Operation {
	case "memory_add":
		return t.add(ctx, p)
	case "memory_search":
		return t.search(ctx, p)
	case "memory_update":
		return t.update(ctx, p)
	case "memory_promote":
		return t.promote(ctx, p)
	case "memory_forget":
		return t.forget(ctx, p)
	default:
		return agentstate.Fail(agentstate.FailureValidation, "unknown operation: "+p.Operation), nil
	}
}

func (t *Tool) add(ctx context.Context, p params) (*agentstate.ToolResult, error) {
	if strings.TrimSpace(p.Content) == "" {
		return agentstate.Fail(agentstate.FailureValidation, "content is required"), nil
	}
	id, err := t.Engine.Add(ctx, mem.AddInput{
		Layer: mem.Layer(p.Layer), Type: p.Type, Title: p.Title, Content: p.Content,
		Tags: p.Tags, References: p.References, Confidence: p.Confidence, Salience: p.Salience, TTLDays: p.TTLDays,
	})
	if err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	return agentstate.Ok("memory item stored", map[string]any{"id": id}), nil
}

func (t *Tool) search(ctx context.Context, p params) (*agentstate.ToolResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	ranked, err := t.Engine.Search(ctx, mem.Query{
		Text: p.Query, Layer: mem.ParseLayer(p.Layer), TopK: limit, FreshnessDays: p.FreshnessDays,
	})
	if err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	if len(ranked) == 0 {
		return agentstate.Ok("No memory items found.", nil), nil
	}

	var sb strings.Builder
	for i, r := range ranked {
		fmt.Fprintf(&sb, "%d. [%s] %s: %s (score=%.3f)\n", i+1, r.Item.Layer, r.Item.Title, r.Item.Content, r.Score)
	}
	return agentstate.Ok(sb.String(), map[string]any{"count": len(ranked)}), nil
}

func (t *Tool) update(ctx context.Context, p params) (*agentstate.ToolResult, error) {
	if p.ID == "" && p.Fingerprint == "" {
		return agentstate.Fail(agentstate.FailureValidation, "id or fingerprint is required"), nil
	}
	if p.Content == "" && p.Title == "" && len(p.Tags) == 0 {
		return agentstate.Fail(agentstate.FailureValidation, "at least one mutable field is required"), nil
	}
	id, err := t.Engine.Add(ctx, mem.AddInput{
		Layer: mem.Layer(p.Layer), Type: p.Type, Title: p.Title, Content: p.Content,
		Tags: p.Tags, References: p.References, Confidence: p.Confidence, Salience: p.Salience, TTLDays: p.TTLDays,
	})
	if err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	return agentstate.Ok("memory item updated", map[string]any{"id": id}), nil
}

func (t *Tool) promote(ctx context.Context, p params) (*agentstate.ToolResult, error) {
	id := p.ID
	if id == "" {
		ranked, err := t.Engine.Search(ctx, mem.Query{Text: p.Query, Layer: mem.ParseLayer(p.Layer), TopK: 1})
		if err != nil {
			return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
		}
		if len(ranked) == 0 {
			return agentstate.Fail(agentstate.FailureNotFound, "no memory item matched for promotion"), nil
		}
		id = ranked[0].Item.ID
	}

	threshold := t.Runtime.Snapshot().GetMemoryPromotionMinConfidence()
	if err := t.Engine.Promote(ctx, id, threshold); err != nil {
		return agentstate.Fail(agentstate.FailureNotFound, err.Error()), nil
	}
	return agentstate.Ok("memory item promoted", map[string]any{"id": id}), nil
}

func (t *Tool) forget(ctx context.Context, p params) (*agentstate.ToolResult, error) {
	id := p.ID
	if id == "" {
		ranked, err := t.Engine.Search(ctx, mem.Query{Text: p.Query, Layer: mem.ParseLayer(p.Layer), TopK: 1})
		if err != nil {
			return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
		}
		if len(ranked) == 0 {
			return agentstate.Fail(agentstate.FailureUpstreamError, "No memory items matched"), nil
		}
		id = ranked[0].Item.ID
	}
	if err := t.Engine.Forget(ctx, id); err != nil {
		return agentstate.Fail(agentstate.FailureNotFound, err.Error()), nil
	}
	return agentstate.Ok("memory item forgotten", map[string]any{"id": id}), nil
}
