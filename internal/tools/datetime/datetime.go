// Package datetime implements the datetime tool executor (C2)
// (spec.md §4.2).
package datetime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
	dt "github.com/agentcore/turnengine/internal/datetime"
)

// Tool implements "datetime": a pure-ish tool reporting the current
// time in a requested IANA timezone (defaulting to UTC).
type Tool struct {
	Runtime *config.Runtime
	Now     func() time.Time
}

func New(rt *config.Runtime) *Tool {
	return &Tool{Runtime: rt, Now: time.Now}
}

func (t *Tool) Name() string        { return "datetime" }
func (t *Tool) Description() string { return "Get the current date and time, optionally in a specific IANA timezone." }

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"timezone": {"type": "string"}
		}
	}`)
}

func (t *Tool) IsEnabled(actx *agentstate.Context) bool {
	return t.Runtime.Snapshot().IsDatetimeEnabled()
}

type params struct {
	Timezone string `json:"timezone"`
}

func (t *Tool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	var p params
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return agentstate.Fail(agentstate.FailureValidation, "invalid parameters: "+err.Error()), nil
		}
	}

	if p.Timezone != "" {
		if _, err := time.LoadLocation(p.Timezone); err != nil {
			return agentstate.Fail(agentstate.FailureValidation, "unknown timezone: "+p.Timezone), nil
		}
	}
	tz := "UTC"
	if p.Timezone != "" {
		tz = dt.ResolveUserTimezone(p.Timezone)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
		tz = "UTC"
	}

	now := t.Now().In(loc)
	data := map[string]any{
		"timezone": tz,
		"iso8601":  now.Format(time.RFC3339),
		"weekday":  now.Weekday().String(),
	}
	output := fmt.Sprintf("%s the %d%s of %s, %s",
		now.Weekday(), now.Day(), dt.OrdinalSuffix(now.Day()), now.Month(), now.Format("3:04 PM MST"))
	return agentstate.Ok(output, data), nil
}
