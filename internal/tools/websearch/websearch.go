// Package websearch implements the brave_search tool executor (C2):
// a Brave Search API client with bounded local retry on HTTP 429
// (spec.md §4.2).
//
// Grounded on internal/backoff (the teacher's exponential-backoff
// utility package) for the retry/sleep primitives; this is the one
// tool the spec names as implementing local rate-limit retry, so it
// is also where that dependency is exercised.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/backoff"
	"github.com/agentcore/turnengine/internal/config"
)

const (
	maxAttempts  = 4 // 1 initial + 3 retries, per spec.md §8 scenario 5
	minCount     = 1
	maxCount     = 20
	braveSearchURL = "https://api.search.brave.com/res/v1/web/search"
)

// rateLimitedMessage is the localized string returned on retry
// exhaustion (§4.2 "localized rate-limit string").
const rateLimitedMessage = "Search is temporarily rate limited. Please try again shortly."

// genericUpstreamMessage is the localized string for any non-429
// upstream failure.
const genericUpstreamMessage = "Search failed due to an upstream error."

// HTTPDoer is the seam over the outbound HTTP client so tests can
// supply a fake transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Tool implements the "brave_search" tool executor.
type Tool struct {
	Runtime *config.Runtime
	Client  HTTPDoer
	Policy  backoff.BackoffPolicy
}

// New builds the websearch tool against the real Brave Search API.
func New(rt *config.Runtime) *Tool {
	return &Tool{Runtime: rt, Client: http.DefaultClient, Policy: backoff.DefaultPolicy()}
}

func (t *Tool) Name() string        { return "brave_search" }
func (t *Tool) Description() string { return "Search the web via the Brave Search API." }

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string"},
			"count": {"type": "integer"}
		},
		"required": ["query"]
	}`)
}

func (t *Tool) IsEnabled(actx *agentstate.Context) bool {
	return t.Runtime.Snapshot().IsWebSearchEnabled()
}

type params struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

func (t *Tool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	var p params
	if err := json.Unmarshal(raw, &p); err != nil {
		return agentstate.Fail(agentstate.FailureValidation, "invalid parameters: "+err.Error()), nil
	}
	if strings.TrimSpace(p.Query) == "" {
		return agentstate.Fail(agentstate.FailureValidation, "query is required"), nil
	}

	apiKey := t.Runtime.Snapshot().Settings().Tools.BraveSearchAPIKey
	if apiKey == "" {
		return agentstate.Fail(agentstate.FailureValidation, "brave_search API key is not configured"), nil
	}

	count := clampCount(p.Count)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, status, err := t.doSearch(ctx, apiKey, p.Query, count)
		if err != nil {
			return agentstate.Fail(agentstate.FailureUpstreamError, genericUpstreamMessage), nil
		}
		if status == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (attempt %d)", attempt)
			if attempt == maxAttempts {
				break
			}
			if err := backoff.SleepWithBackoff(ctx, t.Policy, attempt); err != nil {
				return agentstate.Fail(agentstate.FailureTimeout, "search cancelled while waiting for rate limit backoff"), nil
			}
			continue
		}
		if status >= 400 {
			return agentstate.Fail(agentstate.FailureUpstreamError, genericUpstreamMessage), nil
		}
		return agentstate.Ok(body, map[string]any{"attempts": attempt}), nil
	}

	_ = lastErr
	return agentstate.Fail(agentstate.FailureRateLimited, rateLimitedMessage), nil
}

func (t *Tool) doSearch(ctx context.Context, apiKey, query string, count int) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, braveSearchURL, nil)
	if err != nil {
		return "", 0, err
	}
	q := req.URL.Query()
	q.Set("q", query)
	q.Set("count", fmt.Sprintf("%d", count))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("X-Subscription-Token", apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}
	return string(data), resp.StatusCode, nil
}

func clampCount(requested int) int {
	if requested <= 0 {
		return 10
	}
	if requested < minCount {
		return minCount
	}
	if requested > maxCount {
		return maxCount
	}
	return requested
}
