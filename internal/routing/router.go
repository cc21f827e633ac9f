// Package routing implements the Model Router (C5): tier resolution
// to a (provider, model, reasoning) target, with a dynamic tier
// upgrade heuristic driven by tool-call history.
//
// Grounded on internal/agent/routing/router.go, adapted from its
// provider-candidate/fallback-chain design to the spec's simpler
// tier table lookup.
package routing

import "github.com/agentcore/turnengine/internal/config"

// Target is the resolved (provider, model, reasoning) a turn should
// call for its current tier.
type Target struct {
	Tier      string
	Provider  string
	Model     string
	Reasoning string
}

// Router resolves a model tier to a Target using the configured tier
// table. It holds only that table; the in-turn dynamic tier upgrade
// is tracked by the turn engine through Upgrade and TierForToolCall.
type Router struct {
	tiers map[string]config.TierConfig
}

// New builds a Router from the model_router settings section.
func New(cfg config.ModelRouterConfig) *Router {
	return &Router{tiers: cfg.Tiers}
}

// Resolve looks up tier in the tier table and splits its
// "<provider>/<model-id>" target.
func (r *Router) Resolve(tier string) (Target, bool) {
	tc, ok := r.tiers[tier]
	if !ok {
		return Target{}, false
	}
	provider, model := splitModel(tc.Model)
	return Target{Tier: tier, Provider: provider, Model: model, Reasoning: tc.Reasoning}, true
}

func splitModel(tierModel string) (provider, model string) {
	for i := 0; i < len(tierModel); i++ {
		if tierModel[i] == '/' {
			return tierModel[:i], tierModel[i+1:]
		}
	}
	return "", tierModel
}

// TierRank orders the five tiers (routing, balanced, smart, coding,
// deep) from lightest to heaviest so the dynamic upgrade heuristic
// can refuse to downgrade within a turn (spec.md §9 Open Question
// resolution). smart and coding share a rank, so Upgrade never moves
// from one to the other.
var TierRank = map[string]int{
	"routing":  0,
	"balanced": 1,
	"smart":    2,
	"coding":   2,
	"deep":     3,
}

// Upgrade returns the heavier of current and candidate by TierRank,
// never moving to a lighter tier. Unranked tiers are left unchanged
// by a candidate and never replace a ranked current tier.
func Upgrade(current, candidate string) string {
	cRank, cOk := TierRank[current]
	candRank, candOk := TierRank[candidate]
	if !candOk {
		return current
	}
	if !cOk || candRank > cRank {
		return candidate
	}
	return current
}
