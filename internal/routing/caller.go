package routing

import (
	"fmt"

	"github.com/agentcore/turnengine/internal/llm"
)

// Caller adapts a Router and an llm.Registry into the turn engine's
// ModelCaller seam, applying the "apiKeyPresent=false is not
// eligible" rule from spec.md §4.5 before returning a client.
type Caller struct {
	router       *Router
	clients      *llm.Registry
	keyPresent   map[string]bool // provider -> apiKeyPresent
}

// NewCaller builds a Caller. keyPresent should be derived once from
// the turn-scoped config.Snapshot's ProviderConfig.APIKeyPresent()
// per configured provider.
func NewCaller(router *Router, clients *llm.Registry, keyPresent map[string]bool) *Caller {
	return &Caller{router: router, clients: clients, keyPresent: keyPresent}
}

// Resolve implements turn.ModelCaller.
func (c *Caller) Resolve(tier string) (llm.Client, string, string, error) {
	target, ok := c.router.Resolve(tier)
	if !ok {
		return nil, "", "", fmt.Errorf("routing: tier %q not configured", tier)
	}
	if !c.keyPresent[target.Provider] {
		return nil, "", "", fmt.Errorf("routing: provider %q has no API key configured", target.Provider)
	}
	client, err := c.clients.Get(target.Provider)
	if err != nil {
		return nil, "", "", err
	}
	return client, target.Model, target.Reasoning, nil
}
