package llm

import (
	"context"
	"fmt"
	"time"
)

// Registry builds and caches a Client per provider name, resolving
// base URLs and API keys from the caller-supplied lookup.
type Registry struct {
	clients map[string]Client
}

// ProviderCredentials is the minimal shape Registry needs per
// provider entry; config.Snapshot callers adapt ProviderConfig into
// this at the routing boundary so this package stays config-agnostic.
type ProviderCredentials struct {
	BaseURL string
	APIKey  string
}

// NewRegistry builds one Client per entry in creds. provider names
// matching an OpenAI-compatible base URL (or any unrecognized name
// given an explicit BaseURL) are served by OpenAICompatibleClient;
// "anthropic" is served by AnthropicClient. "google" is a documented
// gap — see providers.go.
func NewRegistry(creds map[string]ProviderCredentials) (*Registry, error) {
	r := &Registry{clients: make(map[string]Client, len(creds))}
	for name, cred := range creds {
		switch name {
		case "google":
			r.clients[name] = googleStubClient{}
		case "anthropic":
			r.clients[name] = NewAnthropicClient(cred.APIKey, cred.BaseURL)
		default:
			baseURL, known := BaseURLFor(name, cred.BaseURL)
			if !known {
				return nil, fmt.Errorf("llm: unknown provider %q and no base_url override configured", name)
			}
			r.clients[name] = NewOpenAICompatibleClient(name, baseURL, cred.APIKey)
		}
	}
	return r, nil
}

// Get returns the client registered for provider, or an error if
// none was configured.
func (r *Registry) Get(provider string) (Client, error) {
	c, ok := r.clients[provider]
	if !ok {
		return nil, fmt.Errorf("llm: no client configured for provider %q", provider)
	}
	return c, nil
}

// googleStubClient resolves the "google" provider entry so routing
// configuration naming it is accepted, but every call fails with
// UPSTREAM_ERROR: this module's dependency set carries no Google
// GenAI client (sibling pack repos do; this teacher does not).
type googleStubClient struct{}

func (googleStubClient) Call(context.Context, string, []Message, []ToolSchema, string, float64, time.Duration) (*Response, error) {
	return nil, newError("UPSTREAM_ERROR", "llm: google provider has no client wired in this build")
}
