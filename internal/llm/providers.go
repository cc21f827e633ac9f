package llm

// knownBaseURLs is the provider lookup table (spec.md §4.5: "Provider
// lookup uses known base URLs ... overridable per provider"). Any
// entry can be overridden by ProviderConfig.BaseURL in settings.
//
// Google is a deliberate gap: no Google GenAI client ships in this
// module's dependency set, so a "google" provider entry resolves to
// an error rather than a silently wrong base URL.
var knownBaseURLs = map[string]string{
	"openai":     "https://api.openai.com/v1",
	"openrouter": "https://openrouter.ai/api/v1",
	"groq":       "https://api.groq.com/openai/v1",
	"together":   "https://api.together.xyz/v1",
	"fireworks":  "https://api.fireworks.ai/inference/v1",
	"deepseek":   "https://api.deepseek.com/v1",
	"mistral":    "https://api.mistral.ai/v1",
	"xai":        "https://api.x.ai/v1",
	"perplexity": "https://api.perplexity.ai",
	"zhipu":      "https://open.bigmodel.cn/api/paas/v4",
	"qwen":       "https://dashscope.aliyuncs.com/compatible-mode/v1",
	"cerebras":   "https://api.cerebras.ai/v1",
	"deepinfra":  "https://api.deepinfra.com/v1/openai",
	"moonshot":   "https://api.moonshot.cn/v1",
}

// OpenAICompatibleProviders is the set of provider names servable by
// Client backed by github.com/sashabaranov/go-openai's chat
// completions API via base URL override.
var OpenAICompatibleProviders = func() map[string]bool {
	m := make(map[string]bool, len(knownBaseURLs))
	for name := range knownBaseURLs {
		m[name] = true
	}
	return m
}()

// BaseURLFor resolves a provider's base URL, preferring an explicit
// override over the known table.
func BaseURLFor(provider, override string) (string, bool) {
	if override != "" {
		return override, true
	}
	url, ok := knownBaseURLs[provider]
	return url, ok
}

// SplitModel splits a "<provider>/<model-id>" tier target as used by
// ModelRouterConfig.Tiers (spec.md §4.5).
func SplitModel(tierModel string) (provider, model string) {
	for i := 0; i < len(tierModel); i++ {
		if tierModel[i] == '/' {
			return tierModel[:i], tierModel[i+1:]
		}
	}
	return "", tierModel
}
