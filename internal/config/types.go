// Package config implements the Runtime Config (C9): a typed view
// over live settings, with turn-scoped snapshot acquisition and hot
// reload outside of turns.
//
// Grounded on the teacher's internal/config package (YAML-backed,
// env-var expansion, typed sub-structs per concern); trimmed to
// exactly the settings sections spec.md §6 enumerates; the dashboard
// UI, auth, and database sections that section explicitly disclaims
// are dropped rather than carried along unused.
package config

import "time"

// Settings is the full set of hot-reloadable configuration sections
// (spec.md §6).
type Settings struct {
	Auto     AutoConfig          `yaml:"auto"`
	Turn     TurnConfig          `yaml:"turn"`
	Voice    VoiceConfig         `yaml:"voice"`
	Memory   MemoryConfig        `yaml:"memory"`
	Tools    ToolsConfig         `yaml:"tools"`
	MCP      MCPConfig           `yaml:"mcp"`
	LLM      LLMConfig           `yaml:"llm"`
	Router   ModelRouterConfig   `yaml:"model_router"`
	RAG      RAGConfig           `yaml:"rag"`
	Telegram TelegramConfig      `yaml:"telegram"`
}

// AutoConfig drives the Auto Scheduler (C8).
type AutoConfig struct {
	Enabled              bool      `yaml:"enabled"`
	AutoStart            bool      `yaml:"auto_start"`
	TaskTimeLimitMinutes int       `yaml:"task_time_limit_minutes"`
	MaxGoals             int       `yaml:"max_goals"`
	ModelTier            string    `yaml:"model_tier"`
	NotifyMilestones     bool      `yaml:"notify_milestones"`
	TickIntervalSeconds  int       `yaml:"tick_interval_seconds"`
}

// TurnConfig bounds the Turn Engine (C7).
type TurnConfig struct {
	MaxLLMCalls       int    `yaml:"max_llm_calls"`
	MaxToolExecutions int    `yaml:"max_tool_executions"`
	Deadline          string `yaml:"deadline"` // ISO-8601 duration, e.g. "PT1H"
}

// VoiceConfig drives send_voice and the voice/tts ambient stack.
type VoiceConfig struct {
	Enabled       bool    `yaml:"enabled"`
	STTProvider   string  `yaml:"stt_provider"` // elevenlabs, whisper
	TTSProvider   string  `yaml:"tts_provider"` // elevenlabs
	VoiceID       string  `yaml:"voice_id"`
	Speed         float64 `yaml:"speed"` // [0.5, 2.0] step 0.1
	WhisperSTTURL string  `yaml:"whisper_stt_url"`
}

// MemoryConfig drives the Memory Engine (C4).
type MemoryConfig struct {
	Enabled                    bool    `yaml:"enabled"`
	RecentDays                 int     `yaml:"recent_days"` // [1,90]
	SoftPromptBudgetTokens     int     `yaml:"soft_prompt_budget_tokens"`
	MaxPromptBudgetTokens      int     `yaml:"max_prompt_budget_tokens"`
	PromotionMinConfidence     float64 `yaml:"promotion_min_confidence"`
	EmbeddingDimension         int     `yaml:"embedding_dimension"`
	SQLitePath                 string  `yaml:"sqlite_path"`
}

// ToolsConfig holds per-tool enable flags and tool-specific settings.
type ToolsConfig struct {
	FilesystemEnabled bool `yaml:"filesystem_enabled"`
	ShellEnabled      bool `yaml:"shell_enabled"`
	BrowserEnabled    bool `yaml:"browser_enabled"`
	MemoryEnabled     bool `yaml:"memory_enabled"`
	WebSearchEnabled  bool `yaml:"web_search_enabled"`
	EmailEnabled      bool `yaml:"email_enabled"`
	PlanEnabled       bool `yaml:"plan_enabled"`
	TierToolEnabled   bool `yaml:"tier_tool_enabled"`
	VoiceToolEnabled  bool `yaml:"voice_tool_enabled"`
	GoalsEnabled      bool `yaml:"goals_enabled"`
	DatetimeEnabled   bool `yaml:"datetime_enabled"`
	WeatherEnabled    bool `yaml:"weather_enabled"`

	PromptInjectionDetectionEnabled  bool `yaml:"prompt_injection_detection_enabled"`
	CommandInjectionDetectionEnabled bool `yaml:"command_injection_detection_enabled"`

	Workspace string `yaml:"workspace"`

	BraveSearchAPIKey  string `yaml:"brave_search_api_key"`
	BrowserType        string `yaml:"browser_type"`        // playwright
	BrowserAPIProvider string `yaml:"browser_api_provider"` // brave
	BrowserTimeoutMS   int    `yaml:"browser_timeout_ms"`   // [1000,120000]

	IMAP EmailEndpointConfig `yaml:"imap"`
	SMTP EmailEndpointConfig `yaml:"smtp"`
}

// EmailEndpointConfig configures one side of the email tool.
type EmailEndpointConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Security  string `yaml:"security"` // ssl, starttls, none
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	SSLTrust  bool   `yaml:"ssl_trust"`
	MaxSizeKB int    `yaml:"max_size_kb"`
}

// MCPConfig is carried for the spec's settings-section completeness;
// MCP client/server wiring itself is out of scope (§1).
type MCPConfig struct {
	Enabled  bool `yaml:"enabled"`
	Defaults any  `yaml:"defaults"`
}

// LLMConfig holds the LLM provider table (C6/C9).
type LLMConfig struct {
	Providers map[string]ProviderConfig `yaml:"providers"`
}

// ProviderConfig is one LLM provider entry.
type ProviderConfig struct {
	BaseURL               string `yaml:"base_url"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"` // [1,3600] default 300
	APIKey                string `yaml:"api_key"`
}

// APIKeyPresent reports the key's presence without ever echoing it.
func (p ProviderConfig) APIKeyPresent() bool { return p.APIKey != "" }

// ModelRouterConfig drives the Model Router (C5).
type ModelRouterConfig struct {
	Tiers              map[string]TierConfig `yaml:"tiers"`
	Temperature        float64               `yaml:"temperature"` // default 0.7
	DynamicTierEnabled bool                  `yaml:"dynamic_tier_enabled"`
}

// TierConfig is one tier's routing target.
type TierConfig struct {
	Model     string `yaml:"model"` // "<provider>/<model-id>"
	Reasoning string `yaml:"reasoning,omitempty"`
}

// RAGConfig is carried for settings-section completeness; the RAG
// index/query pipeline itself is out of scope for the turn engine.
type RAGConfig struct {
	URL             string `yaml:"url"`
	QueryMode       string `yaml:"query_mode"` // hybrid, local, global, naive
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	IndexMinLength  int    `yaml:"index_min_length"`
	APIKey          string `yaml:"api_key"`
}

// TelegramConfig is carried for settings-section completeness; the
// Telegram adapter itself is out of scope (§1).
type TelegramConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Token        string   `yaml:"token"`
	AuthMode     string   `yaml:"auth_mode"` // user, invite_only
	AllowedUsers []string `yaml:"allowed_users"`
	InviteCodes  []string `yaml:"invite_codes"`
}

// Defaults returns the settings defaults named explicitly in
// spec.md §6.
func Defaults() Settings {
	return Settings{
		Auto: AutoConfig{
			TaskTimeLimitMinutes: 30,
			MaxGoals:             3,
			ModelTier:            "balanced",
			TickIntervalSeconds:  1,
		},
		Turn: TurnConfig{
			MaxLLMCalls:       200,
			MaxToolExecutions: 500,
			Deadline:          "PT1H",
		},
		Voice: VoiceConfig{
			TTSProvider: "elevenlabs",
			Speed:       1.0,
		},
		Memory: MemoryConfig{
			RecentDays:             30,
			SoftPromptBudgetTokens: 1800,
			MaxPromptBudgetTokens:  3500,
			PromotionMinConfidence: 0.75,
			EmbeddingDimension:     1536,
		},
		Tools: ToolsConfig{
			BrowserType:        "playwright",
			BrowserAPIProvider: "brave",
			BrowserTimeoutMS:   30000,
		},
		LLM: LLMConfig{Providers: map[string]ProviderConfig{}},
		Router: ModelRouterConfig{
			Tiers:              map[string]TierConfig{},
			Temperature:        0.7,
			DynamicTierEnabled: true,
		},
	}
}

// DefaultToolTimeout is the default per-tool execution timeout
// (§5); individual tools may override it.
const DefaultToolTimeout = 30 * time.Second
