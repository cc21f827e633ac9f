package agentstate

import "time"

// ChannelType identifies the inbound channel a session belongs to.
// The engine treats it as an opaque label; channel adapters live
// outside this module.
type ChannelType string

// AgentSession is one per (channelType, chatId) pair. It is created
// lazily on first inbound message and is never destroyed by the
// engine. This module has no storage port, so persistence across
// process restarts is left to code outside it.
type AgentSession struct {
	ID          string      `json:"id"`
	ChannelType ChannelType `json:"channel_type"`
	ChatID      string      `json:"chat_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	History     []Message   `json:"history"`
}

// AppendHistory records messages from a completed turn onto the
// session so later turns on the same session see them.
func (s *AgentSession) AppendHistory(msgs ...Message) {
	s.History = append(s.History, msgs...)
	s.UpdatedAt = time.Now()
}

// ModelTier names one of the router's tiers.
type ModelTier string

const (
	TierRouting  ModelTier = "routing"
	TierBalanced ModelTier = "balanced"
	TierSmart    ModelTier = "smart"
	TierCoding   ModelTier = "coding"
	TierDeep     ModelTier = "deep"
)

// SkillTransitionRequest is set by the skill_transition tool to ask
// the engine to switch the active skill for subsequent turns.
type SkillTransitionRequest struct {
	TargetSkill string `json:"target_skill"`
	Reason      string `json:"reason,omitempty"`
}

// TurnBudget bounds one turn's resource consumption. All three
// fields must be positive; Deadline is enforced monotonically from
// turn start.
type TurnBudget struct {
	MaxLLMCalls       int           `json:"max_llm_calls"`
	MaxToolExecutions int           `json:"max_tool_executions"`
	Deadline          time.Duration `json:"deadline"`
}

// UserPreferences carries per-user settings the engine consults when
// resolving tier and localization.
type UserPreferences struct {
	Language          string    `json:"language"`
	Timezone          string    `json:"timezone"` // IANA name
	ModelTierOverride ModelTier `json:"model_tier_override,omitempty"`
	TierForce         bool      `json:"tier_force"`
}
