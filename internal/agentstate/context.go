package agentstate

import "sync"

// Well-known scalar attribute keys the engine and tools communicate
// through. Only the engine's dispatch goroutine writes these; tools
// request changes through the narrow setters below rather than
// poking the map directly.
const (
	AttrLoopComplete  = "loop.complete"
	AttrVoiceRequest  = "voiceRequested"
	AttrVoiceText     = "voiceText"
)

// Context is the mutable per-turn state: the owning session, the
// turn's message history, a scalar attribute bag, the active model
// tier override, a pending skill transition, the turn budget, and
// monotonic counters of LLM calls and tool executions.
//
// A Context is created at turn start and discarded at turn end. It
// is never shared across concurrently executing turns. Tools receive
// the *Context itself; the setters below take its mutex, and the
// engine dispatches a turn's tool calls one at a time.
type Context struct {
	mu sync.Mutex

	Session *AgentSession
	Turn    []Message

	attrs map[string]any

	ModelTier        ModelTier
	SkillTransition  *SkillTransitionRequest
	Budget           TurnBudget
	Preferences      UserPreferences

	llmCalls        int
	toolExecutions  int

	Attachments []Attachment
	Milestones  []Milestone
}

// New creates a fresh per-turn Context bound to a session.
func New(session *AgentSession, budget TurnBudget, prefs UserPreferences) *Context {
	return &Context{
		Session:     session,
		attrs:       make(map[string]any),
		ModelTier:   prefs.ModelTierOverride,
		Budget:      budget,
		Preferences: prefs,
	}
}

// Append adds a message to the turn's running history.
func (c *Context) Append(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Turn = append(c.Turn, msg)
}

// Messages returns a copy of the turn's current message history.
func (c *Context) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.Turn))
	copy(out, c.Turn)
	return out
}

// IncrLLMCalls increments and returns the turn's LLM call counter.
func (c *Context) IncrLLMCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.llmCalls++
	return c.llmCalls
}

// IncrToolExecutions increments and returns the turn's tool
// execution counter.
func (c *Context) IncrToolExecutions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toolExecutions++
	return c.toolExecutions
}

// LLMCalls returns the current LLM call count.
func (c *Context) LLMCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.llmCalls
}

// ToolExecutions returns the current tool execution count.
func (c *Context) ToolExecutions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toolExecutions
}

// SetAttr sets a scalar attribute. Used by the engine's dispatch
// path and by tool setters below; never called directly by tool
// executors with arbitrary keys.
func (c *Context) SetAttr(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrs[key] = value
}

// Attr reads a scalar attribute.
func (c *Context) Attr(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.attrs[key]
	return v, ok
}

// Bool reads a scalar attribute as a bool, defaulting to false.
func (c *Context) Bool(key string) bool {
	v, ok := c.Attr(key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// String reads a scalar attribute as a string, defaulting to "".
func (c *Context) String(key string) string {
	v, ok := c.Attr(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// SetLoopComplete instructs the engine to end the turn after the
// current tool dispatch batch completes.
func (c *Context) SetLoopComplete() {
	c.SetAttr(AttrLoopComplete, true)
}

// LoopComplete reports whether a tool has requested early
// termination.
func (c *Context) LoopComplete() bool {
	return c.Bool(AttrLoopComplete)
}

// SetVoiceResponse records a voice response request, per the
// send_voice tool contract.
func (c *Context) SetVoiceResponse(text string) {
	c.SetAttr(AttrVoiceRequest, true)
	if text != "" {
		c.SetAttr(AttrVoiceText, text)
	}
	c.SetLoopComplete()
}

// RequestSkillTransition records a pending skill change.
func (c *Context) RequestSkillTransition(target, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SkillTransition = &SkillTransitionRequest{TargetSkill: target, Reason: reason}
}

// SetModelTier overrides the tier used for subsequent LLM calls in
// this turn.
func (c *Context) SetModelTier(tier ModelTier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ModelTier = tier
}

// AddAttachment records an Attachment produced by a tool for
// surfacing on the turn result.
func (c *Context) AddAttachment(a Attachment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Attachments = append(c.Attachments, a)
}

// AddMilestone records a milestone event produced by a tool (e.g.
// goal_management) for surfacing on the turn result and to the auto
// scheduler.
func (c *Context) AddMilestone(m Milestone) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Milestones = append(c.Milestones, m)
}
