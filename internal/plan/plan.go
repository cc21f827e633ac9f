// Package plan implements the Plan Service (C10): a per-session
// plan-mode flag and markdown content store gating the plan_* tools
// (spec.md §4.10).
//
// Grounded on the teacher's session-scoped state idiom (one map keyed
// by session identity, mutex-guarded), generalized from the teacher's
// own session state to this spec's narrower plan-mode concern.
package plan

import "sync"

// State is one session's plan-mode state: whether plan mode is
// active and the markdown content accumulated so far.
type State struct {
	Active  bool
	Content string
}

// Service holds plan state per session, keyed by the owning
// AgentSession's ID — plan mode is a session-level state machine, not
// a transient per-turn value, so it must survive across turns on the
// same session.
type Service struct {
	mu    sync.Mutex
	state map[string]*State
}

// New builds an empty Plan Service.
func New() *Service {
	return &Service{state: make(map[string]*State)}
}

// IsActive reports whether plan mode is active for sessionID.
func (s *Service) IsActive(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.state[sessionID]
	return ok && st.Active
}

// Enter activates plan mode for sessionID.
func (s *Service) Enter(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrCreate(sessionID)
	st.Active = true
}

// Content returns the current plan markdown for sessionID.
func (s *Service) Content(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.state[sessionID]
	if !ok {
		return ""
	}
	return st.Content
}

// SetContent stores markdown as the session's plan content.
func (s *Service) SetContent(sessionID, markdown string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrCreate(sessionID)
	st.Content = markdown
}

// Finalize deactivates plan mode for sessionID, leaving its last
// content in place for inspection.
func (s *Service) Finalize(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrCreate(sessionID)
	st.Active = false
}

func (s *Service) getOrCreate(sessionID string) *State {
	st, ok := s.state[sessionID]
	if !ok {
		st = &State{}
		s.state[sessionID] = st
	}
	return st
}
