// Package skill holds the Skill data model (spec.md §3) and a small
// in-memory registry used by the skill_transition tool executor to
// validate transition targets.
//
// The teacher's internal/skills package (loader/store against a
// bucket-backed "skills/<name>/SKILL.md" layout) was dropped as
// verbatim copy against an incompatible contract; this is new code
// against this spec's narrower Skill shape, with the storage-port
// loading spec.md §6 describes left to the caller that constructs the
// Registry (out of this package's scope).
package skill

import "regexp"

// NamePattern is the Skill.name validation pattern (spec.md §3).
var NamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Skill describes one selectable agent skill.
type Skill struct {
	Name        string
	Description string
	Content     string
	Available   bool
}

// Registry holds known skills by name.
type Registry struct {
	skills map[string]Skill
}

// NewRegistry builds a Registry from a set of skills.
func NewRegistry(skills ...Skill) *Registry {
	r := &Registry{skills: make(map[string]Skill, len(skills))}
	for _, s := range skills {
		r.skills[s.Name] = s
	}
	return r
}

// Get looks up a skill by name.
func (r *Registry) Get(name string) (Skill, bool) {
	s, ok := r.skills[name]
	return s, ok
}
