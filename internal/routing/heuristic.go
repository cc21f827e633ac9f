package routing

// codeTriggeringTools is the fixed set of tool names whose use this
// turn sets the "code" classification tag (SPEC_FULL.md §4.5),
// adapted from the teacher's content-regex HeuristicClassifier to a
// tool-name classifier: the turn's own tool-call history is a
// stronger signal than re-scanning message text for code patterns.
var codeTriggeringTools = map[string]bool{
	"shell":                      true,
	"filesystem.write_file":      true,
	"filesystem.read_file":       true,
	"goal_management.plan_tasks": true,
}

// ClassifyToolCall reports whether invoking toolName should set the
// "code" tag for this turn.
func ClassifyToolCall(toolName string) bool {
	return codeTriggeringTools[toolName]
}

// DynamicUpgradeTier is the tier a "code" classification upgrades
// into, per the balanced→coding resolution in SPEC_FULL.md §9.
const DynamicUpgradeTier = "coding"

// TierForToolCall returns the tier toolName's use should upgrade the
// turn to, or "" if the call does not trigger an upgrade.
func TierForToolCall(toolName string) string {
	if ClassifyToolCall(toolName) {
		return DynamicUpgradeTier
	}
	return ""
}
