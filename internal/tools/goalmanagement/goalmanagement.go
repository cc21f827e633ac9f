// Package goalmanagement implements the goal_management tool
// executor (C2): create_goal/list_goals/plan_tasks/
// update_task_status/complete_goal/write_diary against the shared
// internal/goal store, also driven by the Auto Scheduler (C8)
// (spec.md §4.2).
package goalmanagement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
	"github.com/agentcore/turnengine/internal/goal"
)

// Tool implements the "goal_management" tool executor.
type Tool struct {
	Runtime *config.Runtime
	Store   *goal.Store
}

func New(rt *config.Runtime, store *goal.Store) *Tool {
	return &Tool{Runtime: rt, Store: store}
}

func (t *Tool) Name() string        { return "goal_management" }
func (t *Tool) Description() string { return "Create and drive autonomous goals and their tasks." }

func (t *Tool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"operation": {"type": "string", "enum": ["create_goal", "list_goals", "plan_tasks", "update_task_status", "complete_goal", "write_diary"]},
			"title": {"type": "string"},
			"goal_id": {"type": "string"},
			"task_id": {"type": "string"},
			"status": {"type": "string", "enum": ["PENDING", "IN_PROGRESS", "COMPLETED", "FAILED"]},
			"tasks": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"title": {"type": "string"},
						"description": {"type": "string"}
					},
					"required": ["title"]
				}
			},
			"text": {"type": "string"}
		},
		"required": ["operation"]
	}`)
}

func (t *Tool) IsEnabled(actx *agentstate.Context) bool {
	return t.Runtime.Snapshot().IsGoalsEnabled()
}

type taskInputParam struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type params struct {
	Operation string           `json:"operation"`
	Title     string           `json:"title"`
	GoalID    string           `json:"goal_id"`
	TaskID    string           `json:"task_id"`
	Status    string           `json:"status"`
	Tasks     []taskInputParam `json:"tasks"`
	Text      string           `json:"text"`
}

func (t *Tool) Execute(ctx context.Context, actx *agentstate.Context, raw json.RawMessage) (*agentstate.ToolResult, error) {
	var p params
	if err := json.Unmarshal(raw, &p); err != nil {
		return agentstate.Fail(agentstate.FailureValidation, "invalid parameters: "+err.Error()), nil
	}

	switch p.Operation {
	case "create_goal":
		return t.createGoal(p)
	case "list_goals":
		return t.listGoals()
	case "plan_tasks":
		return t.planTasks(actx, p)
	case "update_task_status":
		return t.updateTaskStatus(actx, p)
	case "complete_goal":
		return t.completeGoal(actx, p)
	case "write_diary":
		return t.writeDiary(p)
	default:
		return agentstate.Fail(agentstate.FailureValidation, "unknown operation: "+p.Operation), nil
	}
}

func (t *Tool) createGoal(p params) (*agentstate.ToolResult, error) {
	if p.Title == "" {
		return agentstate.Fail(agentstate.FailureValidation, "title is required"), nil
	}
	g := t.Store.CreateGoal(p.Title)
	return agentstate.Ok("created goal "+g.ID, map[string]any{"goal_id": g.ID}), nil
}

func (t *Tool) listGoals() (*agentstate.ToolResult, error) {
	goals := t.Store.ListGoals()
	summaries := make([]map[string]any, 0, len(goals))
	for _, g := range goals {
		summaries = append(summaries, map[string]any{
			"goal_id": g.ID,
			"title":   g.Title,
			"status":  g.Status,
			"tasks":   len(g.Tasks),
		})
	}
	return agentstate.Ok(fmt.Sprintf("%d goal(s)", len(goals)), map[string]any{"goals": summaries}), nil
}

func (t *Tool) planTasks(actx *agentstate.Context, p params) (*agentstate.ToolResult, error) {
	if p.GoalID == "" {
		return agentstate.Fail(agentstate.FailureValidation, "goal_id is required"), nil
	}
	if len(p.Tasks) == 0 {
		return agentstate.Fail(agentstate.FailureValidation, "tasks must be a non-empty array"), nil
	}
	inputs := make([]goal.TaskInput, 0, len(p.Tasks))
	for _, task := range p.Tasks {
		inputs = append(inputs, goal.TaskInput{Title: task.Title, Description: task.Description})
	}
	if err := t.Store.PlanTasks(p.GoalID, inputs); err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	return agentstate.Ok(fmt.Sprintf("planned %d task(s)", len(inputs)), nil), nil
}

func (t *Tool) updateTaskStatus(actx *agentstate.Context, p params) (*agentstate.ToolResult, error) {
	if p.GoalID == "" || p.TaskID == "" || p.Status == "" {
		return agentstate.Fail(agentstate.FailureValidation, "goal_id, task_id and status are required"), nil
	}
	status := goal.TaskStatus(p.Status)
	if err := t.Store.UpdateTaskStatus(p.GoalID, p.TaskID, status); err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	if actx != nil && (status == goal.TaskCompleted || status == goal.TaskFailed) {
		actx.AddMilestone(agentstate.Milestone{
			Kind:      "TASK_" + string(status),
			Subject:   p.TaskID,
			Detail:    p.GoalID,
			CreatedAt: time.Now(),
		})
	}
	return agentstate.Ok("task "+p.TaskID+" set to "+p.Status, nil), nil
}

func (t *Tool) completeGoal(actx *agentstate.Context, p params) (*agentstate.ToolResult, error) {
	if p.GoalID == "" {
		return agentstate.Fail(agentstate.FailureValidation, "goal_id is required"), nil
	}
	if err := t.Store.CompleteGoal(p.GoalID); err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	if actx != nil {
		actx.AddMilestone(agentstate.Milestone{Kind: "GOAL_COMPLETED", Subject: p.GoalID, CreatedAt: time.Now()})
	}
	return agentstate.Ok("goal "+p.GoalID+" completed", nil), nil
}

func (t *Tool) writeDiary(p params) (*agentstate.ToolResult, error) {
	if p.GoalID == "" || p.Text == "" {
		return agentstate.Fail(agentstate.FailureValidation, "goal_id and text are required"), nil
	}
	if err := t.Store.WriteDiary(p.GoalID, p.Text); err != nil {
		return agentstate.Fail(agentstate.FailureUpstreamError, err.Error()), nil
	}
	return agentstate.Ok("diary entry recorded", nil), nil
}
