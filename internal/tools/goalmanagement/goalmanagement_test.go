package goalmanagement

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
	"github.com/agentcore/turnengine/internal/goal"
)

func runtimeWithGoals(t *testing.T) *config.Runtime {
	t.Helper()
	s := config.Defaults()
	s.Tools.GoalsEnabled = true
	return config.NewRuntimeWithSettings(s)
}

func newContext() *agentstate.Context {
	return agentstate.New(&agentstate.AgentSession{}, agentstate.TurnBudget{MaxLLMCalls: 10, MaxToolExecutions: 10}, agentstate.UserPreferences{})
}

func TestPlanTasksRejectsEmptyArray(t *testing.T) {
	store := goal.NewStore()
	tool := New(runtimeWithGoals(t), store)
	g := store.CreateGoal("ship it")

	raw, _ := json.Marshal(map[string]any{"operation": "plan_tasks", "goal_id": g.ID, "tasks": []any{}})
	result, err := tool.Execute(context.Background(), newContext(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.FailureKind != agentstate.FailureValidation {
		t.Fatalf("expected VALIDATION, got %+v", result)
	}
}

func TestUpdateTaskStatusEmitsMilestoneOnCompletion(t *testing.T) {
	store := goal.NewStore()
	tool := New(runtimeWithGoals(t), store)
	g := store.CreateGoal("ship it")
	if err := store.PlanTasks(g.ID, []goal.TaskInput{{Title: "write code"}}); err != nil {
		t.Fatalf("plan tasks: %v", err)
	}
	got, _ := store.Get(g.ID)
	task := got.Tasks[0]

	actx := newContext()
	raw, _ := json.Marshal(map[string]any{
		"operation": "update_task_status",
		"goal_id":   g.ID,
		"task_id":   task.ID,
		"status":    "COMPLETED",
	})
	result, err := tool.Execute(context.Background(), actx, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(actx.Milestones) != 1 || actx.Milestones[0].Kind != "TASK_COMPLETED" {
		t.Fatalf("expected a TASK_COMPLETED milestone, got %+v", actx.Milestones)
	}
}

func TestCompleteGoalFailsWithOutstandingTask(t *testing.T) {
	store := goal.NewStore()
	tool := New(runtimeWithGoals(t), store)
	g := store.CreateGoal("ship it")
	if err := store.PlanTasks(g.ID, []goal.TaskInput{{Title: "write code"}}); err != nil {
		t.Fatalf("plan tasks: %v", err)
	}

	raw, _ := json.Marshal(map[string]any{"operation": "complete_goal", "goal_id": g.ID})
	result, err := tool.Execute(context.Background(), newContext(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success || result.FailureKind != agentstate.FailureUpstreamError {
		t.Fatalf("expected UPSTREAM_ERROR, got %+v", result)
	}
}
