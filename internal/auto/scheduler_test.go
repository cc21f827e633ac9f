package auto

import (
	"context"
	"testing"
	"time"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
	"github.com/agentcore/turnengine/internal/goal"
	"github.com/agentcore/turnengine/internal/llm"
	"github.com/agentcore/turnengine/internal/tooling"
	"github.com/agentcore/turnengine/internal/turn"
)

type fakeClient struct {
	resp *llm.Response
	err  error
}

func (c *fakeClient) Call(ctx context.Context, model string, messages []llm.Message, tools []llm.ToolSchema, reasoning string, temperature float64, timeout time.Duration) (*llm.Response, error) {
	return c.resp, c.err
}

type fakeCaller struct {
	client llm.Client
}

func (c *fakeCaller) Resolve(tier string) (llm.Client, string, string, error) {
	return c.client, "test-model", "", nil
}

type recordingSink struct {
	published []agentstate.Milestone
}

func (s *recordingSink) Publish(ctx context.Context, m agentstate.Milestone) {
	s.published = append(s.published, m)
}

func runtimeWithAuto(t *testing.T, enabled, autoStart bool) *config.Runtime {
	t.Helper()
	s := config.Defaults()
	s.Auto.Enabled = enabled
	s.Auto.AutoStart = autoStart
	s.Auto.MaxGoals = 3
	s.Auto.TaskTimeLimitMinutes = 30
	s.Auto.NotifyMilestones = true
	return config.NewRuntimeWithSettings(s)
}

func TestTickIsNoopWhenAutoDisabled(t *testing.T) {
	goals := goal.NewStore()
	g := goals.CreateGoal("goal")
	if err := goals.PlanTasks(g.ID, []goal.TaskInput{{Title: "task"}}); err != nil {
		t.Fatalf("plan tasks: %v", err)
	}

	client := &fakeClient{resp: &llm.Response{Kind: llm.ResponseFinal, Text: "done"}}
	engine := turn.New(tooling.New(), &fakeCaller{client: client}, nil)
	sched := New(runtimeWithAuto(t, false, false), goals, engine, nil, nil)

	sched.tick(context.Background())

	got, _ := goals.Get(g.ID)
	if got.Tasks[0].Status != goal.TaskPending {
		t.Fatalf("expected task to remain PENDING while auto is disabled, got %s", got.Tasks[0].Status)
	}
}

func TestTickMarksOldestPendingTaskInProgress(t *testing.T) {
	goals := goal.NewStore()
	g := goals.CreateGoal("goal")
	if err := goals.PlanTasks(g.ID, []goal.TaskInput{{Title: "task"}}); err != nil {
		t.Fatalf("plan tasks: %v", err)
	}

	client := &fakeClient{resp: &llm.Response{Kind: llm.ResponseFinal, Text: "done"}}
	engine := turn.New(tooling.New(), &fakeCaller{client: client}, nil)
	sink := &recordingSink{}
	sched := New(runtimeWithAuto(t, true, true), goals, engine, sink, nil)

	sched.tick(context.Background())

	got, _ := goals.Get(g.ID)
	if got.Tasks[0].Status != goal.TaskInProgress {
		t.Fatalf("expected task marked IN_PROGRESS by the tick, got %s", got.Tasks[0].Status)
	}
}

func TestRunTaskMarksTaskFailedOnTurnError(t *testing.T) {
	goals := goal.NewStore()
	g := goals.CreateGoal("goal")
	if err := goals.PlanTasks(g.ID, []goal.TaskInput{{Title: "task"}}); err != nil {
		t.Fatalf("plan tasks: %v", err)
	}

	// Two consecutive empty tool-call responses make the engine give
	// up with an error, which runTask must turn into a FAILED task
	// while leaving the goal itself ACTIVE (spec.md §4.8).
	client := &fakeClient{resp: &llm.Response{Kind: llm.ResponseToolCalls, Calls: nil}}
	engine := turn.New(tooling.New(), &fakeCaller{client: client}, nil)
	rt := runtimeWithAuto(t, true, true)
	sched := New(rt, goals, engine, nil, nil)

	got, _ := goals.Get(g.ID)
	task := got.Tasks[0]
	if err := goals.UpdateTaskStatus(g.ID, task.ID, goal.TaskInProgress); err != nil {
		t.Fatalf("update task status: %v", err)
	}
	sched.runTask(context.Background(), got, task, rt.Snapshot().Settings().Auto)

	got, _ = goals.Get(g.ID)
	if got.Status != goal.GoalActive {
		t.Fatalf("expected goal to remain ACTIVE, got %s", got.Status)
	}
	if got.Tasks[0].Status != goal.TaskFailed {
		t.Fatalf("expected task FAILED, got %s", got.Tasks[0].Status)
	}
}
