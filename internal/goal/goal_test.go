package goal

import "testing"

func TestPlanTasksRequiresNonEmpty(t *testing.T) {
	s := NewStore()
	g := s.CreateGoal("ship feature")
	if err := s.PlanTasks(g.ID, nil); err == nil {
		t.Fatal("expected error for empty task list")
	}
}

func TestCompleteGoalRejectsOutstandingTasks(t *testing.T) {
	s := NewStore()
	g := s.CreateGoal("ship feature")
	if err := s.PlanTasks(g.ID, []TaskInput{{Title: "write code"}}); err != nil {
		t.Fatalf("plan tasks: %v", err)
	}
	if err := s.CompleteGoal(g.ID); err == nil {
		t.Fatal("expected error completing goal with a pending task")
	}

	got, _ := s.Get(g.ID)
	task := got.Tasks[0]
	if err := s.UpdateTaskStatus(g.ID, task.ID, TaskCompleted); err != nil {
		t.Fatalf("update task status: %v", err)
	}
	if err := s.CompleteGoal(g.ID); err != nil {
		t.Fatalf("expected goal to complete: %v", err)
	}

	got, _ = s.Get(g.ID)
	if got.Status != GoalCompleted {
		t.Fatalf("expected GoalCompleted, got %s", got.Status)
	}
}

func TestOldestActiveWithPendingTaskPicksOldest(t *testing.T) {
	s := NewStore()
	first := s.CreateGoal("first")
	second := s.CreateGoal("second")
	if err := s.PlanTasks(second.ID, []TaskInput{{Title: "task"}}); err != nil {
		t.Fatalf("plan tasks: %v", err)
	}
	if err := s.PlanTasks(first.ID, []TaskInput{{Title: "task"}}); err != nil {
		t.Fatalf("plan tasks: %v", err)
	}

	g, _, ok := s.OldestActiveWithPendingTask()
	if !ok {
		t.Fatal("expected a goal with a pending task")
	}
	if g.ID != first.ID {
		t.Fatalf("expected oldest goal %s, got %s", first.ID, g.ID)
	}
}

func TestMarkTaskFailedWritesDiaryAndKeepsGoalActive(t *testing.T) {
	s := NewStore()
	g := s.CreateGoal("goal")
	if err := s.PlanTasks(g.ID, []TaskInput{{Title: "task"}}); err != nil {
		t.Fatalf("plan tasks: %v", err)
	}
	got, _ := s.Get(g.ID)
	task := got.Tasks[0]

	if err := s.MarkTaskFailed(g.ID, task.ID, "budget exceeded"); err != nil {
		t.Fatalf("mark task failed: %v", err)
	}

	got, _ = s.Get(g.ID)
	if got.Status != GoalActive {
		t.Fatalf("expected goal to remain ACTIVE, got %s", got.Status)
	}
	if got.Tasks[0].Status != TaskFailed {
		t.Fatalf("expected task FAILED, got %s", got.Tasks[0].Status)
	}
	if len(got.Diary) != 1 || got.Diary[0].Text != "budget exceeded" {
		t.Fatalf("expected diary entry recorded, got %+v", got.Diary)
	}
}
