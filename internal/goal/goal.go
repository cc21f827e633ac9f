// Package goal holds the Goal / AutoTask / DiaryEntry data model
// (spec.md §3) shared by the goal_management tool executor (C2) and
// the Auto Scheduler (C8).
package goal

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// TaskStatus is an AutoTask's lifecycle state.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskFailed     TaskStatus = "FAILED"
)

// GoalStatus is a Goal's lifecycle state.
type GoalStatus string

const (
	GoalActive    GoalStatus = "ACTIVE"
	GoalCompleted GoalStatus = "COMPLETED"
)

// AutoTask is one ordered step of a Goal.
type AutoTask struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DiaryEntry is a free-text note attached to a Goal, typically written
// by the Auto Scheduler on task completion or termination.
type DiaryEntry struct {
	ID        string
	Text      string
	CreatedAt time.Time
}

// Goal is an ordered list of tasks pursued autonomously by the Auto
// Scheduler. Invariant: Status == GoalCompleted iff every non-failed
// task is COMPLETED and CompleteGoal was called explicitly (spec.md
// §3).
type Goal struct {
	ID         string
	Title      string
	Status     GoalStatus
	Tasks      []AutoTask
	Diary      []DiaryEntry
	CreatedAt  time.Time
	UpdatedAt  time.Time
	explicitlyCompleted bool
}

// TaskInput is one plan_tasks entry.
type TaskInput struct {
	Title       string
	Description string
}

// Store holds every Goal in memory, keyed by ID. Grounded on the
// package's AgentContext-free ownership split: goals outlive any
// single turn, so they live in their own mutex-guarded store rather
// than on an agentstate.Context.
type Store struct {
	mu    sync.Mutex
	goals map[string]*Goal
	seq   int
}

func NewStore() *Store {
	return &Store{goals: make(map[string]*Goal)}
}

func (s *Store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// CreateGoal adds a new ACTIVE goal with no tasks.
func (s *Store) CreateGoal(title string) Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	g := &Goal{
		ID:        s.nextID("goal"),
		Title:     title,
		Status:    GoalActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.goals[g.ID] = g
	return *g
}

// ListGoals returns every goal, oldest first.
func (s *Store) ListGoals() []Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Goal, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Get returns a copy of one goal by ID.
func (s *Store) Get(goalID string) (Goal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[goalID]
	if !ok {
		return Goal{}, false
	}
	return *g, true
}

// PlanTasks appends ordered tasks to a goal. Requires a non-empty
// slice (spec.md §4.2 plan_tasks).
func (s *Store) PlanTasks(goalID string, inputs []TaskInput) error {
	if len(inputs) == 0 {
		return fmt.Errorf("goal: plan_tasks requires a non-empty task list")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[goalID]
	if !ok {
		return fmt.Errorf("goal: goal not found: %s", goalID)
	}
	now := time.Now()
	for _, in := range inputs {
		if in.Title == "" {
			return fmt.Errorf("goal: task title is required")
		}
		g.Tasks = append(g.Tasks, AutoTask{
			ID:          s.nextID("task"),
			Title:       in.Title,
			Description: in.Description,
			Status:      TaskPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	g.UpdatedAt = now
	return nil
}

// UpdateTaskStatus transitions one task's status.
func (s *Store) UpdateTaskStatus(goalID, taskID string, status TaskStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[goalID]
	if !ok {
		return fmt.Errorf("goal: goal not found: %s", goalID)
	}
	for i := range g.Tasks {
		if g.Tasks[i].ID == taskID {
			g.Tasks[i].Status = status
			g.Tasks[i].UpdatedAt = time.Now()
			g.UpdatedAt = g.Tasks[i].UpdatedAt
			return nil
		}
	}
	return fmt.Errorf("goal: task not found: %s", taskID)
}

// CompleteGoal explicitly completes a goal. Fails if any task is
// still PENDING or IN_PROGRESS (spec.md §3 invariant).
func (s *Store) CompleteGoal(goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[goalID]
	if !ok {
		return fmt.Errorf("goal: goal not found: %s", goalID)
	}
	for _, t := range g.Tasks {
		if t.Status == TaskPending || t.Status == TaskInProgress {
			return fmt.Errorf("goal: cannot complete goal with outstanding task %s", t.ID)
		}
	}
	g.explicitlyCompleted = true
	g.Status = GoalCompleted
	g.UpdatedAt = time.Now()
	return nil
}

// WriteDiary appends a diary entry to a goal.
func (s *Store) WriteDiary(goalID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[goalID]
	if !ok {
		return fmt.Errorf("goal: goal not found: %s", goalID)
	}
	g.Diary = append(g.Diary, DiaryEntry{ID: s.nextID("diary"), Text: text, CreatedAt: time.Now()})
	g.UpdatedAt = time.Now()
	return nil
}

// MarkTaskFailed transitions a task to FAILED and appends a diary
// entry recording why, leaving the goal ACTIVE (spec.md §4.8 failure
// semantics).
func (s *Store) MarkTaskFailed(goalID, taskID, reason string) error {
	if err := s.UpdateTaskStatus(goalID, taskID, TaskFailed); err != nil {
		return err
	}
	return s.WriteDiary(goalID, reason)
}

// OldestActiveWithPendingTask returns the oldest ACTIVE goal that has
// at least one PENDING or IN_PROGRESS task, and that task, for the
// Auto Scheduler's tick selection (spec.md §4.8 step 1).
func (s *Store) OldestActiveWithPendingTask() (Goal, AutoTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var candidates []*Goal
	for _, g := range s.goals {
		if g.Status != GoalActive {
			continue
		}
		candidates = append(candidates, g)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].CreatedAt.Before(candidates[j].CreatedAt) })

	for _, g := range candidates {
		for _, t := range g.Tasks {
			if t.Status == TaskPending || t.Status == TaskInProgress {
				return *g, t, true
			}
		}
	}
	return Goal{}, AutoTask{}, false
}

// CountActive returns the number of goals currently ACTIVE, for the
// scheduler's maxGoals concurrency cap.
func (s *Store) CountActive() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, g := range s.goals {
		if g.Status == GoalActive {
			n++
		}
	}
	return n
}
