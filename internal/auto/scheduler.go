// Package auto implements the Auto Scheduler (C8): a 1s heartbeat
// that, when enabled, drives autonomous Turn Engine runs against
// pending goal tasks (spec.md §4.8).
package auto

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/config"
	"github.com/agentcore/turnengine/internal/goal"
	"github.com/agentcore/turnengine/internal/turn"
)

// MilestoneSink publishes a milestone to an external notification
// channel (out of scope per spec.md §1; only the publish call site is
// in scope here).
type MilestoneSink interface {
	Publish(ctx context.Context, milestone agentstate.Milestone)
}

// NoopSink discards milestones. Used when notifyMilestones is false
// or no sink is configured.
type NoopSink struct{}

func (NoopSink) Publish(context.Context, agentstate.Milestone) {}

// Scheduler runs the heartbeat tick described in spec.md §4.8, driven
// by a robfig/cron job rather than a bare ticker so the cadence is
// expressed the same declarative way the rest of this spec's
// schedule-shaped config (taskTimeLimitMinutes, tickIntervalSeconds)
// is documented.
type Scheduler struct {
	Runtime *config.Runtime
	Goals   *goal.Store
	Engine  *turn.Engine
	Sink    MilestoneSink
	Logger  *slog.Logger

	cron *cron.Cron
}

// New builds a Scheduler. sink may be nil, in which case milestones
// are discarded.
func New(rt *config.Runtime, goals *goal.Store, engine *turn.Engine, sink MilestoneSink, logger *slog.Logger) *Scheduler {
	if sink == nil {
		sink = NoopSink{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		Runtime: rt, Goals: goals, Engine: engine, Sink: sink, Logger: logger,
		cron: cron.New(cron.WithSeconds()),
	}
}

// Run starts the heartbeat job and blocks until ctx is cancelled or
// Stop is called. tickIntervalSeconds is always 1s per spec.md §4.8;
// each fire is a no-op unless autoStart, goal availability, and the
// maxGoals concurrency cap all allow work.
func (s *Scheduler) Run(ctx context.Context) {
	if _, err := s.cron.AddFunc("@every 1s", func() { s.tick(ctx) }); err != nil {
		s.Logger.Error("auto: schedule heartbeat", "error", err)
		return
	}
	s.cron.Start()
	defer s.cron.Stop()

	<-ctx.Done()
}

// Stop ends a running Run loop early, without waiting for ctx.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

func (s *Scheduler) tick(ctx context.Context) {
	cfg := s.Runtime.Snapshot().Settings().Auto
	if !cfg.Enabled || !cfg.AutoStart {
		return
	}

	g, task, ok := s.Goals.OldestActiveWithPendingTask()
	if !ok {
		return
	}
	if s.Goals.CountActive() > maxGoals(cfg.MaxGoals) {
		return
	}

	if err := s.Goals.UpdateTaskStatus(g.ID, task.ID, goal.TaskInProgress); err != nil {
		s.Logger.Error("auto: mark task in progress", "goal_id", g.ID, "task_id", task.ID, "error", err)
		return
	}

	s.runTask(ctx, g, task, cfg)
}

func (s *Scheduler) runTask(ctx context.Context, g goal.Goal, task goal.AutoTask, cfg config.AutoConfig) {
	budget := agentstate.TurnBudget{
		MaxLLMCalls:       20,
		MaxToolExecutions: 20,
		Deadline:          time.Duration(taskTimeLimitMinutes(cfg.TaskTimeLimitMinutes)) * time.Minute,
	}
	prefs := agentstate.UserPreferences{}
	if cfg.ModelTier != "" {
		prefs.ModelTierOverride = agentstate.ModelTier(cfg.ModelTier)
	}

	session := &agentstate.AgentSession{ID: "auto-" + g.ID}
	actx := agentstate.New(session, budget, prefs)
	actx.Append(agentstate.Message{
		ID:        uuid.NewString(),
		Role:      agentstate.RoleUser,
		Content:   synthesizedMessage(g, task),
		CreatedAt: time.Now(),
	})

	result, err := s.Engine.Run(ctx, actx, "")
	if err != nil {
		s.Logger.Error("auto: turn run failed", "goal_id", g.ID, "task_id", task.ID, "error", err)
		_ = s.Goals.MarkTaskFailed(g.ID, task.ID, "turn run error: "+err.Error())
		return
	}

	for _, m := range result.Milestones {
		if cfg.NotifyMilestones {
			s.Sink.Publish(ctx, m)
		}
	}

	switch result.FinalPhase {
	case turn.PhaseTerminatedBudget, turn.PhaseTerminatedDeadline:
		_ = s.Goals.MarkTaskFailed(g.ID, task.ID, result.Text)
	}
}

func synthesizedMessage(g goal.Goal, task goal.AutoTask) string {
	if task.Description != "" {
		return fmt.Sprintf("Continue working on goal %q. Next task: %s — %s", g.Title, task.Title, task.Description)
	}
	return fmt.Sprintf("Continue working on goal %q. Next task: %s", g.Title, task.Title)
}

func maxGoals(configured int) int {
	if configured <= 0 {
		return 3
	}
	return configured
}

func taskTimeLimitMinutes(configured int) int {
	if configured <= 0 {
		return 30
	}
	return configured
}
