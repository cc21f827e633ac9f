package config

import (
	"log/slog"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Runtime holds a live, hot-reloadable Settings value and hands out
// point-in-time snapshots. A filesystem watcher (WatchForReload) may
// swap the live value at any time. Nothing holds one Snapshot for the
// length of a turn: the tool executors call Snapshot() on every
// IsEnabled/Execute, so a reload that lands mid-turn is seen by the
// tool calls that follow it.
type Runtime struct {
	path    string
	current atomic.Pointer[Settings]
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// NewRuntime loads path once and returns a Runtime serving it.
func NewRuntime(path string, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}
	settings, err := Load(path)
	if err != nil {
		return nil, err
	}
	r := &Runtime{path: path, logger: logger}
	r.current.Store(&settings)
	return r, nil
}

// NewRuntimeWithSettings builds a Runtime directly from an in-memory
// Settings value, with no backing file and no reload watcher. Used by
// tool executor wiring and tests that construct Settings
// programmatically rather than loading YAML from disk.
func NewRuntimeWithSettings(settings Settings) *Runtime {
	r := &Runtime{logger: slog.Default()}
	r.current.Store(&settings)
	return r
}

// Snapshot returns an immutable view of the Settings live at the time
// of the call. Each call loads the current value, so two calls made
// during one turn return different Settings if a reload lands between
// them.
func (r *Runtime) Snapshot() Snapshot {
	return Snapshot{s: r.current.Load()}
}

// WatchForReload starts a filesystem watch on the backing config
// file and hot-swaps the live Settings on change. It must only be
// called outside of in-flight turns (callers typically start it once
// at process boot). Stop the returned watcher to end watching.
func (r *Runtime) WatchForReload() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(r.path); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	r.watcher = watcher
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				settings, err := Load(r.path)
				if err != nil {
					r.logger.Warn("config reload failed", "error", err, "path", r.path)
					continue
				}
				r.current.Store(&settings)
				r.logger.Info("config reloaded", "path", r.path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warn("config watch error", "error", err)
			}
		}
	}()
	return watcher, nil
}

// Snapshot is a read-only, turn-scoped view over Settings with the
// typed getters spec.md §4.9 names.
type Snapshot struct {
	s *Settings
}

func (s Snapshot) Settings() Settings { return *s.s }

func (s Snapshot) IsFilesystemEnabled() bool { return s.s.Tools.FilesystemEnabled }
func (s Snapshot) IsShellEnabled() bool      { return s.s.Tools.ShellEnabled }
func (s Snapshot) IsBrowserEnabled() bool    { return s.s.Tools.BrowserEnabled }
func (s Snapshot) IsMemoryEnabled() bool     { return s.s.Tools.MemoryEnabled && s.s.Memory.Enabled }
func (s Snapshot) IsWebSearchEnabled() bool  { return s.s.Tools.WebSearchEnabled }
func (s Snapshot) IsEmailEnabled() bool      { return s.s.Tools.EmailEnabled }
func (s Snapshot) IsPlanEnabled() bool       { return s.s.Tools.PlanEnabled }
func (s Snapshot) IsTierToolEnabled() bool   { return s.s.Tools.TierToolEnabled }
func (s Snapshot) IsVoiceToolEnabled() bool  { return s.s.Tools.VoiceToolEnabled && s.s.Voice.Enabled }
func (s Snapshot) IsGoalsEnabled() bool      { return s.s.Tools.GoalsEnabled }
func (s Snapshot) IsDatetimeEnabled() bool   { return s.s.Tools.DatetimeEnabled }
func (s Snapshot) IsWeatherEnabled() bool    { return s.s.Tools.WeatherEnabled }

func (s Snapshot) GetMemorySoftPromptBudgetTokens() int {
	return s.s.Memory.SoftPromptBudgetTokens
}
func (s Snapshot) GetMemoryMaxPromptBudgetTokens() int {
	return s.s.Memory.MaxPromptBudgetTokens
}
func (s Snapshot) GetMemoryPromotionMinConfidence() float64 {
	return s.s.Memory.PromotionMinConfidence
}

func (s Snapshot) IsPromptInjectionDetectionEnabled() bool {
	return s.s.Tools.PromptInjectionDetectionEnabled
}
func (s Snapshot) IsCommandInjectionDetectionEnabled() bool {
	return s.s.Tools.CommandInjectionDetectionEnabled
}

func (s Snapshot) Workspace() string { return s.s.Tools.Workspace }
