// Package main provides the CLI entry point for the Agent Turn
// Engine: a single-process agent runtime that drives one Turn Engine
// (C7) run per inbound message against a configured tool registry
// (C1/C2), memory engine (C4), model router (C5/C6), plan service
// (C10), and an optional autonomous goal scheduler (C8).
//
// # Basic Usage
//
// Run one turn against a message read from stdin:
//
//	agentcore turn --config agentcore.yaml
//
// Start the autonomous goal scheduler and block:
//
//	agentcore auto --config agentcore.yaml
//
// Check configuration and provider wiring:
//
//	agentcore status --config agentcore.yaml
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentcore/turnengine/internal/agentstate"
	"github.com/agentcore/turnengine/internal/auto"
	"github.com/agentcore/turnengine/internal/config"
	"github.com/agentcore/turnengine/internal/goal"
	"github.com/agentcore/turnengine/internal/llm"
	"github.com/agentcore/turnengine/internal/memory"
	"github.com/agentcore/turnengine/internal/plan"
	"github.com/agentcore/turnengine/internal/routing"
	"github.com/agentcore/turnengine/internal/skill"
	"github.com/agentcore/turnengine/internal/tooling"
	"github.com/agentcore/turnengine/internal/tools/browser"
	"github.com/agentcore/turnengine/internal/tools/datetime"
	"github.com/agentcore/turnengine/internal/tools/email"
	"github.com/agentcore/turnengine/internal/tools/filesystem"
	goaltool "github.com/agentcore/turnengine/internal/tools/goalmanagement"
	memtool "github.com/agentcore/turnengine/internal/tools/memory"
	plantool "github.com/agentcore/turnengine/internal/tools/plan"
	"github.com/agentcore/turnengine/internal/tools/sendvoice"
	"github.com/agentcore/turnengine/internal/tools/settier"
	"github.com/agentcore/turnengine/internal/tools/shell"
	"github.com/agentcore/turnengine/internal/tools/skilltransition"
	"github.com/agentcore/turnengine/internal/tools/weather"
	"github.com/agentcore/turnengine/internal/tools/websearch"
	"github.com/agentcore/turnengine/internal/turn"
)

// Build information, populated by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	rootCmd := buildRootCmd(logger)
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func buildRootCmd(logger *slog.Logger) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "agentcore",
		Short:        "Agent Turn Engine — a single-process agent runtime",
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "agentcore.yaml", "Path to YAML configuration file")

	rootCmd.AddCommand(
		buildTurnCmd(logger, &configPath),
		buildAutoCmd(logger, &configPath),
		buildStatusCmd(logger, &configPath),
	)
	return rootCmd
}

// app bundles every wired component a turn or the scheduler needs.
type app struct {
	runtime *config.Runtime
	tools   *tooling.Registry
	caller  *routing.Caller
	router  *routing.Router
	engine  *turn.Engine
	memory  *memory.Engine
	goals   *goal.Store
	planSvc *plan.Service
	skills  *skill.Registry
}

// buildApp loads configuration and wires every component described in
// SPEC_FULL.md: the tool registry (C1/C2), the memory engine (C4), the
// model router and LLM registry (C5/C6) behind routing.Caller, the
// turn engine (C7), the plan service (C10), and the goal store shared
// by the goal_management tool and the Auto Scheduler (C8).
func buildApp(configPath string, logger *slog.Logger) (*app, error) {
	rt, err := config.NewRuntime(configPath, logger)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	settings := rt.Snapshot().Settings()

	creds := make(map[string]llm.ProviderCredentials, len(settings.LLM.Providers))
	keyPresent := make(map[string]bool, len(settings.LLM.Providers))
	for name, p := range settings.LLM.Providers {
		creds[name] = llm.ProviderCredentials{BaseURL: p.BaseURL, APIKey: p.APIKey}
		keyPresent[name] = p.APIKeyPresent()
	}
	llmRegistry, err := llm.NewRegistry(creds)
	if err != nil {
		return nil, fmt.Errorf("build llm registry: %w", err)
	}

	router := routing.New(settings.Router)
	caller := routing.NewCaller(router, llmRegistry, keyPresent)

	memStore, err := memory.Open(settings.Memory.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open memory store: %w", err)
	}
	var embedder memory.EmbeddingProvider
	if openAICreds, ok := creds["openai"]; ok && keyPresent["openai"] {
		embedder = memory.NewOpenAIEmbeddings(openAICreds.APIKey, openAICreds.BaseURL)
	}
	memEngine := memory.New(memStore, embedder)

	goals := goal.NewStore()
	planSvc := plan.New()
	skills := skill.NewRegistry()

	tools := tooling.New()
	registerTools(tools, rt, memEngine, goals, planSvc, skills)

	engine := turn.New(tools, caller, router)

	return &app{
		runtime: rt, tools: tools, caller: caller, router: router,
		engine: engine, memory: memEngine, goals: goals, planSvc: planSvc, skills: skills,
	}, nil
}

// registerTools wires every C2 tool executor against the runtime and
// its supporting components. A malformed tool schema is a programming
// bug caught at startup via MustRegister, matching the teacher's
// eager-compile idiom in internal/tooling.Registry.
func registerTools(tools *tooling.Registry, rt *config.Runtime, memEngine *memory.Engine, goals *goal.Store, planSvc *plan.Service, skills *skill.Registry) {
	tools.MustRegister(filesystem.New(rt))
	tools.MustRegister(shell.New(rt, config.DefaultToolTimeout, nil))
	tools.MustRegister(browser.New(rt))
	tools.MustRegister(websearch.New(rt))
	tools.MustRegister(email.New(rt))
	tools.MustRegister(memtool.New(rt, memEngine))
	tools.MustRegister(plantool.NewGetTool(rt, planSvc))
	tools.MustRegister(plantool.NewSetContentTool(rt, planSvc))
	tools.MustRegister(plantool.NewFinalizeTool(rt, planSvc))
	tools.MustRegister(skilltransition.New(rt, skills))
	tools.MustRegister(settier.New(rt))
	tools.MustRegister(sendvoice.New(rt))
	tools.MustRegister(goaltool.New(rt, goals))
	tools.MustRegister(datetime.New(rt))
	tools.MustRegister(weather.New(rt))
}

// buildTurnCmd runs exactly one turn against a message read from
// stdin (or the --message flag) and prints the resulting text to
// stdout. This is the minimal, scriptable entry point the server-mode
// channel adapters described in spec.md §1 would sit in front of —
// those adapters are out of scope here (Non-goals).
func buildTurnCmd(logger *slog.Logger, configPath *string) *cobra.Command {
	var message string
	var sessionID string

	cmd := &cobra.Command{
		Use:   "turn",
		Short: "Run a single Turn Engine turn and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath, logger)
			if err != nil {
				return err
			}

			if message == "" {
				data, err := io.ReadAll(bufio.NewReader(cmd.InOrStdin()))
				if err != nil {
					return fmt.Errorf("read message: %w", err)
				}
				message = string(data)
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			settings := a.runtime.Snapshot().Settings()
			deadline, err := turn.ParseISO8601Duration(settings.Turn.Deadline)
			if err != nil {
				return fmt.Errorf("parse turn deadline: %w", err)
			}
			budget := agentstate.TurnBudget{
				MaxLLMCalls:       settings.Turn.MaxLLMCalls,
				MaxToolExecutions: settings.Turn.MaxToolExecutions,
				Deadline:          deadline,
			}

			session := &agentstate.AgentSession{ID: sessionID}
			actx := agentstate.New(session, budget, agentstate.UserPreferences{})
			actx.Append(agentstate.Message{
				ID:      uuid.NewString(),
				Role:    agentstate.RoleUser,
				Content: message,
			})

			result, err := a.engine.Run(cmd.Context(), actx, "")
			if err != nil {
				return fmt.Errorf("run turn: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Text)
			if result.VoiceText != "" {
				fmt.Fprintln(out, "[voice]", result.VoiceText)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message text (reads stdin if omitted)")
	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (random if omitted)")
	return cmd
}

// buildAutoCmd starts the Auto Scheduler (C8) heartbeat and blocks
// until SIGINT/SIGTERM, mirroring the teacher's serve-command
// graceful-shutdown idiom.
func buildAutoCmd(logger *slog.Logger, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Run the autonomous goal scheduler until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sched := auto.New(a.runtime, a.goals, a.engine, nil, logger)
			logger.Info("auto scheduler starting")
			sched.Run(ctx)
			logger.Info("auto scheduler stopped")
			return nil
		},
	}
	return cmd
}

// buildStatusCmd reports which tools are enabled and which model
// providers have credentials configured, without running a turn.
func buildStatusCmd(logger *slog.Logger, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report configuration and provider wiring status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath, logger)
			if err != nil {
				return err
			}
			snap := a.runtime.Snapshot()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "tools:")
			for _, name := range []struct {
				label   string
				enabled bool
			}{
				{"filesystem", snap.IsFilesystemEnabled()},
				{"shell", snap.IsShellEnabled()},
				{"browser", snap.IsBrowserEnabled()},
				{"memory", snap.IsMemoryEnabled()},
				{"brave_search", snap.IsWebSearchEnabled()},
				{"email", snap.IsEmailEnabled()},
				{"plan", snap.IsPlanEnabled()},
				{"set_tier", snap.IsTierToolEnabled()},
				{"send_voice", snap.IsVoiceToolEnabled()},
				{"goal_management", snap.IsGoalsEnabled()},
				{"datetime", snap.IsDatetimeEnabled()},
				{"weather", snap.IsWeatherEnabled()},
			} {
				fmt.Fprintf(out, "  %-16s %v\n", name.label, name.enabled)
			}

			fmt.Fprintln(out, "providers:")
			settings := snap.Settings()
			for name, p := range settings.LLM.Providers {
				fmt.Fprintf(out, "  %-16s key_present=%v base_url=%s\n", name, p.APIKeyPresent(), p.BaseURL)
			}
			return nil
		},
	}
	return cmd
}
