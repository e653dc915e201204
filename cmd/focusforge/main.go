package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/focusforge/focusforge/internal/api"
	"github.com/focusforge/focusforge/internal/config"
	"github.com/focusforge/focusforge/internal/engine"
	"github.com/focusforge/focusforge/internal/llm"
	"github.com/focusforge/focusforge/internal/session"
	"github.com/focusforge/focusforge/internal/tools"
)

const (
	analyzerTemperature = 0.3
	plannerTemperature  = 0.4
)

var (
	version = "dev"
	commit  = "unknown"
)

var (
	configPath string
	goalFlag   string
	pretty     bool
	noAI       bool
)

type server interface {
	Start(ctx context.Context, addr string) error
}

var (
	loadConfig  = config.Load
	newProvider = llm.NewProvider
	newLogger   = func(level string) (*zap.Logger, error) {
		cfg := zap.NewProductionConfig()
		if parsed, err := zapcore.ParseLevel(level); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(parsed)
		}
		return cfg.Build()
	}
	newServer = func(analyzer api.Analyzer, caps config.Capabilities, log *zap.Logger) server {
		return api.NewServer(analyzer, caps, log)
	}
	notifyContext = signal.NotifyContext
)

var rootCmd = &cobra.Command{
	Use:           "focusforge",
	Short:         "Analyze browser focus sessions and plan what to do next",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze session events from stdin",
	Long:  `Reads {"goal", "events"} JSON on stdin and writes the session summary to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a task plan from a summary or raw events on stdin",
	Long:  `Reads {"summary"} or {"goal", "events"} JSON on stdin and writes the task plan to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(cmd)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "focusforge %s (commit %s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	for _, cmd := range []*cobra.Command{analyzeCmd, planCmd} {
		cmd.Flags().StringVar(&goalFlag, "goal", "", "Session goal, overrides the goal in the input")
		cmd.Flags().BoolVar(&pretty, "pretty", false, "Render a terminal view instead of JSON")
		cmd.Flags().BoolVar(&noAI, "no-ai", false, "Skip AI enrichment and use the deterministic pipeline")
	}
	rootCmd.AddCommand(serveCmd, analyzeCmd, planCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_ = json.NewEncoder(os.Stderr).Encode(map[string]string{"error": err.Error()})
		os.Exit(1)
	}
}

func runServe() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	eng, caps, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}

	server := newServer(eng, caps, logger)
	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("focusforge listening",
		zap.String("addr", addr),
		zap.Bool("ai_enrichment", caps.AIEnrichment),
		zap.Bool("calendar", caps.Calendar),
		zap.Bool("email", caps.Email),
	)
	if err := server.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type analyzeInput struct {
	Goal   string          `json:"goal"`
	Events []session.Event `json:"events"`
}

func runAnalyze(cmd *cobra.Command) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if noAI {
		cfg.LLMProvider = "disabled"
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var input analyzeInput
	if err := json.NewDecoder(cmd.InOrStdin()).Decode(&input); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	goal := input.Goal
	if goalFlag != "" {
		goal = goalFlag
	}

	ctx, cancel := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	eng, _, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}

	summary, err := eng.AnalyzeSession(ctx, goal, input.Events)
	if err != nil {
		return err
	}
	if pretty {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
		return nil
	}
	return writeIndented(cmd.OutOrStdout(), summary)
}

type planInput struct {
	Goal    string           `json:"goal"`
	Events  []session.Event  `json:"events"`
	Summary *session.Summary `json:"summary"`
}

func runPlan(cmd *cobra.Command) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if noAI {
		cfg.LLMProvider = "disabled"
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var input planInput
	if err := json.NewDecoder(cmd.InOrStdin()).Decode(&input); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	goal := input.Goal
	if goalFlag != "" {
		goal = goalFlag
	}

	ctx, cancel := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	eng, _, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var summary session.Summary
	if input.Summary != nil {
		summary = *input.Summary
	} else {
		summary, err = eng.AnalyzeSession(ctx, goal, input.Events)
		if err != nil {
			return err
		}
	}

	taskPlan, err := eng.PlanTasks(ctx, summary, goal)
	if err != nil {
		return err
	}
	if pretty {
		fmt.Fprintln(cmd.OutOrStdout(), renderPlan(taskPlan))
		return nil
	}
	return writeIndented(cmd.OutOrStdout(), taskPlan)
}

// buildEngine wires providers and tools from config. Providers are only
// constructed when enrichment is enabled; remote constructors reject empty
// keys.
func buildEngine(ctx context.Context, cfg config.Config, logger *zap.Logger) (*engine.Engine, config.Capabilities, error) {
	caps := cfg.Capabilities()

	var analyzer llm.Provider = llm.DisabledProvider{}
	var planner llm.Provider = llm.DisabledProvider{}
	if caps.AIEnrichment {
		var err error
		analyzer, err = newProvider(ctx, llm.Config{
			Provider:          cfg.LLMProvider,
			Model:             cfg.LLMModel,
			BaseURL:           cfg.LLMBaseURL,
			GeminiAPIKey:      cfg.GeminiAPIKey,
			OpenAIAPIKey:      cfg.OpenAIAPIKey,
			Temperature:       analyzerTemperature,
			MaxToolIterations: cfg.MaxToolIterations,
		})
		if err != nil {
			return nil, config.Capabilities{}, err
		}
		planner, err = newProvider(ctx, llm.Config{
			Provider:          cfg.LLMProvider,
			Model:             cfg.LLMPlannerModel,
			BaseURL:           cfg.LLMBaseURL,
			GeminiAPIKey:      cfg.GeminiAPIKey,
			OpenAIAPIKey:      cfg.OpenAIAPIKey,
			Temperature:       plannerTemperature,
			MaxToolIterations: cfg.MaxToolIterations,
		})
		if err != nil {
			return nil, config.Capabilities{}, err
		}
	}

	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		return nil, config.Capabilities{}, err
	}

	eng := engine.New(engine.Options{
		Analyzer: analyzer,
		Planner:  planner,
		Registry: registry,
		Caps:     caps,
		Log:      logger,
		Timeout:  time.Duration(cfg.LLMTimeoutSec) * time.Second,
	})
	return eng, caps, nil
}

func buildRegistry(ctx context.Context, cfg config.Config) (*tools.Registry, error) {
	calendarClient, err := tools.NewCalendarClient(ctx, cfg.CalendarToken)
	if err != nil {
		return nil, err
	}
	emailClient, err := tools.NewEmailClient(ctx, cfg.GmailToken, tools.SMTPConfig{
		Server:   cfg.SMTPServer,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
	})
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry()
	for _, tool := range tools.CalendarTools(calendarClient) {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	for _, tool := range tools.EmailTools(emailClient) {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func writeIndented(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
