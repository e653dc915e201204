package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/focusforge/focusforge/internal/config"
	"github.com/focusforge/focusforge/internal/enrich"
	"github.com/focusforge/focusforge/internal/llm"
	"github.com/focusforge/focusforge/internal/plan"
	"github.com/focusforge/focusforge/internal/session"
	"github.com/focusforge/focusforge/internal/tools"
)

const retryPreamble = "Output only valid JSON.\n\n"

// Engine orchestrates the deterministic session pipeline and its optional AI
// enrichment. Every external failure downgrades to the deterministic result;
// the one exception is tool iteration exhaustion, which propagates.
type Engine struct {
	analyzer llm.Provider
	planner  llm.Provider
	registry *tools.Registry
	caps     config.Capabilities
	log      *zap.Logger
	timeout  time.Duration
	now      func() time.Time
}

type Options struct {
	Analyzer llm.Provider
	Planner  llm.Provider
	Registry *tools.Registry
	Caps     config.Capabilities
	Log      *zap.Logger
	Timeout  time.Duration
}

func New(opts Options) *Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 35 * time.Second
	}
	return &Engine{
		analyzer: opts.Analyzer,
		planner:  opts.Planner,
		registry: opts.Registry,
		caps:     opts.Caps,
		log:      log,
		timeout:  timeout,
		now:      time.Now,
	}
}

// AnalyzeSession turns raw browsing events into a session summary. With AI
// enrichment enabled the model output is decoded, normalized and validated
// against the input events; anything short of a fully grounded document falls
// back to the deterministic summary.
func (e *Engine) AnalyzeSession(ctx context.Context, goal string, events []session.Event) (session.Summary, error) {
	if len(events) == 0 || !e.caps.AIEnrichment {
		return session.BasicSummary(goal, events), nil
	}

	buckets := session.GroupByDomain(events)
	workspaces := session.BuildWorkspaces(buckets, session.DefaultMaxWorkspaces)
	lastStop := session.SelectLastStop(events)

	input, err := analysisContext(goal, events, workspaces, lastStop)
	if err != nil {
		return e.analysisFallback(ctx, goal, events, "call_failed", err), nil
	}
	prompt := analyzerPrompt + "\n\nInput:\n" + input

	doc, kind, err := e.enrichment(ctx, prompt)
	if err != nil {
		return e.analysisFallback(ctx, goal, events, kind, err), nil
	}

	enrich.Normalize(doc)
	warnings, err := enrich.Validate(doc, events)
	for _, warning := range warnings {
		e.log.Warn("enrichment warning",
			zap.String("analysis_id", AnalysisID(ctx)),
			zap.String("warning", warning))
	}
	if err != nil {
		return e.analysisFallback(ctx, goal, events, "validation_failed", err), nil
	}

	summary, err := enrich.ToSummary(doc)
	if err != nil {
		return e.analysisFallback(ctx, goal, events, "validation_failed", err), nil
	}
	return summary, nil
}

// enrichment calls the analyzer and decodes its reply, retrying once with a
// stricter instruction when the first reply does not parse.
func (e *Engine) enrichment(ctx context.Context, prompt string) (map[string]any, string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.analyzer.Generate(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, "call_failed", err
	}
	doc, decodeErr := enrich.Decode(raw)
	if decodeErr == nil {
		return doc, "", nil
	}

	raw, err = e.analyzer.Generate(ctx, []llm.Message{{Role: "user", Content: retryPreamble + prompt}})
	if err != nil {
		return nil, "call_failed", err
	}
	doc, decodeErr = enrich.Decode(raw)
	if decodeErr != nil {
		return nil, "bad_json", decodeErr
	}
	return doc, "", nil
}

func (e *Engine) analysisFallback(ctx context.Context, goal string, events []session.Event, kind string, err error) session.Summary {
	e.log.Warn("AI enrichment failed",
		zap.String("analysis_id", AnalysisID(ctx)),
		zap.String("error_kind", kind),
		zap.String("fallback", "basic_summary"),
		zap.Error(err))
	return session.BasicSummary(goal, events)
}

// PlanTasks produces a prioritized task plan for a session summary. The
// planner runs with tool access when the provider supports it and tools are
// registered. There is no JSON retry on this path.
func (e *Engine) PlanTasks(ctx context.Context, summary session.Summary, userGoal string) (plan.TaskPlan, error) {
	if !e.caps.AIEnrichment {
		return plan.BasicPlan(summary), nil
	}

	input, err := plannerContext(summary, userGoal, e.now())
	if err != nil {
		return e.planFallback(ctx, summary, "call_failed", err), nil
	}
	prompt := plannerPrompt + "\n\nAnalysis Summary:\n" + input

	raw, err := e.planning(ctx, prompt)
	if err != nil {
		if errors.Is(err, llm.ErrToolIterationsExhausted) {
			return plan.TaskPlan{}, err
		}
		return e.planFallback(ctx, summary, "call_failed", err), nil
	}

	doc, err := enrich.Decode(raw)
	if err != nil {
		return e.planFallback(ctx, summary, "bad_json", err), nil
	}
	return plan.Sanitize(doc), nil
}

func (e *Engine) planning(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	messages := []llm.Message{{Role: "user", Content: prompt}}
	if caller, ok := e.planner.(llm.ToolCaller); ok && e.registry != nil && len(e.registry.List()) > 0 {
		return caller.GenerateWithTools(ctx, messages, e.registry.Specs(), e.registry.Execute)
	}
	return e.planner.Generate(ctx, messages)
}

func (e *Engine) planFallback(ctx context.Context, summary session.Summary, kind string, err error) plan.TaskPlan {
	e.log.Warn("AI planning failed",
		zap.String("analysis_id", AnalysisID(ctx)),
		zap.String("error_kind", kind),
		zap.String("fallback", "basic_plan"),
		zap.Error(err))
	return plan.BasicPlan(summary)
}

type ctxKey struct{}

// WithAnalysisID attaches a fresh analysis id to the context so every log
// line and response header for one request can be correlated.
func WithAnalysisID(ctx context.Context) (context.Context, string) {
	id := uuid.New().String()
	return context.WithValue(ctx, ctxKey{}, id), id
}

func AnalysisID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
