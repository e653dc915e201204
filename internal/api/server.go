package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/focusforge/focusforge/internal/config"
	"github.com/focusforge/focusforge/internal/engine"
	"github.com/focusforge/focusforge/internal/plan"
	"github.com/focusforge/focusforge/internal/session"
)

type Server struct {
	engine Analyzer
	caps   config.Capabilities
	log    *zap.Logger
}

// Analyzer produces session summaries and task plans. Satisfied by *engine.Engine.
type Analyzer interface {
	AnalyzeSession(ctx context.Context, goal string, events []session.Event) (session.Summary, error)
	PlanTasks(ctx context.Context, summary session.Summary, userGoal string) (plan.TaskPlan, error)
}

func NewServer(analyzer Analyzer, caps config.Capabilities, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		engine: analyzer,
		caps:   caps,
		log:    log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(quietRequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Post("/analyze", s.analyze)
	r.Post("/plan", s.plan)
	r.Get("/health", s.health)
	r.Get("/ready", s.ready)

	return r
}

func quietRequestLogger(next http.Handler) http.Handler {
	logged := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSuppressRequestLog(r.Method, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		logged.ServeHTTP(w, r)
	})
}

func shouldSuppressRequestLog(method string, path string) bool {
	if method != http.MethodGet {
		return false
	}
	return path == "/health" || path == "/ready"
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type subsystemStatus struct {
	Status string `json:"status"`
}

type readinessResponse struct {
	Status     string                     `json:"status"`
	Subsystems map[string]subsystemStatus `json:"subsystems"`
}

// Disabled subsystems are not failures: analysis and planning fall back to the
// deterministic path, so readiness always reports ok.
func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	subsystems := map[string]subsystemStatus{
		"llm":      availability(s.caps.AIEnrichment),
		"calendar": availability(s.caps.Calendar),
		"email":    availability(s.caps.Email),
	}
	writeJSONStatus(w, readinessResponse{Status: "ok", Subsystems: subsystems}, http.StatusOK)
}

func availability(enabled bool) subsystemStatus {
	if enabled {
		return subsystemStatus{Status: "ok"}
	}
	return subsystemStatus{Status: "disabled"}
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	events, err := eventsField(body)
	if err != nil {
		writeError(w, "events must be an array", http.StatusBadRequest)
		return
	}
	goal := stringField(body, "goal")

	ctx, analysisID := engine.WithAnalysisID(r.Context())
	w.Header().Set("X-Analysis-ID", analysisID)

	summary, err := s.engine.AnalyzeSession(ctx, goal, events)
	if err != nil {
		s.log.Error("analysis failed", zap.String("analysis_id", analysisID), zap.Error(err))
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, summary)
}

func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	goal := stringField(body, "goal")

	ctx, analysisID := engine.WithAnalysisID(r.Context())
	w.Header().Set("X-Analysis-ID", analysisID)

	var summary session.Summary
	if raw, present := body["summary"]; present {
		if err := json.Unmarshal(raw, &summary); err != nil {
			writeError(w, "summary must be an object", http.StatusBadRequest)
			return
		}
	} else {
		events, err := eventsField(body)
		if err != nil {
			writeError(w, "events must be an array", http.StatusBadRequest)
			return
		}
		summary, err = s.engine.AnalyzeSession(ctx, goal, events)
		if err != nil {
			s.log.Error("analysis failed", zap.String("analysis_id", analysisID), zap.Error(err))
			writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	taskPlan, err := s.engine.PlanTasks(ctx, summary, goal)
	if err != nil {
		s.log.Error("planning failed", zap.String("analysis_id", analysisID), zap.Error(err))
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, taskPlan)
}

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, bool) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body) == 0 {
		writeError(w, "No data provided", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

func stringField(body map[string]json.RawMessage, key string) string {
	raw, ok := body[key]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

func eventsField(body map[string]json.RawMessage) ([]session.Event, error) {
	raw, ok := body["events"]
	if !ok {
		return []session.Event{}, nil
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errNotArray
	}
	var events []session.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, err
	}
	return events, nil
}

var errNotArray = errors.New("events is not a JSON array")

func writeJSON(w http.ResponseWriter, value any) {
	writeJSONStatus(w, value, http.StatusOK)
}

func writeJSONStatus(w http.ResponseWriter, value any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeJSONStatus(w, map[string]string{"error": message}, statusCode)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()
	return server.ListenAndServe()
}
