package api

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/focusforge/focusforge/internal/config"
	"github.com/focusforge/focusforge/internal/plan"
	"github.com/focusforge/focusforge/internal/session"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) AnalyzeSession(ctx context.Context, goal string, events []session.Event) (session.Summary, error) {
	args := m.Called(ctx, goal, events)
	var result session.Summary
	if value := args.Get(0); value != nil {
		result = value.(session.Summary)
	}
	return result, args.Error(1)
}

func (m *MockEngine) PlanTasks(ctx context.Context, summary session.Summary, userGoal string) (plan.TaskPlan, error) {
	args := m.Called(ctx, summary, userGoal)
	var result plan.TaskPlan
	if value := args.Get(0); value != nil {
		result = value.(plan.TaskPlan)
	}
	return result, args.Error(1)
}

func newTestServer(t *testing.T, engine Analyzer, caps config.Capabilities) *httptest.Server {
	t.Helper()
	server := NewServer(engine, caps, zap.NewNop())
	return httptest.NewServer(server.Router())
}
