package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	httptransport "github.com/helphub-ai/support-intake/internal/api/http"
	"github.com/helphub-ai/support-intake/internal/api/http/handlers"
	"github.com/helphub-ai/support-intake/internal/auth"
	"github.com/helphub-ai/support-intake/internal/classify"
	"github.com/helphub-ai/support-intake/internal/config"
	"github.com/helphub-ai/support-intake/internal/domain"
	"github.com/helphub-ai/support-intake/internal/events"
	"github.com/helphub-ai/support-intake/internal/observability"
	"github.com/helphub-ai/support-intake/internal/repository"
	"github.com/helphub-ai/support-intake/internal/service"
)

type stubClassifier struct{}

func (stubClassifier) Analyze(ctx context.Context, text string) domain.Classification {
	return classify.Fallback(text)
}

func (stubClassifier) RootCause(ctx context.Context, summaries []string) (string, error) {
	return "stub analysis", nil
}

type testEnv struct {
	app    *fiber.App
	tokens *auth.TokenManager
	logs   *observer.ObservedLogs
}

func newTestEnv(t *testing.T, rateLimit int) *testEnv {
	t.Helper()

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	repo := repository.NewMemoryRepository()
	dispatcher := events.NewInMemoryDispatcher()

	passwordHash, err := auth.HashPassword("letmein", 4)
	require.NoError(t, err)
	authCfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 10,
		AgentUsername:         "agent_bob",
		AgentPasswordHash:     passwordHash,
	}

	ticketService := service.NewTicketService(repo, dispatcher, logger)
	analyticsService := service.NewAnalyticsService(repo, stubClassifier{}, logger)
	tokens := auth.NewTokenManager(authCfg.JWTSecret, authCfg.AccessTokenTTLMinutes)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(repo),
		Auth:           handlers.NewAuthHandler(authCfg, tokens),
		Intake:         handlers.NewIntakeHandler(ticketService, stubClassifier{}),
		Tickets:        handlers.NewTicketsHandler(ticketService, logger),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService, ticketService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		RateLimiter: httptransport.NewRateLimiter(nil, config.RateLimitConfig{
			Requests:      rateLimit,
			WindowSeconds: 60,
		}, logger),
	})

	return &testEnv{app: app, tokens: tokens, logs: logs}
}

func (e *testEnv) request(t *testing.T, method, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func (e *testEnv) agentToken(t *testing.T) string {
	t.Helper()
	token, _, err := e.tokens.GenerateToken("agent_bob")
	require.NoError(t, err)
	return token
}

func TestIntakeCreatesTicket(t *testing.T) {
	env := newTestEnv(t, 0)

	resp, body := env.request(t, http.MethodPost, "/intake/messages", map[string]any{
		"user_id":  501,
		"username": "customer456",
		"text":     "Refund please, I was double charged",
	}, "")

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	ticket := data["ticket"].(map[string]any)
	assert.Contains(t, ticket["id"], "TK-")
	assert.Equal(t, "open", ticket["status"])
	classification := data["classification"].(map[string]any)
	assert.Equal(t, "General", classification["category"])
}

func TestIntakeValidation(t *testing.T) {
	env := newTestEnv(t, 0)

	resp, body := env.request(t, http.MethodPost, "/intake/messages", map[string]any{
		"username": "customer456",
		"text":     "",
	}, "")

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])
}

func TestIntakeRateLimit(t *testing.T) {
	env := newTestEnv(t, 2)
	payload := map[string]any{"user_id": 7, "username": "user123", "text": "help"}

	for i := 0; i < 2; i++ {
		resp, _ := env.request(t, http.MethodPost, "/intake/messages", payload, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp, body := env.request(t, http.MethodPost, "/intake/messages", payload, "")
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "RATE_LIMITED", errObj["code"])
}

func TestAgentRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t, 0)

	resp, _ := env.request(t, http.MethodGet, "/tickets", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/tickets", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginIssuesUsableToken(t *testing.T) {
	env := newTestEnv(t, 0)

	resp, _ := env.request(t, http.MethodPost, "/auth/login", map[string]any{
		"username": "agent_bob",
		"password": "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := env.request(t, http.MethodPost, "/auth/login", map[string]any{
		"username": "agent_bob",
		"password": "letmein",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["data"].(map[string]any)["token"].(string)
	require.NotEmpty(t, token)

	resp, _ = env.request(t, http.MethodGet, "/tickets", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAgentTicketWorkflow(t *testing.T) {
	env := newTestEnv(t, 0)
	token := env.agentToken(t)

	resp, body := env.request(t, http.MethodPost, "/intake/messages", map[string]any{
		"user_id":  501,
		"username": "customer456",
		"text":     "Refund please, I was double charged",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ticketID := body["data"].(map[string]any)["ticket"].(map[string]any)["id"].(string)

	resp, _ = env.request(t, http.MethodPatch, "/tickets/"+ticketID+"/status", map[string]any{
		"status": "escalated",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.request(t, http.MethodPatch, "/tickets/"+ticketID+"/status", map[string]any{
		"status":     "resolved",
		"resolution": "issued refund",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]any)["success"])

	resp, _ = env.request(t, http.MethodPatch, "/tickets/"+ticketID+"/assignee", map[string]any{
		"assigned_to": "agent_bob",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.request(t, http.MethodGet, "/tickets/"+ticketID, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ticket := body["data"].(map[string]any)
	assert.Equal(t, "resolved", ticket["status"])
	assert.Equal(t, "issued refund", ticket["resolution"])
	assert.Equal(t, "agent_bob", ticket["assigned_to"])

	resp, _ = env.request(t, http.MethodGet, "/tickets/TK-MISSING", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMutationLogsCarryActingAgent(t *testing.T) {
	env := newTestEnv(t, 0)
	token := env.agentToken(t)

	resp, body := env.request(t, http.MethodPost, "/intake/messages", map[string]any{
		"user_id":  501,
		"username": "customer456",
		"text":     "Refund please, I was double charged",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ticketID := body["data"].(map[string]any)["ticket"].(map[string]any)["id"].(string)

	resp, _ = env.request(t, http.MethodPatch, "/tickets/"+ticketID+"/status", map[string]any{
		"status":     "resolved",
		"resolution": "issued refund",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.request(t, http.MethodPatch, "/tickets/"+ticketID+"/assignee", map[string]any{
		"assigned_to": "agent_bob",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updates := env.logs.FilterMessage("ticket status updated").All()
	require.Len(t, updates, 1)
	assert.Equal(t, "agent_bob", updates[0].ContextMap()["agent"])
	assert.Equal(t, ticketID, updates[0].ContextMap()["ticket_id"])

	assigns := env.logs.FilterMessage("ticket assigned").All()
	require.Len(t, assigns, 1)
	assert.Equal(t, "agent_bob", assigns[0].ContextMap()["agent"])
}

func TestRequestLogRecordsTranslatedStatus(t *testing.T) {
	env := newTestEnv(t, 0)

	resp, _ := env.request(t, http.MethodGet, "/tickets", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	entries := env.logs.FilterMessage("request").All()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, int64(http.StatusUnauthorized), last.ContextMap()["status"])
	assert.Equal(t, "/tickets", last.ContextMap()["path"])
}

func TestAnalyticsEndpoints(t *testing.T) {
	env := newTestEnv(t, 0)
	token := env.agentToken(t)

	for i := 0; i < 3; i++ {
		resp, _ := env.request(t, http.MethodPost, "/intake/messages", map[string]any{
			"user_id":  100 + i,
			"username": "user123",
			"text":     fmt.Sprintf("issue number %d", i),
		}, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := env.request(t, http.MethodGet, "/analytics/stats", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := body["data"].(map[string]any)
	assert.Equal(t, float64(3), stats["total"])
	assert.Equal(t, float64(3), stats["open"])

	resp, body = env.request(t, http.MethodGet, "/analytics/volume?days=7", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	points := body["data"].(map[string]any)["points"].([]any)
	assert.Len(t, points, 8)

	resp, _ = env.request(t, http.MethodGet, "/analytics/volume?days=abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.request(t, http.MethodGet, "/analytics/activity?limit=2", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]any), 2)

	resp, body = env.request(t, http.MethodGet, "/analytics/category-list", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"General"}, body["data"])

	resp, body = env.request(t, http.MethodPost, "/analytics/root-cause", map[string]any{
		"category": "General",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "stub analysis", body["data"].(map[string]any)["analysis"])
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t, 0)

	resp, _ := env.request(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
