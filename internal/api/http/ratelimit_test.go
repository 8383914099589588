package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/helphub-ai/support-intake/internal/api/http"
	"github.com/helphub-ai/support-intake/internal/config"
	"github.com/helphub-ai/support-intake/internal/observability"
)

func rateLimitedApp(client *redis.Client, requests int) *fiber.App {
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	limiter := httptransport.NewRateLimiter(client, config.RateLimitConfig{
		Requests:      requests,
		WindowSeconds: 60,
	}, zap.NewNop())
	app.Post("/intake/messages", limiter.Handle, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	return app
}

func submitIntake(t *testing.T, app *fiber.App, userID int64) int {
	t.Helper()
	payload, err := json.Marshal(map[string]any{"user_id": userID, "username": "user123", "text": "help"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/intake/messages", bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRateLimiterFailsOverUnderConcurrentIntake(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	app := rateLimitedApp(client, 4)

	const workers = 8
	statuses := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload, _ := json.Marshal(map[string]any{"user_id": 7, "username": "user123", "text": "help"})
			req := httptest.NewRequest(http.MethodPost, "/intake/messages", bytes.NewReader(payload))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			resp, err := app.Test(req, 5000)
			if err != nil {
				statuses <- 0
				return
			}
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	var created, limited int
	for status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusTooManyRequests:
			limited++
		default:
			t.Fatalf("unexpected status %d", status)
		}
	}
	assert.Equal(t, 4, created)
	assert.Equal(t, 4, limited)
}

func TestRateLimiterFallbackWindowsArePerUser(t *testing.T) {
	app := rateLimitedApp(nil, 2)

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusCreated, submitIntake(t, app, 1))
	}
	assert.Equal(t, http.StatusTooManyRequests, submitIntake(t, app, 1))
	assert.Equal(t, http.StatusCreated, submitIntake(t, app, 2))
}
