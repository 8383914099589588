package http

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/helphub-ai/support-intake/internal/api/dto"
	"github.com/helphub-ai/support-intake/internal/config"
	apperrors "github.com/helphub-ai/support-intake/pkg/util/errorutil"
)

// RateLimiter applies a fixed-window per-user limit to intake
// submissions. Counters live in Redis (INCR + EXPIRE); when Redis is
// unreachable the limiter degrades to an in-process window so intake
// keeps working on the seeded backend too.
type RateLimiter struct {
	client   *redis.Client
	cfg      config.RateLimitConfig
	logger   *zap.Logger
	mu       sync.Mutex
	local    map[string]*localWindow
	useLocal atomic.Bool
}

type localWindow struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates the limiter. A nil client forces the in-process fallback.
func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		client: client,
		cfg:    cfg,
		logger: logger,
		local:  make(map[string]*localWindow),
	}
	rl.useLocal.Store(client == nil)
	return rl
}

// Handle enforces the limit keyed by the submitting user id.
func (rl *RateLimiter) Handle(c *fiber.Ctx) error {
	if rl.cfg.Requests <= 0 {
		return c.Next()
	}

	var req dto.IntakeRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		// Malformed payloads fall through to handler validation.
		return c.Next()
	}
	key := fmt.Sprintf("intake:rate:%d", req.UserID)

	count, err := rl.increment(c, key)
	if err != nil {
		rl.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		return c.Next()
	}
	if count > int64(rl.cfg.Requests) {
		return apperrors.NewTooManyRequests("too many submissions, slow down")
	}
	return c.Next()
}

func (rl *RateLimiter) increment(c *fiber.Ctx, key string) (int64, error) {
	if !rl.useLocal.Load() && rl.client != nil {
		ctx := c.UserContext()
		count, err := rl.client.Incr(ctx, key).Result()
		if err == nil {
			if count == 1 {
				rl.client.Expire(ctx, key, rl.cfg.Window())
			}
			return count, nil
		}
		rl.logger.Warn("redis rate limit failed, switching to in-process window", zap.Error(err))
		rl.useLocal.Store(true)
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := time.Now()
	window, ok := rl.local[key]
	if !ok || now.After(window.resetAt) {
		window = &localWindow{resetAt: now.Add(rl.cfg.Window())}
		rl.local[key] = window
	}
	window.count++
	return int64(window.count), nil
}
