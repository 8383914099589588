package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/helphub-ai/support-intake/pkg/util/errorutil"
)

const agentLocalKey = "auth.agent"

// AuthMiddleware validates bearer tokens on agent routes.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs the middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle rejects requests lacking a valid agent token.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return apperrors.NewUnauthorized("bearer token required")
	}
	claims, err := m.tokens.ParseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	c.Locals(agentLocalKey, claims.Agent)
	return c.Next()
}

// AgentFromContext returns the authenticated agent name, if any.
func AgentFromContext(c *fiber.Ctx) (string, bool) {
	agent, ok := c.Locals(agentLocalKey).(string)
	return agent, ok && agent != ""
}
