package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helphub-ai/support-intake/internal/api/dto"
	"github.com/helphub-ai/support-intake/internal/auth"
	"github.com/helphub-ai/support-intake/internal/config"
	apperrors "github.com/helphub-ai/support-intake/pkg/util/errorutil"
)

// AuthHandler issues agent tokens.
type AuthHandler struct {
	cfg    config.AuthConfig
	tokens *auth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(cfg config.AuthConfig, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{cfg: cfg, tokens: tokens}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}
	if h.cfg.AgentPasswordHash == "" {
		return apperrors.NewUnauthorized("agent login not configured")
	}
	if req.Username != h.cfg.AgentUsername {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(h.cfg.AgentPasswordHash, req.Password); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := h.tokens.GenerateToken(req.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{Token: token, ExpiresAt: expiresAt}})
}
