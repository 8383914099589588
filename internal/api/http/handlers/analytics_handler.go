package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/helphub-ai/support-intake/internal/api/dto"
	"github.com/helphub-ai/support-intake/internal/service"
	apperrors "github.com/helphub-ai/support-intake/pkg/util/errorutil"
)

// AnalyticsHandler exposes the dashboard's derived views.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	tickets   *service.TicketService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService, tickets *service.TicketService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, tickets: tickets}
}

// Stats GET /analytics/stats.
func (h *AnalyticsHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.analytics.Stats(c.UserContext())})
}

// CategoryDistribution GET /analytics/categories.
func (h *AnalyticsHandler) CategoryDistribution(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.analytics.CategoryDistribution(c.UserContext())})
}

// PriorityDistribution GET /analytics/priorities.
func (h *AnalyticsHandler) PriorityDistribution(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.analytics.PriorityDistribution(c.UserContext())})
}

// TicketVolume GET /analytics/volume?days=7.
func (h *AnalyticsHandler) TicketVolume(c *fiber.Ctx) error {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 365 {
			return apperrors.NewValidationError("days must be an integer between 0 and 365", nil)
		}
		days = parsed
	}
	points := h.analytics.TicketVolume(c.UserContext(), days)
	return c.JSON(fiber.Map{"data": dto.VolumeResponse{Days: days, Points: points}})
}

// RecentActivity GET /analytics/activity?limit=20.
func (h *AnalyticsHandler) RecentActivity(c *fiber.Ctx) error {
	limit := parseLimit(c.Query("limit"), 20)
	return c.JSON(fiber.Map{"data": h.tickets.RecentActivity(c.UserContext(), limit)})
}

// AllCategories GET /analytics/category-list.
func (h *AnalyticsHandler) AllCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.analytics.AllCategories(c.UserContext())})
}

// RootCause POST /analytics/root-cause.
func (h *AnalyticsHandler) RootCause(c *fiber.Ctx) error {
	var req dto.RootCauseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Category) == "" {
		return apperrors.NewValidationError("category required", nil)
	}

	analysis, err := h.analytics.RootCause(c.UserContext(), req.Category)
	if err != nil {
		if errors.Is(err, service.ErrNotEnoughData) {
			return apperrors.NewValidationError("need at least 3 tickets in the category to analyze", nil)
		}
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RootCauseResponse{Category: req.Category, Analysis: analysis}})
}
