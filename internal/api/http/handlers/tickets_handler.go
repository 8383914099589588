package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/helphub-ai/support-intake/internal/api/dto"
	"github.com/helphub-ai/support-intake/internal/auth"
	"github.com/helphub-ai/support-intake/internal/domain"
	"github.com/helphub-ai/support-intake/internal/service"
	apperrors "github.com/helphub-ai/support-intake/pkg/util/errorutil"
)

// TicketsHandler manages agent ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	logger  *zap.Logger
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, logger *zap.Logger) *TicketsHandler {
	return &TicketsHandler{service: ticketService, logger: logger}
}

// List GET /tickets?status=&limit=.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	status := domain.TicketStatus(strings.ToLower(c.Query("status")))
	if status == "all" {
		status = ""
	}
	if status != "" && !domain.KnownStatus(status) {
		return apperrors.NewValidationError("unknown status filter", nil)
	}
	limit := parseLimit(c.Query("limit"), 100)
	tickets := h.service.List(c.UserContext(), status, limit)
	return c.JSON(fiber.Map{"data": dto.FromTickets(tickets)})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket := h.service.Get(c.UserContext(), c.Params("id"))
	if ticket == nil {
		return apperrors.NewNotFound("ticket", fiber.Map{"id": c.Params("id")})
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Search GET /tickets/search?q=&limit=.
func (h *TicketsHandler) Search(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		return apperrors.NewValidationError("query term required", nil)
	}
	limit := parseLimit(c.Query("limit"), 50)
	tickets := h.service.Search(c.UserContext(), term, limit)
	return c.JSON(fiber.Map{"data": dto.FromTickets(tickets)})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !domain.KnownStatus(req.Status) {
		return apperrors.NewValidationError("status must be open, resolved or forwarded", nil)
	}
	ok := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status, req.Resolution)
	if !ok {
		return apperrors.NewNotFound("ticket", fiber.Map{"id": c.Params("id")})
	}

	agent, _ := auth.AgentFromContext(c)
	h.logger.Info("ticket status updated",
		zap.String("ticket_id", c.Params("id")),
		zap.String("status", string(req.Status)),
		zap.String("agent", agent))
	return c.JSON(fiber.Map{"data": dto.UpdateResult{Success: true}})
}

// Assign PATCH /tickets/:id/assignee.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.AssignedTo) == "" {
		return apperrors.NewValidationError("assigned_to required", nil)
	}
	ok := h.service.Assign(c.UserContext(), c.Params("id"), req.AssignedTo)
	if !ok {
		return apperrors.NewNotFound("ticket", fiber.Map{"id": c.Params("id")})
	}

	agent, _ := auth.AgentFromContext(c)
	h.logger.Info("ticket assigned",
		zap.String("ticket_id", c.Params("id")),
		zap.String("assigned_to", req.AssignedTo),
		zap.String("agent", agent))
	return c.JSON(fiber.Map{"data": dto.UpdateResult{Success: true}})
}

// ListByUser GET /users/:id/tickets.
func (h *TicketsHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("user id must be an integer", nil)
	}
	limit := parseLimit(c.Query("limit"), 10)
	tickets := h.service.ListByUser(c.UserContext(), userID, limit)
	return c.JSON(fiber.Map{"data": dto.FromTickets(tickets)})
}

func parseLimit(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
