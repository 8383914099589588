package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/helphub-ai/support-intake/internal/api/dto"
	"github.com/helphub-ai/support-intake/internal/classify"
	"github.com/helphub-ai/support-intake/internal/service"
	apperrors "github.com/helphub-ai/support-intake/pkg/util/errorutil"
)

// IntakeHandler receives raw issue text from the chat front-end,
// classifies it and opens a ticket.
type IntakeHandler struct {
	tickets    *service.TicketService
	classifier classify.Classifier
}

// NewIntakeHandler constructs handler.
func NewIntakeHandler(tickets *service.TicketService, classifier classify.Classifier) *IntakeHandler {
	return &IntakeHandler{tickets: tickets, classifier: classifier}
}

// Submit POST /intake/messages.
func (h *IntakeHandler) Submit(c *fiber.Ctx) error {
	var req dto.IntakeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == 0 || strings.TrimSpace(req.Text) == "" {
		return apperrors.NewValidationError("user_id and text required", nil)
	}

	analysis := h.classifier.Analyze(c.UserContext(), req.Text)

	ticket := h.tickets.Create(c.UserContext(), service.TicketCreateInput{
		UserID:    req.UserID,
		Username:  req.Username,
		Issue:     req.Text,
		Summary:   analysis.Summary,
		Category:  analysis.Category,
		Priority:  analysis.Priority,
		Sentiment: analysis.Sentiment,
	})
	if ticket == nil {
		return apperrors.NewInternalError(nil)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.IntakeResponse{
		Ticket:         dto.FromTicket(ticket),
		Classification: analysis,
	}})
}
