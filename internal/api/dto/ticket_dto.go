package dto

import (
	"time"

	"github.com/helphub-ai/support-intake/internal/domain"
)

// IntakeRequest is the chat front-end's creation payload: the raw issue
// text, already transcribed when it arrived as voice.
type IntakeRequest struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

// IntakeResponse returns the created ticket together with the
// classifier's read of it.
type IntakeResponse struct {
	Ticket         TicketResponse        `json:"ticket"`
	Classification domain.Classification `json:"classification"`
}

// UpdateStatusRequest is the dashboard's status mutation payload.
type UpdateStatusRequest struct {
	Status     domain.TicketStatus `json:"status"`
	Resolution string              `json:"resolution,omitempty"`
}

// AssignRequest is the dashboard's assignment payload.
type AssignRequest struct {
	AssignedTo string `json:"assigned_to"`
}

// UpdateResult reports mutation success the way the dashboard expects it.
type UpdateResult struct {
	Success bool `json:"success"`
}

// TicketResponse is the full ticket shape.
type TicketResponse struct {
	ID         string                `json:"id"`
	UserID     int64                 `json:"user_id"`
	Username   string                `json:"username"`
	Issue      string                `json:"issue"`
	Summary    string                `json:"summary"`
	Category   string                `json:"category"`
	Priority   domain.TicketPriority `json:"priority"`
	Sentiment  domain.Sentiment      `json:"sentiment"`
	Status     domain.TicketStatus   `json:"status"`
	Resolution string                `json:"resolution,omitempty"`
	AssignedTo string                `json:"assigned_to,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
}

// FromTicket maps the domain ticket to its response shape.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:         ticket.ID,
		UserID:     ticket.UserID,
		Username:   ticket.Username,
		Issue:      ticket.Issue,
		Summary:    ticket.Summary,
		Category:   ticket.Category,
		Priority:   ticket.Priority,
		Sentiment:  ticket.Sentiment,
		Status:     ticket.Status,
		Resolution: ticket.Resolution,
		AssignedTo: ticket.AssignedTo,
		CreatedAt:  ticket.CreatedAt,
	}
}

// FromTickets maps a ticket list.
func FromTickets(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, FromTicket(&tickets[i]))
	}
	return items
}
