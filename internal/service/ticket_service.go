package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helphub-ai/support-intake/internal/domain"
	"github.com/helphub-ai/support-intake/internal/events"
	"github.com/helphub-ai/support-intake/internal/repository"
)

// TicketService coordinates the ticket lifecycle: create, update-status,
// assign, plus read pass-throughs. Backend errors are absorbed here and
// degrade to empty/false results; they never escape to transport.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketCreateInput describes the intake creation payload: the raw issue
// plus the classifier's structured metadata.
type TicketCreateInput struct {
	UserID    int64
	Username  string
	Issue     string
	Summary   string
	Category  string
	Priority  domain.TicketPriority
	Sentiment domain.Sentiment
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher, logger *zap.Logger) *TicketService {
	return &TicketService{
		tickets:    tickets,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Create persists a new ticket with a generated id, status open and
// created_at set to now. Returns nil on persistence failure; callers must
// check for the nil ticket rather than an error.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) *domain.Ticket {
	ticket := &domain.Ticket{
		ID:        generateTicketID(),
		UserID:    input.UserID,
		Username:  strings.TrimSpace(input.Username),
		Issue:     input.Issue,
		Summary:   strings.TrimSpace(input.Summary),
		Category:  input.Category,
		Priority:  input.Priority,
		Sentiment: input.Sentiment,
		Status:    domain.TicketStatusOpen,
		CreatedAt: time.Now(),
	}
	if ticket.Category == "" {
		ticket.Category = "General"
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Sentiment == "" {
		ticket.Sentiment = domain.SentimentNeutral
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.logger.Error("failed to create ticket", zap.Error(err))
		return nil
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			UserID:   ticket.UserID,
			Username: ticket.Username,
			Category: ticket.Category,
			Priority: ticket.Priority,
		},
	})
	return ticket
}

// Get fetches a ticket by id. Unknown ids yield nil, not an error.
func (s *TicketService) Get(ctx context.Context, id string) *domain.Ticket {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch ticket", zap.String("ticket_id", id), zap.Error(err))
		return nil
	}
	return ticket
}

// UpdateStatus sets a ticket's status, and resolution when provided.
// Returns false for unknown ids, unrecognized statuses, or persistence
// failures.
func (s *TicketService) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus, resolution string) bool {
	if !domain.KnownStatus(status) {
		s.logger.Warn("rejected unknown status", zap.String("ticket_id", id), zap.String("status", string(status)))
		return false
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil || ticket == nil {
		if err != nil {
			s.logger.Error("failed to fetch ticket for update", zap.String("ticket_id", id), zap.Error(err))
		}
		return false
	}

	ok, err := s.tickets.UpdateStatus(ctx, id, status, resolution)
	if err != nil {
		s.logger.Error("failed to update ticket status", zap.String("ticket_id", id), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: id,
		Payload: events.TicketStatusChangedPayload{
			UserID:     ticket.UserID,
			OldStatus:  ticket.Status,
			NewStatus:  status,
			Resolution: resolution,
		},
	})
	return true
}

// Assign sets assigned_to without touching status or resolution.
func (s *TicketService) Assign(ctx context.Context, id, assignedTo string) bool {
	ok, err := s.tickets.Assign(ctx, id, assignedTo)
	if err != nil {
		s.logger.Error("failed to assign ticket", zap.String("ticket_id", id), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: id,
		Payload: events.TicketAssignedPayload{
			AssignedTo: assignedTo,
		},
	})
	return true
}

// List returns tickets newest-first, optionally filtered by status.
func (s *TicketService) List(ctx context.Context, status domain.TicketStatus, limit int) []domain.Ticket {
	tickets, err := s.tickets.List(ctx, status, limit)
	if err != nil {
		s.logger.Error("failed to list tickets", zap.Error(err))
		return []domain.Ticket{}
	}
	return tickets
}

// ListByUser returns a user's tickets newest-first.
func (s *TicketService) ListByUser(ctx context.Context, userID int64, limit int) []domain.Ticket {
	tickets, err := s.tickets.ListByUser(ctx, userID, limit)
	if err != nil {
		s.logger.Error("failed to list user tickets", zap.Int64("user_id", userID), zap.Error(err))
		return []domain.Ticket{}
	}
	return tickets
}

// Search matches the term case-insensitively against issue, summary and id.
func (s *TicketService) Search(ctx context.Context, term string, limit int) []domain.Ticket {
	tickets, err := s.tickets.Search(ctx, term, limit)
	if err != nil {
		s.logger.Error("failed to search tickets", zap.Error(err))
		return []domain.Ticket{}
	}
	return tickets
}

// ListByDateRange returns tickets created within [start, end] inclusive.
func (s *TicketService) ListByDateRange(ctx context.Context, start, end time.Time) []domain.Ticket {
	tickets, err := s.tickets.ListByDateRange(ctx, start, end)
	if err != nil {
		s.logger.Error("failed to list tickets by date range", zap.Error(err))
		return []domain.Ticket{}
	}
	return tickets
}

// RecentActivity returns the newest tickets projected to the activity feed shape.
func (s *TicketService) RecentActivity(ctx context.Context, limit int) []domain.ActivityEntry {
	entries, err := s.tickets.RecentActivity(ctx, limit)
	if err != nil {
		s.logger.Error("failed to fetch recent activity", zap.Error(err))
		return []domain.ActivityEntry{}
	}
	return entries
}

func generateTicketID() string {
	return "TK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
