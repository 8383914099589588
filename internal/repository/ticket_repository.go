package repository

import (
	"context"
	"time"

	"github.com/helphub-ai/support-intake/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Both the Postgres and
// in-memory backends satisfy the identical contract; the backend is chosen
// once at startup and never swapped mid-operation.
//
// Lookups for unknown ids return (nil, nil): absence is not an error.
// All listing operations return tickets newest-first by CreatedAt.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus, resolution string) (bool, error)
	Assign(ctx context.Context, id, assignedTo string) (bool, error)
	List(ctx context.Context, status domain.TicketStatus, limit int) ([]domain.Ticket, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Ticket, error)
	Search(ctx context.Context, term string, limit int) ([]domain.Ticket, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Ticket, error)
	RecentActivity(ctx context.Context, limit int) ([]domain.ActivityEntry, error)

	Ping(ctx context.Context) error
	Close()
}

const defaultListLimit = 100

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}
