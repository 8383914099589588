package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/helphub-ai/support-intake/internal/domain"
)

// memoryRepository keeps tickets in a newest-first ordered slice. The
// mutex guards slice and field access only; a read-modify-write spanning
// two calls is last-write-wins, same as the remote backend.
type memoryRepository struct {
	mu      sync.RWMutex
	tickets []domain.Ticket
}

// NewMemoryRepository creates an empty in-process backend.
func NewMemoryRepository() TicketRepository {
	return &memoryRepository{}
}

// NewSeededMemoryRepository creates the in-process backend pre-filled with
// synthetic demo tickets, used when no remote store is reachable.
func NewSeededMemoryRepository() TicketRepository {
	repo := &memoryRepository{tickets: seedTickets()}
	sort.SliceStable(repo.tickets, func(i, j int) bool {
		return repo.tickets[i].CreatedAt.After(repo.tickets[j].CreatedAt)
	})
	return repo
}

func (r *memoryRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// New tickets carry CreatedAt=now, so prepending preserves order.
	r.tickets = append([]domain.Ticket{*ticket}, r.tickets...)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			ticket := r.tickets[i]
			return &ticket, nil
		}
	}
	return nil, nil
}

func (r *memoryRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus, resolution string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			r.tickets[i].Status = status
			if resolution != "" {
				r.tickets[i].Resolution = resolution
			}
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) Assign(ctx context.Context, id, assignedTo string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			r.tickets[i].AssignedTo = assignedTo
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) List(ctx context.Context, status domain.TicketStatus, limit int) ([]domain.Ticket, error) {
	limit = normalizeLimit(limit)
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Ticket, 0, limit)
	for _, ticket := range r.tickets {
		if status != "" && ticket.Status != status {
			continue
		}
		result = append(result, ticket)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (r *memoryRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Ticket, error) {
	limit = normalizeLimit(limit)
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Ticket, 0, limit)
	for _, ticket := range r.tickets {
		if ticket.UserID != userID {
			continue
		}
		result = append(result, ticket)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (r *memoryRepository) Search(ctx context.Context, term string, limit int) ([]domain.Ticket, error) {
	limit = normalizeLimit(limit)
	term = strings.ToLower(strings.TrimSpace(term))
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Ticket, 0, limit)
	for _, ticket := range r.tickets {
		if !strings.Contains(strings.ToLower(ticket.Issue), term) &&
			!strings.Contains(strings.ToLower(ticket.Summary), term) &&
			!strings.Contains(strings.ToLower(ticket.ID), term) {
			continue
		}
		result = append(result, ticket)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (r *memoryRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.CreatedAt.Before(start) || ticket.CreatedAt.After(end) {
			continue
		}
		result = append(result, ticket)
	}
	return result, nil
}

func (r *memoryRepository) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	limit = normalizeLimit(limit)
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.ActivityEntry, 0, limit)
	for _, ticket := range r.tickets {
		result = append(result, domain.ActivityEntry{
			ID:        ticket.ID,
			Status:    ticket.Status,
			Priority:  ticket.Priority,
			Category:  ticket.Category,
			CreatedAt: ticket.CreatedAt,
			Username:  ticket.Username,
		})
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (r *memoryRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *memoryRepository) Close() {}
