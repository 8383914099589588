package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/helphub-ai/support-intake/internal/classify"
	"github.com/helphub-ai/support-intake/internal/domain"
	"github.com/helphub-ai/support-intake/internal/repository"
)

// Aggregates re-scan the full ticket set on every call; nothing is cached
// or incrementally maintained, so the numbers always reflect a fresh read.
const fullScanLimit = 10000

// rootCauseMinSummaries is the minimum sample size for a meaningful
// common-theme analysis.
const rootCauseMinSummaries = 3

// ErrNotEnoughData is returned when a category has too few tickets for
// root-cause analysis.
var ErrNotEnoughData = errors.New("not enough tickets in category to analyze")

// AnalyticsService computes dashboard-ready derived views over the store.
// Backend errors degrade to empty/zero results with a logged message.
type AnalyticsService struct {
	tickets    repository.TicketRepository
	classifier classify.Classifier
	logger     *zap.Logger
}

// NewAnalyticsService constructs the service. The classifier may be nil
// when root-cause analysis is not wired.
func NewAnalyticsService(tickets repository.TicketRepository, classifier classify.Classifier, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		tickets:    tickets,
		classifier: classifier,
		logger:     logger,
	}
}

// Stats counts tickets by lifecycle state. Tickets with an unrecognized
// status contribute to Total only.
func (s *AnalyticsService) Stats(ctx context.Context) domain.TicketStats {
	stats := domain.TicketStats{}
	for _, ticket := range s.allTickets(ctx) {
		stats.Total++
		switch ticket.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusResolved:
			stats.Resolved++
		case domain.TicketStatusForwarded:
			stats.Forwarded++
		}
	}
	return stats
}

// CategoryDistribution counts tickets per category.
func (s *AnalyticsService) CategoryDistribution(ctx context.Context) map[string]int {
	dist := make(map[string]int)
	for _, ticket := range s.allTickets(ctx) {
		category := ticket.Category
		if category == "" {
			category = "Unknown"
		}
		dist[category]++
	}
	return dist
}

// PriorityDistribution counts tickets per priority in the canonical
// display order High, Medium, Low. Priorities with no tickets are omitted.
func (s *AnalyticsService) PriorityDistribution(ctx context.Context) []domain.PriorityCount {
	counts := make(map[domain.TicketPriority]int)
	for _, ticket := range s.allTickets(ctx) {
		priority := ticket.Priority
		if priority == "" {
			priority = domain.TicketPriorityMedium
		}
		counts[priority]++
	}

	order := []domain.TicketPriority{domain.TicketPriorityHigh, domain.TicketPriorityMedium, domain.TicketPriorityLow}
	result := make([]domain.PriorityCount, 0, len(order))
	for _, priority := range order {
		if count, ok := counts[priority]; ok {
			result = append(result, domain.PriorityCount{Priority: priority, Count: count})
		}
	}
	return result
}

// TicketVolume buckets ticket creation by calendar day over the last
// `days` days inclusive of today, zero-filling empty days. The result
// always has days+1 points, oldest first.
func (s *AnalyticsService) TicketVolume(ctx context.Context, days int) []domain.VolumePoint {
	if days < 0 {
		days = 0
	}
	now := time.Now()
	first := now.AddDate(0, 0, -days)
	start := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, first.Location())

	tickets, err := s.tickets.ListByDateRange(ctx, start, now)
	if err != nil {
		s.logger.Error("failed to fetch ticket volume range", zap.Error(err))
		tickets = nil
	}

	counts := make(map[string]int)
	for _, ticket := range tickets {
		counts[ticket.CreatedAt.Format("2006-01-02")]++
	}

	points := make([]domain.VolumePoint, 0, days+1)
	for i := days; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		points = append(points, domain.VolumePoint{Date: date, Count: counts[date]})
	}
	return points
}

// AllCategories returns the sorted set of distinct category values.
func (s *AnalyticsService) AllCategories(ctx context.Context) []string {
	seen := make(map[string]struct{})
	for _, ticket := range s.allTickets(ctx) {
		if ticket.Category == "" {
			continue
		}
		seen[ticket.Category] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// SummariesByCategory returns the newest summaries for one category.
func (s *AnalyticsService) SummariesByCategory(ctx context.Context, category string, limit int) []string {
	if limit <= 0 {
		limit = 50
	}
	summaries := make([]string, 0, limit)
	for _, ticket := range s.allTickets(ctx) {
		if ticket.Category != category {
			continue
		}
		summaries = append(summaries, ticket.Summary)
		if len(summaries) == limit {
			break
		}
	}
	return summaries
}

// RootCause runs the LLM common-theme analysis over a category's
// summaries. Requires at least three tickets in the category.
func (s *AnalyticsService) RootCause(ctx context.Context, category string) (string, error) {
	if s.classifier == nil {
		return "", errors.New("classifier not configured")
	}
	summaries := s.SummariesByCategory(ctx, category, 50)
	if len(summaries) < rootCauseMinSummaries {
		return "", ErrNotEnoughData
	}
	return s.classifier.RootCause(ctx, summaries)
}

func (s *AnalyticsService) allTickets(ctx context.Context) []domain.Ticket {
	tickets, err := s.tickets.List(ctx, "", fullScanLimit)
	if err != nil {
		s.logger.Error("failed to scan tickets for analytics", zap.Error(err))
		return nil
	}
	return tickets
}
