package repository

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/helphub-ai/support-intake/internal/domain"
)

const seedTicketCount = 30

var (
	seedCategories = []string{"Technical Issue", "Billing", "Feature Request", "Account", "General"}
	seedPriorities = []domain.TicketPriority{domain.TicketPriorityHigh, domain.TicketPriorityMedium, domain.TicketPriorityLow}
	seedSentiments = []domain.Sentiment{domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative}
	seedStatuses   = []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusResolved, domain.TicketStatusForwarded}
	seedUsernames  = []string{"user123", "customer456", "client789", "member101", "guest202"}
)

// seedTickets builds 30 synthetic tickets spread over the last 30 days,
// giving the dashboard demo data when no remote store is configured.
func seedTickets() []domain.Ticket {
	tickets := make([]domain.Ticket, 0, seedTicketCount)
	for i := 0; i < seedTicketCount; i++ {
		daysAgo := rand.Intn(31)
		created := time.Now().AddDate(0, 0, -daysAgo)
		tickets = append(tickets, domain.Ticket{
			ID:        fmt.Sprintf("TK-%d", 1000+i),
			UserID:    int64(100 + rand.Intn(900)),
			Username:  seedUsernames[rand.Intn(len(seedUsernames))],
			Issue:     fmt.Sprintf("Sample issue #%d", i+1),
			Summary:   fmt.Sprintf("This is a sample ticket summary for demonstration purposes #%d", i+1),
			Category:  seedCategories[rand.Intn(len(seedCategories))],
			Priority:  seedPriorities[rand.Intn(len(seedPriorities))],
			Sentiment: seedSentiments[rand.Intn(len(seedSentiments))],
			Status:    seedStatuses[rand.Intn(len(seedStatuses))],
			CreatedAt: created,
		})
	}
	return tickets
}
