package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen      TicketStatus = "open"
	TicketStatusResolved  TicketStatus = "resolved"
	TicketStatusForwarded TicketStatus = "forwarded"
)

// KnownStatus reports whether s is one of the recognized lifecycle states.
func KnownStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusResolved, TicketStatusForwarded:
		return true
	}
	return false
}

// TicketPriority enumerates urgency as assigned by the classifier.
type TicketPriority string

const (
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityLow    TicketPriority = "Low"
)

// Sentiment enumerates the classifier's read of the customer's tone.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// Ticket is the sole aggregate: one customer support request tracked
// through open/resolved/forwarded. Tickets are never deleted, and
// CreatedAt is the only ordering key.
type Ticket struct {
	ID         string
	UserID     int64
	Username   string
	Issue      string
	Summary    string
	Category   string
	Priority   TicketPriority
	Sentiment  Sentiment
	Status     TicketStatus
	Resolution string
	AssignedTo string
	CreatedAt  time.Time
}
