package domain

import "time"

// TicketStats holds dashboard KPI counters computed from a full scan.
type TicketStats struct {
	Total     int `json:"total"`
	Open      int `json:"open"`
	Resolved  int `json:"resolved"`
	Forwarded int `json:"forwarded"`
}

// ActivityEntry is the recent-activity projection of a ticket.
type ActivityEntry struct {
	ID        string         `json:"id"`
	Status    TicketStatus   `json:"status"`
	Priority  TicketPriority `json:"priority"`
	Category  string         `json:"category"`
	CreatedAt time.Time      `json:"created_at"`
	Username  string         `json:"username"`
}

// PriorityCount is one bucket of the priority distribution, emitted in
// the canonical display order High, Medium, Low.
type PriorityCount struct {
	Priority TicketPriority `json:"priority"`
	Count    int            `json:"count"`
}

// VolumePoint is one calendar day in a ticket-volume series.
type VolumePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
