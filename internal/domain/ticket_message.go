package domain

import "time"

// TicketMessage captures one entry in a ticket thread. Messages are append-only.
type TicketMessage struct {
	ID         string
	TicketID   string
	AuthorID   string
	Body       string
	IsInternal bool
	CreatedAt  time.Time
}
