package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen              TicketStatus = "OPEN"
	TicketStatusInProgress        TicketStatus = "IN_PROGRESS"
	TicketStatusWaitingOnCustomer TicketStatus = "WAITING_ON_CUSTOMER"
	TicketStatusResolved          TicketStatus = "RESOLVED"
	TicketStatusClosed            TicketStatus = "CLOSED"
)

// TicketStatuses lists every recognized status.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusWaitingOnCustomer,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Valid reports whether s is one of the five recognized statuses.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityNormal TicketPriority = "NORMAL"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// TicketPriorities lists every recognized priority.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityNormal,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

// Valid reports whether p is a recognized priority.
func (p TicketPriority) Valid() bool {
	for _, candidate := range TicketPriorities {
		if p == candidate {
			return true
		}
	}
	return false
}

// Field length bounds shared by validation and storage.
const (
	SubjectMinLen     = 3
	SubjectMaxLen     = 120
	DescriptionMinLen = 3
	DescriptionMaxLen = 5000
	MessageBodyMaxLen = 5000
)

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID            string
	Code          string
	Subject       string
	Description   string
	Status        TicketStatus
	Priority      TicketPriority
	CategoryID    string
	RequesterID   string
	AssigneeID    *string
	LastMessageAt time.Time
	ResolvedAt    *time.Time
	ClosedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	// Version increments on every persisted update.
	Version int64
}

// IsUnassigned reports whether no agent owns the ticket.
func (t *Ticket) IsUnassigned() bool {
	return t.AssigneeID == nil || *t.AssigneeID == ""
}

// IsAssignedTo reports whether the ticket is owned by the given user.
func (t *Ticket) IsAssignedTo(userID string) bool {
	return !t.IsUnassigned() && *t.AssigneeID == userID
}

// Clone returns a deep copy so callers can derive a next state without aliasing pointers.
func (t Ticket) Clone() Ticket {
	next := t
	next.AssigneeID = cloneString(t.AssigneeID)
	next.ResolvedAt = cloneTime(t.ResolvedAt)
	next.ClosedAt = cloneTime(t.ClosedAt)
	return next
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
