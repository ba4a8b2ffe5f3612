package repository

import (
	"context"

	"github.com/helpdesk-kit/helpdesk-service/internal/access"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}

// Normalize applies the default page size and clamps negative offsets.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// List returns tickets matching the filter, most recent activity first.
	List(ctx context.Context, filter access.FilterSpec, page Page) ([]domain.Ticket, error)
	// Update persists next only if the stored version still equals expectedVersion;
	// otherwise it returns ErrConflict. On success next.Version is advanced.
	Update(ctx context.Context, next *domain.Ticket, expectedVersion int64) error
	// AppendMessage stores msg and applies Update(next, expectedVersion) in one transaction.
	AppendMessage(ctx context.Context, next *domain.Ticket, expectedVersion int64, msg *domain.TicketMessage) error
}

// TicketMessageRepository reads ticket thread messages.
type TicketMessageRepository interface {
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketMessage, error)
}

// UserFilter defines query params for user listing.
type UserFilter struct {
	Role   *domain.Role
	Active *bool
	Limit  int
	Offset int
}

// UserRepository defines persistence access for users of every role.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
}

// CategoryRepository resolves and lists ticket categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

// SequenceRepository is the durable atomic counter behind ticket codes.
type SequenceRepository interface {
	Increment(ctx context.Context, name string) (int64, error)
	Current(ctx context.Context, name string) (int64, error)
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Tickets    TicketRepository
	Messages   TicketMessageRepository
	Users      UserRepository
	Categories CategoryRepository
	Sequences  SequenceRepository
	Ping       func(ctx context.Context) error
	Close      func()
}
