package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	"github.com/helpdesk-kit/helpdesk-service/internal/lifecycle"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	"github.com/helpdesk-kit/helpdesk-service/internal/sequence"
	"github.com/helpdesk-kit/helpdesk-service/internal/sqlite"
)

// tickingClock advances one second on every read.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handler(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type harness struct {
	store     repository.Store
	tickets   *TicketService
	recorded  *recordedEvents
	customer  domain.Actor
	customer2 domain.Actor
	agent     domain.Actor
	agent2    domain.Actor
	admin     domain.Actor
}

func newStore(t *testing.T) repository.Store {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	store := sqlite.NewStore(db)
	t.Cleanup(store.Close)
	return store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := newStore(t)
	return newHarnessWithSequence(t, store, sequence.NewGenerator(store.Sequences))
}

func newHarnessWithSequence(t *testing.T, store repository.Store, gen *sequence.Generator) *harness {
	t.Helper()
	clock := &tickingClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	dispatcher := events.NewInMemoryDispatcher()
	recorded := &recordedEvents{}
	for _, et := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketMessagePosted,
		events.EventTicketAssigned,
		events.EventTicketStatusChanged,
	} {
		dispatcher.Subscribe(et, recorded.handler)
	}

	h := &harness{
		store: store,
		tickets: NewTicketService(TicketDependencies{
			TicketRepo:   store.Tickets,
			MessageRepo:  store.Messages,
			CategoryRepo: store.Categories,
			UserRepo:     store.Users,
			Sequence:     gen,
			Engine:       lifecycle.NewEngine(clock.Now),
			Dispatcher:   dispatcher,
		}),
		recorded: recorded,
	}
	h.customer = seedUser(t, store, "carol", domain.RoleCustomer).Actor()
	h.customer2 = seedUser(t, store, "dave", domain.RoleCustomer).Actor()
	h.agent = seedUser(t, store, "adam", domain.RoleAgent).Actor()
	h.agent2 = seedUser(t, store, "zoe", domain.RoleAgent).Actor()
	h.admin = seedUser(t, store, "root", domain.RoleAdmin).Actor()
	seedCategory(t, store, "Billing", "billing")
	return h
}

func seedUser(t *testing.T, store repository.Store, name string, role domain.Role) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}

func seedCategory(t *testing.T, store repository.Store, name, slug string) *domain.Category {
	t.Helper()
	now := time.Now().UTC()
	category := &domain.Category{ID: uuid.NewString(), Name: name, Slug: slug, IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Categories.Create(context.Background(), category))
	return category
}

func (h *harness) create(t *testing.T, subject string) *domain.Ticket {
	t.Helper()
	ticket, err := h.tickets.CreateTicket(context.Background(), h.customer, TicketCreateInput{
		Subject:      subject,
		Description:  "Something is wrong",
		CategorySlug: "billing",
	})
	require.NoError(t, err)
	return ticket
}
