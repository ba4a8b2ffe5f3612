package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-kit/helpdesk-service/internal/access"
	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	"github.com/helpdesk-kit/helpdesk-service/internal/sequence"
	"github.com/helpdesk-kit/helpdesk-service/internal/service"
	"github.com/helpdesk-kit/helpdesk-service/internal/sqlite"
)

func newSeeder(t *testing.T) (*Seeder, repository.Store, *service.TicketService) {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	store := sqlite.NewStore(db)
	t.Cleanup(store.Close)

	tickets := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   store.Tickets,
		MessageRepo:  store.Messages,
		CategoryRepo: store.Categories,
		UserRepo:     store.Users,
		Sequence:     sequence.NewGenerator(store.Sequences),
		Dispatcher:   events.NewInMemoryDispatcher(),
	})
	return New(store, tickets, nil), store, tickets
}

func TestRun_RequiresAllow(t *testing.T) {
	seeder, _, _ := newSeeder(t)
	_, err := seeder.Run(context.Background(), Options{Password: "Password123!", BcryptCost: 4})
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestRun_SeedsDemoData(t *testing.T) {
	seeder, store, tickets := newSeeder(t)
	ctx := context.Background()
	opts := Options{Allow: true, Password: "Password123!", BcryptCost: 4}

	res, err := seeder.Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.Admin.Role)
	assert.Equal(t, domain.RoleAgent, res.Agent.Role)
	assert.Equal(t, domain.RoleCustomer, res.Customer.Role)
	assert.Equal(t, []string{"technical-support", "billing"}, res.Categories)
	assert.Equal(t, []string{"TCK-000001", "TCK-000002"}, res.TicketCodes)

	stored, err := store.Users.GetByEmail(ctx, "agent@demo.com")
	require.NoError(t, err)
	require.NoError(t, auth.ComparePassword(stored.PasswordHash, "Password123!"))

	mine, err := tickets.ListTickets(ctx, res.Customer.Actor(), access.ListQuery{}, repository.Page{})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	// The agent's reply claims the unassigned ticket too.
	assigned, err := tickets.ListTickets(ctx, res.Agent.Actor(), access.ListQuery{Assigned: access.AssignedMe}, repository.Page{})
	require.NoError(t, err)
	require.Len(t, assigned, 2)

	byCode := map[string]domain.Ticket{}
	for _, ticket := range assigned {
		byCode[ticket.Code] = ticket
	}
	invoice := byCode["TCK-000002"]
	assert.Equal(t, domain.TicketStatusInProgress, invoice.Status)
	assert.Equal(t, domain.TicketStatusWaitingOnCustomer, byCode["TCK-000001"].Status)

	thread, err := tickets.ListMessages(ctx, res.Customer.Actor(), invoice.ID)
	require.NoError(t, err)
	assert.Len(t, thread, 3)
}

func TestRun_UsersAndCategoriesAreIdempotent(t *testing.T) {
	seeder, store, _ := newSeeder(t)
	ctx := context.Background()

	first, err := seeder.Run(ctx, Options{Allow: true, Password: "Password123!", BcryptCost: 4})
	require.NoError(t, err)
	second, err := seeder.Run(ctx, Options{Allow: true, Password: "Changed456!", BcryptCost: 4})
	require.NoError(t, err)

	assert.Equal(t, first.Admin.ID, second.Admin.ID)
	assert.Equal(t, []string{"TCK-000003", "TCK-000004"}, second.TicketCodes)

	stored, err := store.Users.GetByEmail(ctx, "admin@demo.com")
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "Password123!"))

	categories, err := store.Categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}
