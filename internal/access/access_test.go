package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

func strPtr(v string) *string { return &v }

func ticket(code, subject, requester string, assignee *string, status domain.TicketStatus) *domain.Ticket {
	return &domain.Ticket{
		ID:          code,
		Code:        code,
		Subject:     subject,
		RequesterID: requester,
		AssigneeID:  assignee,
		Status:      status,
		Priority:    domain.TicketPriorityNormal,
	}
}

func TestCanAccess(t *testing.T) {
	customer := &domain.Actor{ID: "c1", Role: domain.RoleCustomer}
	agent := &domain.Actor{ID: "a1", Role: domain.RoleAgent}
	admin := &domain.Actor{ID: "x1", Role: domain.RoleAdmin}

	own := ticket("TCK-000001", "printer", "c1", nil, domain.TicketStatusOpen)
	foreign := ticket("TCK-000002", "vpn", "c2", strPtr("a2"), domain.TicketStatusOpen)
	mine := ticket("TCK-000003", "email", "c2", strPtr("a1"), domain.TicketStatusInProgress)
	blank := ticket("TCK-000004", "blank", "c2", strPtr(""), domain.TicketStatusOpen)

	cases := []struct {
		name   string
		actor  *domain.Actor
		ticket *domain.Ticket
		want   bool
	}{
		{"admin sees everything", admin, foreign, true},
		{"customer sees own", customer, own, true},
		{"customer denied foreign", customer, foreign, false},
		{"agent sees unassigned", agent, own, true},
		{"agent sees own assignment", agent, mine, true},
		{"agent denied other agent", agent, foreign, false},
		{"empty assignee counts as unassigned", agent, blank, true},
		{"unknown role denied", &domain.Actor{ID: "c1", Role: "GUEST"}, own, false},
		{"nil actor denied", nil, own, false},
		{"nil ticket denied", admin, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanAccess(tc.actor, tc.ticket))
		})
	}
}

func TestCanAccess_IgnoresUnrelatedFields(t *testing.T) {
	agent := &domain.Actor{ID: "a1", Role: domain.RoleAgent}
	base := ticket("TCK-000010", "subject", "c1", nil, domain.TicketStatusOpen)
	want := CanAccess(agent, base)

	for _, status := range domain.TicketStatuses {
		variant := base.Clone()
		variant.Status = status
		variant.Code = "OTHER-1"
		variant.Subject = "something else"
		variant.Priority = domain.TicketPriorityUrgent
		variant.CategoryID = "cat-x"
		assert.Equal(t, want, CanAccess(agent, &variant), status)
	}
}

func TestListFilter_Customer(t *testing.T) {
	actor := &domain.Actor{ID: "c1", Role: domain.RoleCustomer}
	spec, ok := ListFilter(actor, ListQuery{Assigned: AssignedUnassigned})
	require.True(t, ok)
	assert.Equal(t, Eq(FieldRequester, "c1"), spec.Base)
	assert.Empty(t, spec.Refinements)

	assert.True(t, spec.Matches(ticket("T1", "a", "c1", strPtr("a9"), domain.TicketStatusOpen)))
	assert.False(t, spec.Matches(ticket("T2", "a", "c2", nil, domain.TicketStatusOpen)))
}

func TestListFilter_Admin(t *testing.T) {
	actor := &domain.Actor{ID: "x1", Role: domain.RoleAdmin}

	spec, ok := ListFilter(actor, ListQuery{})
	require.True(t, ok)
	assert.Equal(t, MatchAll(), spec.Base)

	spec, ok = ListFilter(actor, ListQuery{Assigned: AssignedUnassigned})
	require.True(t, ok)
	assert.True(t, spec.Matches(ticket("T1", "a", "c1", nil, domain.TicketStatusOpen)))
	assert.False(t, spec.Matches(ticket("T2", "a", "c1", strPtr("a1"), domain.TicketStatusOpen)))

	// "me" is not meaningful for admins and is ignored.
	spec, ok = ListFilter(actor, ListQuery{Assigned: AssignedMe})
	require.True(t, ok)
	assert.Equal(t, MatchAll(), spec.Base)
}

func TestListFilter_AgentViews(t *testing.T) {
	actor := &domain.Actor{ID: "a1", Role: domain.RoleAgent}
	mine := ticket("T1", "a", "c1", strPtr("a1"), domain.TicketStatusOpen)
	unassigned := ticket("T2", "a", "c1", nil, domain.TicketStatusOpen)
	other := ticket("T3", "a", "c1", strPtr("a2"), domain.TicketStatusOpen)

	inbox, ok := ListFilter(actor, ListQuery{})
	require.True(t, ok)
	assert.True(t, inbox.Matches(mine))
	assert.True(t, inbox.Matches(unassigned))
	assert.False(t, inbox.Matches(other))

	me, ok := ListFilter(actor, ListQuery{Assigned: AssignedMe})
	require.True(t, ok)
	assert.True(t, me.Matches(mine))
	assert.False(t, me.Matches(unassigned))

	free, ok := ListFilter(actor, ListQuery{Assigned: AssignedUnassigned})
	require.True(t, ok)
	assert.False(t, free.Matches(mine))
	assert.True(t, free.Matches(unassigned))
	assert.False(t, free.Matches(other))
}

func TestListFilter_TextSearchNarrowsInbox(t *testing.T) {
	actor := &domain.Actor{ID: "a1", Role: domain.RoleAgent}
	tickets := []*domain.Ticket{
		ticket("TCK-000001", "Printer jammed", "c1", strPtr("a1"), domain.TicketStatusOpen),
		ticket("TCK-000002", "printer offline", "c1", nil, domain.TicketStatusOpen),
		ticket("TCK-000003", "PRINTER on fire", "c1", strPtr("a2"), domain.TicketStatusOpen),
		ticket("TCK-000004", "VPN down", "c1", nil, domain.TicketStatusOpen),
	}

	inbox, ok := ListFilter(actor, ListQuery{})
	require.True(t, ok)
	searched, ok := ListFilter(actor, ListQuery{Q: "printer"})
	require.True(t, ok)

	// The role rule stays the base; the text search is a separate conjunct.
	assert.Equal(t, inbox.Base, searched.Base)
	require.Len(t, searched.Refinements, 1)

	var got []string
	for _, tk := range tickets {
		if searched.Matches(tk) {
			assert.True(t, inbox.Matches(tk), "search must never widen the inbox")
			got = append(got, tk.Code)
		}
	}
	assert.Equal(t, []string{"TCK-000001", "TCK-000002"}, got)

	byCode, ok := ListFilter(actor, ListQuery{Q: "tck-000004"})
	require.True(t, ok)
	assert.True(t, byCode.Matches(tickets[3]))
	assert.False(t, byCode.Matches(tickets[0]))
}

func TestListFilter_StatusAndPriority(t *testing.T) {
	actor := &domain.Actor{ID: "x1", Role: domain.RoleAdmin}
	open := ticket("T1", "a", "c1", nil, domain.TicketStatusOpen)
	closed := ticket("T2", "a", "c1", nil, domain.TicketStatusClosed)
	urgent := ticket("T3", "a", "c1", nil, domain.TicketStatusResolved)
	urgent.Priority = domain.TicketPriorityUrgent

	all, _ := ListFilter(actor, ListQuery{Status: StatusAll, Priority: PriorityAll})
	assert.Empty(t, all.Refinements)

	notClosed, _ := ListFilter(actor, ListQuery{Status: StatusAllExceptClosed})
	assert.True(t, notClosed.Matches(open))
	assert.False(t, notClosed.Matches(closed))

	exact, _ := ListFilter(actor, ListQuery{Status: " CLOSED "})
	assert.False(t, exact.Matches(open))
	assert.True(t, exact.Matches(closed))

	bogus, _ := ListFilter(actor, ListQuery{Status: "NOT_A_STATUS"})
	for _, tk := range []*domain.Ticket{open, closed, urgent} {
		assert.False(t, bogus.Matches(tk))
	}

	pr, _ := ListFilter(actor, ListQuery{Priority: "URGENT"})
	assert.True(t, pr.Matches(urgent))
	assert.False(t, pr.Matches(open))
}

func TestListFilter_Denied(t *testing.T) {
	spec, ok := ListFilter(&domain.Actor{ID: "z", Role: "AUDITOR"}, ListQuery{})
	assert.False(t, ok)
	assert.Nil(t, spec)

	spec, ok = ListFilter(nil, ListQuery{})
	assert.False(t, ok)
	assert.Nil(t, spec)
}
