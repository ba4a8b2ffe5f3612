// Package seed loads demo accounts, categories and a couple of tickets.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	"github.com/helpdesk-kit/helpdesk-service/internal/service"
)

// ErrNotAllowed is returned when seeding has not been explicitly enabled.
var ErrNotAllowed = errors.New("seeding disabled: set ALLOW_SEED=true")

// Options controls a seed run.
type Options struct {
	Allow      bool
	Password   string
	BcryptCost int
}

// Result lists what the run produced.
type Result struct {
	Admin       *domain.User
	Agent       *domain.User
	Customer    *domain.User
	Categories  []string
	TicketCodes []string
}

// Seeder writes demo data through the regular repositories and ticket service.
type Seeder struct {
	store   repository.Store
	tickets *service.TicketService
	logger  *zap.Logger
}

// New builds a seeder.
func New(store repository.Store, tickets *service.TicketService, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{store: store, tickets: tickets, logger: logger}
}

type demoMessage struct {
	author *domain.User
	body   string
}

// Run upserts the demo users and categories, then files the demo tickets.
// Users and categories are idempotent; tickets are added on every run.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if !opts.Allow {
		return nil, ErrNotAllowed
	}
	if opts.Password == "" {
		return nil, errors.New("seed password is required")
	}

	hash, err := auth.HashPassword(opts.Password, opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	res := &Result{}
	if res.Admin, err = s.upsertUser(ctx, "Demo Admin", "admin@demo.com", hash, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if res.Agent, err = s.upsertUser(ctx, "Demo Agent", "agent@demo.com", hash, domain.RoleAgent); err != nil {
		return nil, err
	}
	if res.Customer, err = s.upsertUser(ctx, "Demo Customer", "customer@demo.com", hash, domain.RoleCustomer); err != nil {
		return nil, err
	}
	s.logger.Info("seeded users",
		zap.String("admin", res.Admin.Email),
		zap.String("agent", res.Agent.Email),
		zap.String("customer", res.Customer.Email))

	for _, c := range []struct{ name, slug string }{
		{"Technical support", "technical-support"},
		{"Billing", "billing"},
	} {
		category, err := s.upsertCategory(ctx, c.name, c.slug)
		if err != nil {
			return nil, err
		}
		res.Categories = append(res.Categories, category.Slug)
	}
	s.logger.Info("seeded categories", zap.Strings("slugs", res.Categories))

	customer := res.Customer.Actor()
	agent := res.Agent.Actor()

	login, err := s.fileTicket(ctx, customer, service.TicketCreateInput{
		Subject:      "Cannot sign in",
		Description:  "Signing in from my phone shows an error.",
		CategorySlug: "technical-support",
		Priority:     domain.TicketPriorityHigh,
	}, nil, []demoMessage{
		{res.Customer, "Hi, I cannot sign in from my phone."},
		{res.Agent, "Thanks. What error do you see exactly?"},
	})
	if err != nil {
		return nil, err
	}

	invoice, err := s.fileTicket(ctx, customer, service.TicketCreateInput{
		Subject:      "Invoice missing",
		Description:  "I made a purchase and cannot find the invoice.",
		CategorySlug: "billing",
		Priority:     domain.TicketPriorityNormal,
	}, &agent, []demoMessage{
		{res.Customer, "I cannot find the invoice for my purchase."},
		{res.Agent, "Can you confirm the email you used for the purchase?"},
		{res.Customer, "Yes, it is customer@demo.com"},
	})
	if err != nil {
		return nil, err
	}

	res.TicketCodes = []string{login.Code, invoice.Code}
	s.logger.Info("seeded tickets", zap.Strings("codes", res.TicketCodes))
	return res, nil
}

func (s *Seeder) upsertUser(ctx context.Context, name, email, hash string, role domain.Role) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.store.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		// Keep the stored password so reseeding never resets credentials.
		existing.Name = name
		existing.Role = role
		existing.IsActive = true
		if err := s.store.Users.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update user %s: %w", email, err)
		}
		return existing, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("load user %s: %w", email, err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %s: %w", email, err)
	}
	return user, nil
}

func (s *Seeder) upsertCategory(ctx context.Context, name, slug string) (*domain.Category, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	existing, err := s.store.Categories.GetBySlug(ctx, slug)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load category %s: %w", slug, err)
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Slug:      slug,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category %s: %w", slug, err)
	}
	return category, nil
}

func (s *Seeder) fileTicket(ctx context.Context, requester domain.Actor, input service.TicketCreateInput, assignee *domain.Actor, thread []demoMessage) (*domain.Ticket, error) {
	ticket, err := s.tickets.CreateTicket(ctx, requester, input)
	if err != nil {
		return nil, fmt.Errorf("create ticket %q: %w", input.Subject, err)
	}
	if assignee != nil {
		assigned, err := s.tickets.SelfAssign(ctx, *assignee, ticket.ID)
		if err != nil {
			return nil, fmt.Errorf("assign ticket %s: %w", ticket.Code, err)
		}
		ticket = assigned
	}
	for _, m := range thread {
		_, updated, err := s.tickets.PostMessage(ctx, m.author.Actor(), ticket.ID, m.body)
		if err != nil {
			return nil, fmt.Errorf("post message on %s: %w", ticket.Code, err)
		}
		ticket = updated
	}
	return ticket, nil
}
