package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/helpdesk-kit/helpdesk-service/internal/access"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
)

const ticketColumns = `id, code, subject, description, status, priority, category_id, requester_id,
		assignee_id, last_message_at, resolved_at, closed_at, created_at, updated_at, version`

// TicketRepository implements repository.TicketRepository for SQLite
type TicketRepository struct {
	db *DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create inserts a new ticket at version 1
func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		INSERT INTO tickets (id, code, subject, description, status, priority, category_id, requester_id,
			assignee_id, last_message_at, resolved_at, closed_at, created_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`
	_, err := r.db.ExecContext(ctx, query,
		ticket.ID,
		ticket.Code,
		ticket.Subject,
		ticket.Description,
		string(ticket.Status),
		string(ticket.Priority),
		ticket.CategoryID,
		ticket.RequesterID,
		nullString(ticket.AssigneeID),
		ticket.LastMessageAt,
		nullTime(ticket.ResolvedAt),
		nullTime(ticket.ClosedAt),
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		return translateError(err)
	}
	ticket.Version = 1
	return nil
}

// GetByID retrieves a ticket by ID
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	ticket, err := scanTicket(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return ticket, nil
}

// List returns tickets matching the filter, most recent activity first
func (r *TicketRepository) List(ctx context.Context, filter access.FilterSpec, page repository.Page) ([]domain.Ticket, error) {
	where, args, err := repository.CompileTicketFilter(filter, dialect, 0)
	if err != nil {
		return nil, err
	}
	page = page.Normalize()
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY last_message_at DESC, code DESC LIMIT %d OFFSET %d`,
		ticketColumns, where, page.Limit, page.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	tickets := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}

// Update persists next when the stored version still matches expectedVersion
func (r *TicketRepository) Update(ctx context.Context, next *domain.Ticket, expectedVersion int64) error {
	return updateTicket(ctx, r.db, next, expectedVersion)
}

// AppendMessage stores msg and the ticket update it triggered in one transaction
func (r *TicketRepository) AppendMessage(ctx context.Context, next *domain.Ticket, expectedVersion int64, msg *domain.TicketMessage) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateTicket(ctx, tx, next, expectedVersion); err != nil {
		return err
	}

	query := `
		INSERT INTO ticket_messages (id, ticket_id, author_id, body, is_internal, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query,
		msg.ID,
		msg.TicketID,
		msg.AuthorID,
		msg.Body,
		msg.IsInternal,
		msg.CreatedAt,
	); err != nil {
		return translateError(err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit message: %w", err)
	}
	return nil
}

func updateTicket(ctx context.Context, db execer, next *domain.Ticket, expectedVersion int64) error {
	query := `
		UPDATE tickets
		SET status = ?, assignee_id = ?, last_message_at = ?, resolved_at = ?, closed_at = ?,
			updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`
	result, err := db.ExecContext(ctx, query,
		string(next.Status),
		nullString(next.AssigneeID),
		next.LastMessageAt,
		nullTime(next.ResolvedAt),
		nullTime(next.ClosedAt),
		next.UpdatedAt,
		next.ID,
		expectedVersion,
	)
	if err != nil {
		return translateError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrConflict
	}
	next.Version = expectedVersion + 1
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket     domain.Ticket
		status     string
		priority   string
		assigneeID sql.NullString
		resolvedAt sql.NullTime
		closedAt   sql.NullTime
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.Subject,
		&ticket.Description,
		&status,
		&priority,
		&ticket.CategoryID,
		&ticket.RequesterID,
		&assigneeID,
		&ticket.LastMessageAt,
		&resolvedAt,
		&closedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.Version,
	); err != nil {
		return nil, err
	}
	ticket.Status = domain.TicketStatus(status)
	ticket.Priority = domain.TicketPriority(priority)
	if assigneeID.Valid {
		ticket.AssigneeID = &assigneeID.String
	}
	if resolvedAt.Valid {
		ticket.ResolvedAt = &resolvedAt.Time
	}
	if closedAt.Valid {
		ticket.ClosedAt = &closedAt.Time
	}
	return &ticket, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}
