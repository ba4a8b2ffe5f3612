package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-kit/helpdesk-service/internal/access"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

const ticketSelectColumns = `id, code, subject, description, status, priority, category_id, requester_id,
               assignee_id, last_message_at, resolved_at, closed_at, created_at, updated_at, version`

// pgExecutor is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, code, subject, description, status, priority, category_id, requester_id,
            assignee_id, last_message_at, resolved_at, closed_at, created_at, updated_at, version)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,1)`
	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.Code,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.CategoryID,
		ticket.RequesterID,
		ticket.AssigneeID,
		ticket.LastMessageAt,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		return translatePgError(err)
	}
	ticket.Version = 1
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketSelectColumns + ` FROM tickets WHERE id=$1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translatePgError(err)
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter access.FilterSpec, page Page) ([]domain.Ticket, error) {
	where, args, err := CompileTicketFilter(filter, PostgresDialect, 0)
	if err != nil {
		return nil, err
	}
	page = page.Normalize()
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY last_message_at DESC, code DESC LIMIT %d OFFSET %d`,
		ticketSelectColumns, where, page.Limit, page.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Update(ctx context.Context, next *domain.Ticket, expectedVersion int64) error {
	return updateTicket(ctx, r.pool, next, expectedVersion)
}

func (r *ticketRepository) AppendMessage(ctx context.Context, next *domain.Ticket, expectedVersion int64, msg *domain.TicketMessage) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := updateTicket(ctx, tx, next, expectedVersion); err != nil {
			return err
		}
		const query = `
            INSERT INTO ticket_messages (id, ticket_id, author_id, body, is_internal, created_at)
            VALUES ($1,$2,$3,$4,$5,$6)`
		if _, err := tx.Exec(ctx, query,
			msg.ID,
			msg.TicketID,
			msg.AuthorID,
			msg.Body,
			msg.IsInternal,
			msg.CreatedAt,
		); err != nil {
			return translatePgError(err)
		}
		return nil
	})
}

func updateTicket(ctx context.Context, db pgExecutor, next *domain.Ticket, expectedVersion int64) error {
	const query = `
        UPDATE tickets SET status=$1, assignee_id=$2, last_message_at=$3, resolved_at=$4, closed_at=$5,
            updated_at=$6, version=version+1
        WHERE id=$7 AND version=$8`
	cmd, err := db.Exec(ctx, query,
		next.Status,
		next.AssigneeID,
		next.LastMessageAt,
		next.ResolvedAt,
		next.ClosedAt,
		next.UpdatedAt,
		next.ID,
		expectedVersion,
	)
	if err != nil {
		return translatePgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrConflict
	}
	next.Version = expectedVersion + 1
	return nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CategoryID,
		&ticket.RequesterID,
		&ticket.AssigneeID,
		&ticket.LastMessageAt,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.Version,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
