package sqlite

import (
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
)

// NewStore bundles the SQLite repositories behind the repository interfaces.
func NewStore(db *DB) repository.Store {
	return repository.Store{
		Tickets:    NewTicketRepository(db),
		Messages:   NewMessageRepository(db),
		Users:      NewUserRepository(db),
		Categories: NewCategoryRepository(db),
		Sequences:  NewSequenceRepository(db),
		Ping:       db.Ping,
		Close:      func() { _ = db.Close() },
	}
}
