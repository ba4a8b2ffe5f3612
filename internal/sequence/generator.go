// Package sequence mints strictly increasing integers for human-readable codes.
package sequence

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// TicketCounter is the counter name used for ticket codes.
const TicketCounter = "ticket"

// codeWidth is the zero-padded width of the numeric suffix.
const codeWidth = 6

// Store is a durable counter. Increment must read, add one and persist as a
// single indivisible operation, creating the counter at zero when absent.
type Store interface {
	Increment(ctx context.Context, name string) (int64, error)
}

// Generator issues values from a Store and classifies its failures.
type Generator struct {
	store    Store
	onFailed func(name string, err error)
}

// Option configures a Generator.
type Option func(*Generator)

// WithFailureHook registers a callback invoked when the store fails.
func WithFailureHook(fn func(name string, err error)) Option {
	return func(g *Generator) { g.onFailed = fn }
}

// NewGenerator wraps a store.
func NewGenerator(store Store, opts ...Option) *Generator {
	g := &Generator{store: store}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns the next value for name. The first call for a fresh counter returns 1.
// Store failures surface as conflicts so the caller can retry the whole operation.
func (g *Generator) Next(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperrors.NewValidationError("counter name required", nil)
	}
	value, err := g.store.Increment(ctx, name)
	if err != nil {
		if g.onFailed != nil {
			g.onFailed(name, err)
		}
		conflict := apperrors.NewConflict("sequence increment failed", map[string]any{"counter": name}).(*apperrors.DomainError)
		conflict.Err = err
		return 0, conflict.WithCode("SEQUENCE_UNAVAILABLE")
	}
	if value <= 0 {
		return 0, apperrors.NewInternalError(fmt.Errorf("counter %q returned non-positive value %d", name, value))
	}
	return value, nil
}

// Format renders prefix-NNNNNN. Values wider than six digits are not truncated.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s-%0*d", prefix, codeWidth, n)
}
