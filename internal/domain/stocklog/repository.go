package stocklog

import "context"

// Repository is an append-only audit trail. There is deliberately no update
// or delete.
type Repository interface {
	// Append validates and stores the entry.
	Append(ctx context.Context, e *Entry) error

	// List returns every entry in append order.
	List(ctx context.Context) ([]*Entry, error)
}
