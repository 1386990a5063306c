package medicine

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain/stocklog"
	"github.com/google/uuid"
)

// Mutation changes a medicine and returns the stock log entry describing the
// change.
type Mutation func(m *Medicine) (*stocklog.Entry, error)

type Repository interface {
	// Create stores m. A non-nil opening entry is appended to the stock log
	// in the same atomic step, so either both are kept or neither is.
	Create(ctx context.Context, m *Medicine, opening *stocklog.Entry) error

	// GetByID returns ErrMedicineNotFound if the id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error)

	// List returns every medicine in insertion order.
	List(ctx context.Context) ([]*Medicine, error)

	// Mutate loads the medicine, applies fn and persists the result together
	// with the entry fn returns, as one atomic step. An error from fn, an
	// invalid entry or a failed log write aborts without writing anything.
	Mutate(ctx context.Context, id uuid.UUID, fn Mutation) (*Medicine, error)

	// Delete returns ErrMedicineNotFound and leaves the store untouched if
	// the id is unknown.
	Delete(ctx context.Context, id uuid.UUID) error
}
