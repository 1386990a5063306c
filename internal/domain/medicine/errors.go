package medicine

import "errors"

var (
	ErrMedicineNotFound  = errors.New("medicine not found")
	ErrDuplicateID       = errors.New("medicine with this id already exists")
	ErrInvalidCategory   = errors.New("invalid medicine category")
	ErrInvalidStatus     = errors.New("invalid stock status")
	ErrNegativeQuantity  = errors.New("stock quantity cannot be negative")
	ErrInsufficientStock = errors.New("insufficient stock for this operation")
	ErrNotExpired        = errors.New("batch has not expired")
)
