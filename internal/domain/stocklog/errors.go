package stocklog

import "errors"

var (
	ErrInvalidAction   = errors.New("invalid stock log action")
	ErrStockMismatch   = errors.New("new stock must equal previous stock plus quantity")
	ErrMissingMedicine = errors.New("stock log entry must name a medicine")
	ErrMissingActor    = errors.New("stock log entry must name who performed it")
	ErrMissingEntry    = errors.New("stock change has no log entry")
)
