package service

import (
	"errors"

	"github.com/dmehra2102/prod-golang-projects/medstock/internal/domain"
)

var (
	ErrForbidden            = errors.New("forbidden: insufficient permissions")
	ErrConfirmationRequired = errors.New("deletion requires explicit confirmation")
	ErrUnauthenticated      = errors.New("no authenticated staff member")
)

// ValidationError lists every rejected field; nothing is coerced.
type ValidationError = domain.ValidationError
