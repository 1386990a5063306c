package patient

import "errors"

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPatientAlreadyExists = errors.New("patient with this id already exists")
	ErrInvalidGender        = errors.New("invalid gender value")
	ErrInvalidStatus        = errors.New("invalid patient status")
)
