package model

import "errors"

var (
	// ErrNotFound is returned when a phase, a task or a stored resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid (e.g. a corrupt progress document).
	ErrNotValid = errors.New("not valid")
)
