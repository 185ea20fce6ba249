package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id does not resolve to a record
	ErrNotFound = errors.New("not found")

	// ErrValidation wraps rejected input; the field errors remain reachable with errors.As
	ErrValidation = errors.New("validation failed")

	// ErrDuplicatePath is returned when a favorite already exists for a path
	ErrDuplicatePath = errors.New("document is already a favorite")

	// ErrFolderMissing is a soft failure: the project's folder no longer exists,
	// so its cached file list was left untouched
	ErrFolderMissing = errors.New("project folder does not exist")
)

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
