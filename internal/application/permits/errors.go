package permits

import "errors"

var (
	ErrNotFound     = errors.New("Permit not found")
	ErrNoteNotFound = errors.New("Permit note not found")
	ErrValidation   = errors.New("Invalid permit")
)
