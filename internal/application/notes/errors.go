package notes

import "errors"

var (
	ErrNotFound   = errors.New("Note history not found")
	ErrValidation = errors.New("Invalid note")
)
