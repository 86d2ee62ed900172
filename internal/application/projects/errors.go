package projects

import "errors"

var (
	ErrNotFound       = errors.New("Project not found")
	ErrValidation     = errors.New("Invalid project")
	ErrUnknownVariant = errors.New("Unknown project variant")
)
