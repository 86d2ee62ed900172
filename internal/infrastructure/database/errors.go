package database

import "errors"

var (
	ErrNotFound             = errors.New("record not found")
	ErrUnknownEntity        = errors.New("unknown entity")
	ErrUnknownField         = errors.New("unknown field")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrSoftDeleteCoverage   = errors.New("soft-delete registration does not match schema")
)
