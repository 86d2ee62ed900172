package enquiries

import "errors"

var (
	ErrNotFound   = errors.New("Enquiry not found")
	ErrValidation = errors.New("Invalid enquiry")
)
