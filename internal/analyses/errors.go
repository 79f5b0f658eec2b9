package analyses

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrImageRequired     = errors.New("image is required")
	ErrMalformedResponse = errors.New("malformed provider response")
)
