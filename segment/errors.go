package segment

import "errors"

var (
	// ErrInvalidOptions indicates segmentation options failed validation.
	ErrInvalidOptions = errors.New("invalid segment options")
)
