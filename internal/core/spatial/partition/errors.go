package partition

import "errors"

var (
	ErrAlreadyTracked  = errors.New("entity is already tracked")
	ErrNotTracked      = errors.New("entity is not tracked")
	ErrInvalidPosition = errors.New("position must be finite")
)
