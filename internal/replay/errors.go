package replay

import "errors"

var (
	ErrUnknownOp         = errors.New("unknown scenario op")
	ErrInvalidStep       = errors.New("invalid scenario step")
	ErrExpectationFailed = errors.New("expectation failed")
	ErrUnsupportedFormat = errors.New("unsupported scenario format")
)
