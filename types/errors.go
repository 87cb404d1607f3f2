package types

import "errors"

var (
	ErrInvalidSchema     = errors.New("invalid field schema")
	ErrOracleUnavailable = errors.New("oracle unavailable")
)
