package myerrors

import "errors"

var (
	ErrFieldIsEmpty     = errors.New("field is empty")
	ErrInvalidRecord    = errors.New("invalid record")
	ErrInvalidSeatCount = errors.New("invalid seat count")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrRequestInFlight  = errors.New("request already in flight")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired")
	ErrUnknownTab       = errors.New("unknown dashboard tab")
)
