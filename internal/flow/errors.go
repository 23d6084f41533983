package flow

import "errors"

var (
	ErrInvalidTransition = errors.New("event not allowed on current screen")
	ErrPhoneRequired     = errors.New("phone number is required")
	ErrNameRequired      = errors.New("name is required to sign up")
	ErrCodeRequired      = errors.New("verification code is required")
	ErrCodeRejected      = errors.New("verification code rejected")
	ErrUnknownBus        = errors.New("bus not found at this stop")
	ErrSeatUnavailable   = errors.New("seat is not available")
	ErrNoSeatSelected    = errors.New("no seat selected")
)
