package models

import "errors"

// Domain specific errors for authentication, authorization and booking.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrBadRequest      = errors.New("bad request")
	ErrValidation      = errors.New("validation failed")
	ErrUnreachable     = errors.New("cannot reach server")
	ErrServer          = errors.New("server error")
	ErrInvalidDates    = errors.New("check-out must be after check-in")
	ErrNoSelection     = errors.New("at least one unit must be selected")
	ErrQuantity        = errors.New("selected quantity exceeds availability")
)
