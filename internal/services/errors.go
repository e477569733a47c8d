package services

import "errors"

// Domain errors returned by the booking and room services. Handlers map these
// to HTTP status codes; anything else is treated as an internal failure and
// surfaced to the caller only with a generic message.
var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrForbidden           = errors.New("insufficient privileges")
	ErrBookingFinished     = errors.New("booking has already finished")
	ErrApprovedConflict    = errors.New("an approved booking already occupies this slot")
	ErrDuplicateRoomNumber = errors.New("room number already exists")
)
