package entity

import "errors"

// Request validation.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidDateRange  = errors.New("check-out date must be after check-in date")
	ErrPastDate          = errors.New("check-in date cannot be in the past")
	ErrCapacityExceeded  = errors.New("guest count exceeds property capacity")
	ErrDateConflict      = errors.New("property is already booked for the selected dates")
	ErrGuestRoleRequired = errors.New("only guests can book properties")
)

// Lookups.
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrBookingNotFound  = errors.New("booking not found")
)

// Cancellation preconditions.
var (
	ErrNotOwner       = errors.New("booking belongs to another guest")
	ErrNotCancellable = errors.New("only confirmed bookings can be cancelled")
	ErrAlreadyStarted = errors.New("cannot cancel a booking that has already started")
)
