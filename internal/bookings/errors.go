package bookings

import "errors"

var (
	// ErrInvalidDates means the requested range is malformed
	// (return date not after pickup date, or pickup in the past).
	ErrInvalidDates = errors.New("bookings: invalid date range")

	// ErrVehicleUnavailable means an overlapping reservation already holds
	// the vehicle for part of the requested range. Retryable by choosing
	// different dates, never resolved silently.
	ErrVehicleUnavailable = errors.New("bookings: vehicle unavailable for requested dates")

	// ErrInvalidTransition means a lifecycle move not present in the
	// transition table was attempted. Indicates a caller bug; never
	// swallowed.
	ErrInvalidTransition = errors.New("bookings: invalid state transition")

	// ErrBookingNotFound means no booking matches the given identifier.
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrNotAuthorized means the actor has no claim over the booking.
	ErrNotAuthorized = errors.New("bookings: actor not authorized for booking")

	// ErrRenterNotVerified means the renter has not passed ID verification.
	ErrRenterNotVerified = errors.New("bookings: renter is not verified")

	// ErrOwnVehicle means a renter tried to book their own listing.
	ErrOwnVehicle = errors.New("bookings: cannot book own vehicle")

	// ErrVehicleNotListed means the vehicle is not open for bookings.
	ErrVehicleNotListed = errors.New("bookings: vehicle is not listed")
)
