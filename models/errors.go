package models

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindValidation      ErrorKind = "validation"
	KindInternal        ErrorKind = "internal"
)

// Error is a business-rule failure. Two errors match under errors.Is when
// their codes are equal, so sentinels still match copies carrying extra
// detail such as the conflicting seats.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Seats   []string  `json:"seats,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrEventNotFound      = &Error{Kind: KindNotFound, Code: "event_not_found", Message: "Event not found"}
	ErrBookingNotFound    = &Error{Kind: KindNotFound, Code: "booking_not_found", Message: "Booking not found"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "User not found"}
	ErrSeatTaken          = &Error{Kind: KindConflict, Code: "seat_taken", Message: "Seat is already booked"}
	ErrSeatsTaken         = &Error{Kind: KindConflict, Code: "seats_taken", Message: "Seats already booked"}
	ErrSoldOut            = &Error{Kind: KindConflict, Code: "sold_out", Message: "Event is sold out"}
	ErrNotEnoughSeats     = &Error{Kind: KindConflict, Code: "not_enough_seats", Message: "Not enough seats available"}
	ErrPaymentFailed      = &Error{Kind: KindConflict, Code: "payment_failed", Message: "Payment failed. Please try again."}
	ErrAlreadyPaid        = &Error{Kind: KindConflict, Code: "already_paid", Message: "Booking is already paid"}
	ErrPaymentInProgress  = &Error{Kind: KindConflict, Code: "payment_in_progress", Message: "Payment is already being processed"}
	ErrBookingInactive    = &Error{Kind: KindConflict, Code: "booking_inactive", Message: "Booking is not active"}
	ErrUserExists         = &Error{Kind: KindConflict, Code: "user_exists", Message: "User with this email already exists"}
	ErrNotOwner           = &Error{Kind: KindUnauthorized, Code: "not_owner", Message: "Unauthorized"}
	ErrForbidden          = &Error{Kind: KindUnauthorized, Code: "forbidden", Message: "Forbidden"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Code: "invalid_credentials", Message: "Invalid email or password"}
	ErrMissingToken       = &Error{Kind: KindUnauthenticated, Code: "missing_token", Message: "No token, authorization denied"}
	ErrInvalidToken       = &Error{Kind: KindUnauthenticated, Code: "invalid_token", Message: "Token is not valid"}
	ErrNoSeats            = &Error{Kind: KindValidation, Code: "no_seats", Message: "No seats selected"}
	ErrInvalidQuantity    = &Error{Kind: KindValidation, Code: "invalid_quantity", Message: "Quantity must be positive"}
	ErrInvalidTicket      = &Error{Kind: KindValidation, Code: "invalid_ticket", Message: "Invalid ticket code"}
)

// SeatsTaken names the labels that blocked a booking.
func SeatsTaken(seats []string) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    ErrSeatsTaken.Code,
		Message: fmt.Sprintf("Seats already booked: %s", strings.Join(seats, ", ")),
		Seats:   seats,
	}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: "validation", Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of err; anything that is not an *Error is an
// infrastructure failure.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
