package domain

import "fmt"

// Kind classifies a failure so the transport layer can pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindConflict
	KindUnprocessable
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnprocessable:
		return "unprocessable"
	default:
		return "internal"
	}
}

// Error is a typed domain failure. Code is the short key rendered as the
// "message" of the error envelope.
type Error struct {
	Kind        Kind
	Code        string
	Description string
}

func (e *Error) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// Is matches on kind and code, ignoring the description, so sentinels keep
// matching after WithDescription.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// WithDescription returns a copy of e carrying a formatted description.
func (e *Error) WithDescription(format string, args ...any) *Error {
	c := *e
	c.Description = fmt.Sprintf(format, args...)
	return &c
}

var (
	ErrInvalidInput = &Error{Kind: KindBadRequest, Code: "bad_request", Description: "malformed or missing fields"}

	ErrUnauthorized  = &Error{Kind: KindUnauthorized, Code: "unauthorized", Description: "permission not found"}
	ErrInvalidClaims = &Error{Kind: KindUnauthorized, Code: "Invalid_claims", Description: "caller may not act on this resource"}

	ErrClothesNotFound     = &Error{Kind: KindNotFound, Code: "clothes_not_found", Description: "clothes not found"}
	ErrUserNotFound        = &Error{Kind: KindNotFound, Code: "user_not_found", Description: "user not found"}
	ErrReservationNotFound = &Error{Kind: KindNotFound, Code: "reservation_not_found", Description: "no reservation found"}

	ErrItemsBusy = &Error{Kind: KindConflict, Code: "items_busy", Description: "items are locked by another batch"}

	ErrAlreadyReserved      = &Error{Kind: KindUnprocessable, Code: "already_reserved", Description: "clothes already reserved"}
	ErrMultipleReservations = &Error{Kind: KindUnprocessable, Code: "multiple_reservations", Description: "more than one reservation references the clothes"}
	ErrClothesReserved      = &Error{Kind: KindUnprocessable, Code: "clothes_reserved", Description: "reserved clothes cannot be deleted"}
	ErrStatusIncoherent     = &Error{Kind: KindUnprocessable, Code: "status_incoherent", Description: "status must follow the reservation ledger"}
	ErrUserExists           = &Error{Kind: KindUnprocessable, Code: "user_exists", Description: "auth0_id or e_mail already registered"}
	ErrUserHasReservations  = &Error{Kind: KindUnprocessable, Code: "user_has_reservations", Description: "user still holds reservations"}
	ErrUnprocessable        = &Error{Kind: KindUnprocessable, Code: "unprocessable", Description: "request could not be processed"}
)
