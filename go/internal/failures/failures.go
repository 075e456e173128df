// Package failures converts transport errors into the three user-facing
// failure kinds: authentication, validation and transport.
package failures

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mcdev12/soccermanager/go/clients"
)

// SessionExpiredMessage is shown whenever an authenticated call is rejected
const SessionExpiredMessage = "Session expired. Please login again."

// Kind classifies a failure for presentation
type Kind int

const (
	KindTransport Kind = iota
	KindAuthentication
	KindValidation
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindCancelled:
		return "cancelled"
	default:
		return "transport"
	}
}

// Operation names used in generic failure messages
const (
	OpLogin          = "login"
	OpRegister       = "register"
	OpLoadTeam       = "load team data"
	OpUpdateTeam     = "update team"
	OpUpdatePlayer   = "update player"
	OpLoadMarket     = "load transfer market"
	OpListPlayer     = "put player on transfer list"
	OpRepriceListing = "update transfer price"
	OpUnlistPlayer   = "remove player from transfer list"
	OpBuyPlayer      = "buy player"
	OpLoadUser       = "load user data"
	OpUpdateUser     = "update user"
	OpDeleteUser     = "delete account"
)

// Error is the boundary error every component returns to its caller
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Status  int
	Fields  []clients.FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify wraps err for op. Errors that are already classified pass through.
func Classify(op string, err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, clients.ErrNoCredentials) {
		return &Error{Kind: KindAuthentication, Op: op, Message: SessionExpiredMessage, Status: http.StatusUnauthorized, Err: err}
	}

	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindCancelled, Op: op, Message: "cancelled", Err: err}
	}

	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized:
			return &Error{Kind: KindAuthentication, Op: op, Message: SessionExpiredMessage, Status: apiErr.StatusCode, Err: err}
		case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && apiErr.Message != "":
			return &Error{Kind: KindValidation, Op: op, Message: apiErr.Message, Status: apiErr.StatusCode, Fields: apiErr.Fields, Err: err}
		default:
			return &Error{Kind: KindTransport, Op: op, Message: Generic(op), Status: apiErr.StatusCode, Err: err}
		}
	}

	return &Error{Kind: KindTransport, Op: op, Message: Generic(op), Err: err}
}

// Validation builds a locally detected validation failure
func Validation(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message, Status: http.StatusBadRequest}
}

// Generic returns the per-operation fallback message
func Generic(op string) string {
	return "failed to " + op
}

// IsAuthentication reports whether err ended the session
func IsAuthentication(err error) bool {
	return kindOf(err) == KindAuthentication
}

// IsValidation reports whether err should be shown next to the failing form
func IsValidation(err error) bool {
	return kindOf(err) == KindValidation
}

// IsCancelled reports whether err came from a torn-down scope
func IsCancelled(err error) bool {
	return kindOf(err) == KindCancelled
}

// StatusOf returns the HTTP status behind err, 0 when there is none
func StatusOf(err error) int {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Status
	}
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func kindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindTransport
}
