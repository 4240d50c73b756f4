package errs

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrDuplicateQuote    = errors.New("duplicate quote")
	ErrQuoteUnavailable  = errors.New("quote unavailable")
	ErrRequestClosed     = errors.New("request closed")
)

// UnauthorizedError reports an actor touching a resource it does not own or take part in.
type UnauthorizedError struct {
	Actor    string
	Resource string
}

func NewUnauthorizedError(actor, resource string) *UnauthorizedError {
	return &UnauthorizedError{Actor: actor, Resource: resource}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s: %s has no access to %s", ErrUnauthorized, e.Actor, e.Resource)
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// InvalidTransitionError reports a status change the state machine does not permit.
type InvalidTransitionError struct {
	From string
	To   string
}

func NewInvalidTransitionError(from, to fmt.Stringer) *InvalidTransitionError {
	return &InvalidTransitionError{From: from.String(), To: to.String()}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// DuplicateQuoteError reports a second quote by the same provider on one request.
type DuplicateQuoteError struct {
	RequestID  string
	ProviderID string
	Cause      error
}

func NewDuplicateQuoteError(requestID, providerID string) *DuplicateQuoteError {
	return &DuplicateQuoteError{RequestID: requestID, ProviderID: providerID}
}

func NewDuplicateQuoteErrorWithCause(requestID, providerID string, cause error) *DuplicateQuoteError {
	return &DuplicateQuoteError{RequestID: requestID, ProviderID: providerID, Cause: cause}
}

func (e *DuplicateQuoteError) Error() string {
	msg := fmt.Sprintf("%s: provider %s already quoted request %s", ErrDuplicateQuote, e.ProviderID, e.RequestID)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *DuplicateQuoteError) Unwrap() error {
	return ErrDuplicateQuote
}

// QuoteUnavailableError reports a quote that can no longer be accepted.
type QuoteUnavailableError struct {
	QuoteID string
	Reason  string
}

func NewQuoteUnavailableError(quoteID, reason string) *QuoteUnavailableError {
	return &QuoteUnavailableError{QuoteID: quoteID, Reason: reason}
}

func (e *QuoteUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrQuoteUnavailable, e.QuoteID, e.Reason)
}

func (e *QuoteUnavailableError) Unwrap() error {
	return ErrQuoteUnavailable
}

// RequestClosedError reports a quote request that no longer accepts bids.
type RequestClosedError struct {
	RequestID string
	Reason    string
}

func NewRequestClosedError(requestID, reason string) *RequestClosedError {
	return &RequestClosedError{RequestID: requestID, Reason: reason}
}

func (e *RequestClosedError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrRequestClosed, e.RequestID, e.Reason)
}

func (e *RequestClosedError) Unwrap() error {
	return ErrRequestClosed
}

// Kind is the error class reported at the API boundary.
type Kind string

const (
	KindNotFound          Kind = "NotFound"
	KindUnauthorized      Kind = "Unauthorized"
	KindInvalidTransition Kind = "InvalidTransition"
	KindDuplicateQuote    Kind = "DuplicateQuote"
	KindQuoteUnavailable  Kind = "QuoteUnavailable"
	KindRequestClosed     Kind = "RequestClosed"
	KindValidation        Kind = "ValidationError"
	KindInternal          Kind = "Internal"
)

// KindOf classifies err by walking its chain, including errors.Join trees.
// Unknown errors are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrDuplicateQuote):
		return KindDuplicateQuote
	case errors.Is(err, ErrQuoteUnavailable):
		return KindQuoteUnavailable
	case errors.Is(err, ErrRequestClosed):
		return KindRequestClosed
	case errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange):
		return KindValidation
	default:
		return KindInternal
	}
}
