// Package errs provides the error types used across the marketplace core.
//
// Every error follows one pattern: a sentinel (ErrQuoteUnavailable), a struct carrying
// the details (QuoteUnavailableError), constructors with and without a cause, Error()
// and an Unwrap() returning the sentinel so callers can use errors.Is.
//
// The sentinels map one-to-one onto the error kinds reported at the API boundary:
//   - ErrObjectNotFound: NotFound
//   - ErrUnauthorized: Unauthorized
//   - ErrInvalidTransition: InvalidTransition
//   - ErrDuplicateQuote: DuplicateQuote
//   - ErrQuoteUnavailable: QuoteUnavailable
//   - ErrRequestClosed: RequestClosed
//   - ErrValueIsRequired, ErrValueIsInvalid, ErrValueIsOutOfRange: ValidationError
//
// KindOf performs that mapping.
package errs
