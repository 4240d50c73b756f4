package quote

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"

	"github.com/govalues/decimal"
)

// MaxNoteLength bounds the free-text note a provider may attach.
const MaxNoteLength = 1000

// ErrQuoteIsNotConstructed is returned when a Quote was not built by NewQuote or RestoreQuote.
var ErrQuoteIsNotConstructed = errors.New("Quote must be created via NewQuote constructor")

// Quote is a provider's priced offer to deliver the order behind a Request.
type Quote struct {
	id           kernel.UUID
	requestID    kernel.UUID
	providerID   kernel.UUID
	fee          decimal.Decimal
	deliveryDate time.Time
	note         string
	status       Status
	createdAt    time.Time
	validUntil   time.Time
	acceptedAt   *time.Time
	guard        guard.ConstructorGuard
}

// NewQuote creates a PENDING quote valid for validity from now.
func NewQuote(
	id, requestID, providerID kernel.UUID,
	fee decimal.Decimal,
	deliveryDate time.Time,
	note string,
	validity time.Duration,
	now time.Time,
) (*Quote, error) {
	q := &Quote{
		status:    Pending,
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setID(id),
		q.setRequestID(requestID),
		q.setProviderID(providerID),
		q.setFee(fee),
		q.setDeliveryDate(deliveryDate),
		q.setNote(note),
		q.setValidity(validity, now),
	); err != nil {
		return nil, err
	}

	return q, nil
}

// RestoreQuote rebuilds a quote from storage. acceptedAt must be set exactly when
// the status is ACCEPTED.
func RestoreQuote(
	id, requestID, providerID kernel.UUID,
	fee decimal.Decimal,
	deliveryDate time.Time,
	note string,
	status Status,
	createdAt, validUntil time.Time,
	acceptedAt *time.Time,
) (*Quote, error) {
	q := &Quote{
		deliveryDate: deliveryDate,
		note:         note,
		createdAt:    createdAt,
		validUntil:   validUntil,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setID(id),
		q.setRequestID(requestID),
		q.setProviderID(providerID),
		q.setFee(fee),
		q.setStatus(status, acceptedAt),
	); err != nil {
		return nil, err
	}

	return q, nil
}

func (q *Quote) Validate() error {
	if q == nil {
		return ErrQuoteIsNotConstructed
	}
	return q.guard.Validate(ErrQuoteIsNotConstructed)
}

func (q *Quote) ID() kernel.UUID {
	return q.id
}

func (q *Quote) RequestID() kernel.UUID {
	return q.requestID
}

func (q *Quote) ProviderID() kernel.UUID {
	return q.providerID
}

func (q *Quote) Fee() decimal.Decimal {
	return q.fee
}

func (q *Quote) DeliveryDate() time.Time {
	return q.deliveryDate
}

func (q *Quote) Note() string {
	return q.note
}

// Status is the stored status. Use EffectiveStatus when deciding what a reader sees.
func (q *Quote) Status() Status {
	return q.status
}

func (q *Quote) CreatedAt() time.Time {
	return q.createdAt
}

func (q *Quote) ValidUntil() time.Time {
	return q.validUntil
}

// AcceptedAt returns a copy of the acceptance time, or nil.
func (q *Quote) AcceptedAt() *time.Time {
	if q.acceptedAt == nil {
		return nil
	}
	at := *q.acceptedAt
	return &at
}

// EffectiveStatus reports a PENDING quote past validUntil as EXPIRED.
func (q *Quote) EffectiveStatus(now time.Time) Status {
	if q.status == Pending && !now.Before(q.validUntil) {
		return Expired
	}
	return q.status
}

// IsAccepted reports whether the stored status is ACCEPTED.
func (q *Quote) IsAccepted() bool {
	return q.status == Accepted
}

// IsAcceptable reports whether the quote can still be accepted at now.
func (q *Quote) IsAcceptable(now time.Time) bool {
	return q.EffectiveStatus(now) == Pending
}

// Accept moves a PENDING, unexpired quote to ACCEPTED and records now.
// Anything else yields *errs.QuoteUnavailableError.
func (q *Quote) Accept(now time.Time) error {
	switch q.EffectiveStatus(now) {
	case Pending:
		q.status = Accepted
		at := now
		q.acceptedAt = &at
		return nil
	case Expired:
		return errs.NewQuoteUnavailableError(q.id.String(), "quote expired")
	case Accepted:
		return errs.NewQuoteUnavailableError(q.id.String(), "quote already accepted")
	case Rejected:
		return errs.NewQuoteUnavailableError(q.id.String(), "quote was rejected")
	case Unknown:
		return errs.NewQuoteUnavailableError(q.id.String(), "unknown status")
	default:
		return errs.NewQuoteUnavailableError(q.id.String(), q.status.String())
	}
}

// Reject closes a PENDING quote that lost. A quote already past its validity window
// becomes EXPIRED instead, so its history stays truthful.
func (q *Quote) Reject(now time.Time) error {
	if q.status != Pending {
		return errs.NewInvalidTransitionError(q.status, Rejected)
	}
	q.status = q.EffectiveStatus(now)
	if q.status == Pending {
		q.status = Rejected
	}
	return nil
}

// Expire moves a PENDING quote whose validity passed to EXPIRED.
func (q *Quote) Expire(now time.Time) error {
	if q.EffectiveStatus(now) != Expired || q.status != Pending {
		return errs.NewInvalidTransitionError(q.status, Expired)
	}
	q.status = Expired
	return nil
}

func (q *Quote) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	q.id = id
	return nil
}

func (q *Quote) setRequestID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("requestId", err)
	}
	q.requestID = id
	return nil
}

func (q *Quote) setProviderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("providerId", err)
	}
	q.providerID = id
	return nil
}

func (q *Quote) setFee(fee decimal.Decimal) error {
	if !fee.IsPos() {
		return errs.NewValueIsInvalidErrorWithCause("fee", fmt.Errorf("%s is not greater than 0", fee))
	}
	q.fee = fee
	return nil
}

func (q *Quote) setDeliveryDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("deliveryDate")
	}
	q.deliveryDate = date
	return nil
}

func (q *Quote) setNote(note string) error {
	note = strings.TrimSpace(note)
	if len(note) > MaxNoteLength {
		return errs.NewValueIsOutOfRangeError("note length", len(note), 0, MaxNoteLength)
	}
	q.note = note
	return nil
}

func (q *Quote) setValidity(validity time.Duration, now time.Time) error {
	if validity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("validityHours", fmt.Errorf("%s is not positive", validity))
	}
	q.validUntil = now.Add(validity)
	return nil
}

func (q *Quote) setStatus(status Status, acceptedAt *time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if (status == Accepted) != (acceptedAt != nil) {
		return errs.NewValueIsInvalidErrorWithCause(
			"acceptedAt",
			fmt.Errorf("acceptedAt must be set exactly when status is %s, got %s", Accepted, status),
		)
	}
	q.status = status
	if acceptedAt != nil {
		at := *acceptedAt
		q.acceptedAt = &at
	}
	return nil
}
