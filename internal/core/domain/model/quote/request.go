package quote

import (
	"errors"
	"fmt"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"
)

// ErrRequestIsNotConstructed is returned when a Request was not built by NewRequest
// or RestoreRequest.
var ErrRequestIsNotConstructed = errors.New("Request must be created via NewRequest constructor")

// Request is the single quote request opened for an order at checkout.
type Request struct {
	id        kernel.UUID
	orderID   kernel.UUID
	createdAt time.Time
	deadline  time.Time
	status    RequestStatus
	guard     guard.ConstructorGuard
}

// NewRequest opens a request for orderID accepting quotes until deadline.
func NewRequest(id, orderID kernel.UUID, createdAt, deadline time.Time) (*Request, error) {
	r := &Request{
		createdAt: createdAt,
		status:    RequestOpen,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setOrderID(orderID),
		r.setDeadline(deadline),
	); err != nil {
		return nil, err
	}

	return r, nil
}

func RestoreRequest(
	id, orderID kernel.UUID,
	createdAt, deadline time.Time,
	status RequestStatus,
) (*Request, error) {
	r := &Request{
		createdAt: createdAt,
		deadline:  deadline,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setOrderID(orderID),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	r.status = status

	return r, nil
}

func (r *Request) Validate() error {
	if r == nil {
		return ErrRequestIsNotConstructed
	}
	return r.guard.Validate(ErrRequestIsNotConstructed)
}

func (r *Request) ID() kernel.UUID {
	return r.id
}

func (r *Request) OrderID() kernel.UUID {
	return r.orderID
}

func (r *Request) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Request) Deadline() time.Time {
	return r.deadline
}

func (r *Request) Status() RequestStatus {
	return r.status
}

// EffectiveStatus reports an OPEN request past its deadline as EXPIRED.
func (r *Request) EffectiveStatus(now time.Time) RequestStatus {
	if r.status == RequestOpen && !now.Before(r.deadline) {
		return RequestExpired
	}
	return r.status
}

// IsOpen reports whether the request still accepts new quotes at now.
func (r *Request) IsOpen(now time.Time) bool {
	return r.EffectiveStatus(now) == RequestOpen
}

// EnsureOpen returns an *errs.RequestClosedError unless the request accepts quotes at now.
func (r *Request) EnsureOpen(now time.Time) error {
	switch r.EffectiveStatus(now) {
	case RequestOpen:
		return nil
	case RequestExpired:
		return errs.NewRequestClosedError(r.id.String(), "deadline passed")
	case RequestClosed:
		return errs.NewRequestClosedError(r.id.String(), "a quote was already accepted")
	case RequestUnknown:
		return errs.NewRequestClosedError(r.id.String(), "unknown status")
	default:
		return errs.NewRequestClosedError(r.id.String(), r.status.String())
	}
}

// Close ends bidding for good. An expired request can still be closed when one of
// its quotes, valid past the request deadline, is accepted.
func (r *Request) Close() error {
	if r.status == RequestClosed {
		return errs.NewRequestClosedError(r.id.String(), "already closed")
	}
	r.status = RequestClosed
	return nil
}

// Expire flips an OPEN request whose deadline has passed to EXPIRED.
func (r *Request) Expire(now time.Time) error {
	if r.status != RequestOpen || now.Before(r.deadline) {
		return errs.NewValueIsInvalidErrorWithCause(
			"request status",
			fmt.Errorf("%s request with deadline %s cannot expire at %s",
				r.status, r.deadline.Format(time.RFC3339), now.Format(time.RFC3339)),
		)
	}
	r.status = RequestExpired
	return nil
}

func (r *Request) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Request) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	r.orderID = id
	return nil
}

func (r *Request) setDeadline(deadline time.Time) error {
	if !deadline.After(r.createdAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"deadline",
			fmt.Errorf("%s is not after %s", deadline.Format(time.RFC3339), r.createdAt.Format(time.RFC3339)),
		)
	}
	r.deadline = deadline
	return nil
}
