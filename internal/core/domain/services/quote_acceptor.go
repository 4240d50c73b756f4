package services

import (
	"errors"
	"fmt"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/core/domain/model/quote"
	"aqualink/internal/pkg/errs"
)

var ErrQuoteNotInRequest = errors.New("quote does not belong to the request")

// QuoteAcceptor applies a customer's acceptance of one quote as a single change set
// over the order, its request and every quote of the request.
//
// Preconditions re-checked here, on rows the caller has locked:
//   - the customer is the order's buyer (errs.ErrUnauthorized)
//   - no quote of the request is already ACCEPTED (errs.ErrQuoteUnavailable)
//   - the chosen quote is PENDING and inside its validity window (errs.ErrQuoteUnavailable)
//
// Effects:
//   - chosen quote -> ACCEPTED with the acceptance time
//   - every other PENDING quote -> REJECTED, or EXPIRED when already past validity
//   - request -> CLOSED
//   - order -> ORDER_PENDING with the accepted quote reference
type QuoteAcceptor struct{}

func NewQuoteAcceptor() QuoteAcceptor {
	return QuoteAcceptor{}
}

// Accept returns the accepted quote. On error nothing observable has been committed;
// the caller rolls its unit of work back.
func (QuoteAcceptor) Accept(
	o *order.Order,
	req *quote.Request,
	quotes []*quote.Quote,
	quoteID, customerID kernel.UUID,
	now time.Time,
) (*quote.Quote, error) {
	if err := errors.Join(o.Validate(), req.Validate()); err != nil {
		return nil, err
	}
	if !req.OrderID().IsEqual(o.ID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"request", fmt.Errorf("request %s belongs to order %s, not %s", req.ID(), req.OrderID(), o.ID()))
	}

	if !o.IsBoughtBy(customerID) {
		return nil, errs.NewUnauthorizedError(fmt.Sprintf("customer %s", customerID), fmt.Sprintf("order %s", o.ID()))
	}

	var chosen *quote.Quote
	for _, q := range quotes {
		if !q.RequestID().IsEqual(req.ID()) {
			return nil, ErrQuoteNotInRequest
		}
		if q.ID().IsEqual(quoteID) {
			chosen = q
			continue
		}
		if q.IsAccepted() {
			return nil, errs.NewQuoteUnavailableError(quoteID.String(), "another quote was already accepted")
		}
	}
	if chosen == nil {
		return nil, errs.NewObjectNotFoundError("quoteId", quoteID)
	}

	if chosen.IsAcceptable(now) && req.Status() == quote.RequestClosed {
		return nil, errs.NewQuoteUnavailableError(quoteID.String(), "bidding is closed")
	}
	if err := chosen.Accept(now); err != nil {
		return nil, err
	}
	if err := quote.CloseBidding(req, quotes, now); err != nil {
		return nil, err
	}
	if err := o.AcceptQuote(chosen.ID(), now); err != nil {
		if errors.Is(err, errs.ErrInvalidTransition) {
			return nil, errs.NewQuoteUnavailableError(quoteID.String(), fmt.Sprintf("order is %s", o.Status()))
		}
		return nil, err
	}

	return chosen, nil
}
