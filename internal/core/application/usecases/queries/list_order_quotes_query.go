package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrListOrderQuotesQueryIsNotConstructed = errors.New(
	"ListOrderQuotesQuery must be created via NewListOrderQuotesQuery constructor",
)

// ListOrderQuotesQuery lists every quote submitted for an order. Only the buyer may
// read them.
type ListOrderQuotesQuery struct {
	orderID     kernel.UUID
	requesterID kernel.UUID
	guard       guard.ConstructorGuard
}

func NewListOrderQuotesQuery(orderID, requesterID kernel.UUID) (ListOrderQuotesQuery, error) {
	var errList []error
	if err := orderID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("orderId", err))
	}
	if err := requesterID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("requesterId", err))
	}
	if err := errors.Join(errList...); err != nil {
		return ListOrderQuotesQuery{}, err
	}

	return ListOrderQuotesQuery{
		orderID:     orderID,
		requesterID: requesterID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrderQuotesQuery) Validate() error {
	return q.guard.Validate(ErrListOrderQuotesQueryIsNotConstructed)
}

func (q ListOrderQuotesQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q ListOrderQuotesQuery) RequesterID() kernel.UUID {
	return q.requesterID
}

type ListOrderQuotesQueryHandler struct {
	db    *gorm.DB
	clock Clock
}

func NewListOrderQuotesQueryHandler(db *gorm.DB, clock Clock) ListOrderQuotesQueryHandler {
	return ListOrderQuotesQueryHandler{db: db, clock: clock}
}

// Handle returns the quotes oldest first, ties broken by id.
func (h ListOrderQuotesQueryHandler) Handle(ctx context.Context, query ListOrderQuotesQuery) ([]QuoteView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var buyerID uuid.UUID
	err := h.db.WithContext(ctx).
		Raw("SELECT buyer_id FROM orders WHERE id = ?", query.OrderID().Bytes()).
		Row().Scan(&buyerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("orderId", query.OrderID())
	}
	if err != nil {
		return nil, err
	}
	if buyerID != query.RequesterID().Bytes() {
		return nil, errs.NewUnauthorizedError(
			fmt.Sprintf("customer %s", query.RequesterID()), fmt.Sprintf("order %s", query.OrderID()))
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+quoteColumns+`
		FROM quotes q
		JOIN quote_requests r ON r.id = q.request_id
		WHERE r.order_id = ?
		ORDER BY q.created_at, q.id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := h.clock().UTC()
	quotes := make([]QuoteView, 0)
	for rows.Next() {
		view, scanErr := scanQuote(rows, now)
		if scanErr != nil {
			return nil, scanErr
		}
		quotes = append(quotes, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return quotes, nil
}
