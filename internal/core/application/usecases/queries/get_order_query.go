package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/quote"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"

	"gorm.io/gorm"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order on behalf of an actor: its buyer, a seller with an
// item in it, or the provider holding its accepted quote.
type GetOrderQuery struct {
	orderID kernel.UUID
	actorID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID, actorID kernel.UUID) (GetOrderQuery, error) {
	var errList []error
	if err := orderID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("orderId", err))
	}
	if err := actorID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("actorId", err))
	}
	if err := errors.Join(errList...); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{orderID: orderID, actorID: actorID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) ActorID() kernel.UUID {
	return q.actorID
}

// GetOrderQueryResponse carries the order and, once one was accepted, its quote.
type GetOrderQueryResponse struct {
	Order         OrderView
	AcceptedQuote *QuoteView
}

type GetOrderQueryHandler struct {
	db    *gorm.DB
	clock Clock
}

func NewGetOrderQueryHandler(db *gorm.DB, clock Clock) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db, clock: clock}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	view, err := scanOrder(h.db.WithContext(ctx).Raw(
		"SELECT "+orderColumns+" FROM orders o WHERE o.id = ?", query.OrderID().Bytes(),
	).Row())
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderId", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	orders := []OrderView{view}
	if err = attachItems(ctx, h.db, orders, query.ActorID()); err != nil {
		return GetOrderQueryResponse{}, err
	}
	response := GetOrderQueryResponse{Order: orders[0]}

	if view.AcceptedQuoteID != nil {
		quotes, qErr := loadQuotes(ctx, h.db, []kernel.UUID{*view.AcceptedQuoteID}, h.clock().UTC())
		if qErr != nil {
			return GetOrderQueryResponse{}, qErr
		}
		if accepted, ok := quotes[*view.AcceptedQuoteID]; ok {
			response.AcceptedQuote = &accepted
		}
	}

	if !canRead(response, query.ActorID()) {
		return GetOrderQueryResponse{}, errs.NewUnauthorizedError(
			fmt.Sprintf("actor %s", query.ActorID()), fmt.Sprintf("order %s", query.OrderID()))
	}
	return response, nil
}

func canRead(r GetOrderQueryResponse, actor kernel.UUID) bool {
	if r.Order.BuyerID.IsEqual(actor) {
		return true
	}
	for _, item := range r.Order.Items {
		if item.Mine {
			return true
		}
	}
	return r.AcceptedQuote != nil &&
		r.AcceptedQuote.Status == quote.Accepted &&
		r.AcceptedQuote.ProviderID.IsEqual(actor)
}
