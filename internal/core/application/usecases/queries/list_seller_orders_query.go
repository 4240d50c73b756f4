package queries

import (
	"context"
	"errors"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"

	"gorm.io/gorm"
)

var ErrListSellerOrdersQueryIsNotConstructed = errors.New(
	"ListSellerOrdersQuery must be created via NewListSellerOrdersQuery constructor",
)

// ListSellerOrdersQuery lists orders holding at least one item of the seller,
// newest first.
//
// Example:
//
//	status := order.OrderPending
//	query, err := NewListSellerOrdersQuery(sellerID, OrderFilter{Status: &status})
//	orders, err := handler.Handle(ctx, query)
type ListSellerOrdersQuery struct {
	sellerID kernel.UUID
	filter   OrderFilter
	guard    guard.ConstructorGuard
}

func NewListSellerOrdersQuery(sellerID kernel.UUID, filter OrderFilter) (ListSellerOrdersQuery, error) {
	var errList []error
	if err := sellerID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("sellerId", err))
	}
	errList = append(errList, filter.validate())
	if err := errors.Join(errList...); err != nil {
		return ListSellerOrdersQuery{}, err
	}

	return ListSellerOrdersQuery{sellerID: sellerID, filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListSellerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListSellerOrdersQueryIsNotConstructed)
}

func (q ListSellerOrdersQuery) SellerID() kernel.UUID {
	return q.sellerID
}

func (q ListSellerOrdersQuery) Filter() OrderFilter {
	return q.filter
}

type ListSellerOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListSellerOrdersQueryHandler(db *gorm.DB) ListSellerOrdersQueryHandler {
	return ListSellerOrdersQueryHandler{db: db}
}

// Handle returns every item of each order; the seller's own lines are flagged Mine.
func (h ListSellerOrdersQueryHandler) Handle(ctx context.Context, query ListSellerOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	conds := []string{
		"EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id AND i.seller_id = ?)",
	}
	args := []any{query.SellerID().Bytes()}
	conds, args = query.Filter().where(conds, args)

	return listOrders(ctx, h.db, "orders o", conds, args, query.SellerID())
}
