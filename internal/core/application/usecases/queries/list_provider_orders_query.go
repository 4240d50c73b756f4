package queries

import (
	"context"
	"errors"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/quote"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"

	"github.com/govalues/decimal"
	"gorm.io/gorm"
)

var ErrListProviderOrdersQueryIsNotConstructed = errors.New(
	"ListProviderOrdersQuery must be created via NewListProviderOrdersQuery constructor",
)

// ListProviderOrdersQuery lists the orders a delivery provider won, newest first.
type ListProviderOrdersQuery struct {
	providerID kernel.UUID
	filter     OrderFilter
	guard      guard.ConstructorGuard
}

func NewListProviderOrdersQuery(providerID kernel.UUID, filter OrderFilter) (ListProviderOrdersQuery, error) {
	var errList []error
	if err := providerID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("providerId", err))
	}
	errList = append(errList, filter.validate())
	if err := errors.Join(errList...); err != nil {
		return ListProviderOrdersQuery{}, err
	}

	return ListProviderOrdersQuery{providerID: providerID, filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListProviderOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListProviderOrdersQueryIsNotConstructed)
}

func (q ListProviderOrdersQuery) ProviderID() kernel.UUID {
	return q.providerID
}

func (q ListProviderOrdersQuery) Filter() OrderFilter {
	return q.filter
}

// ListProviderOrdersQueryResponse is an order with the terms of the provider's
// accepted quote.
type ListProviderOrdersQueryResponse struct {
	Order        OrderView
	QuoteID      kernel.UUID
	Fee          decimal.Decimal
	DeliveryDate time.Time
}

type ListProviderOrdersQueryHandler struct {
	db    *gorm.DB
	clock Clock
}

func NewListProviderOrdersQueryHandler(db *gorm.DB, clock Clock) ListProviderOrdersQueryHandler {
	return ListProviderOrdersQueryHandler{db: db, clock: clock}
}

func (h ListProviderOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListProviderOrdersQuery,
) ([]ListProviderOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	conds := []string{"q.provider_id = ?", "q.status = ?"}
	args := []any{query.ProviderID().Bytes(), quote.Accepted.String()}
	conds, args = query.Filter().where(conds, args)

	orders, err := listOrders(ctx, h.db, "orders o JOIN quotes q ON q.id = o.accepted_quote_id",
		conds, args, kernel.UUID{})
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, *o.AcceptedQuoteID)
	}
	quotes, err := loadQuotes(ctx, h.db, ids, h.clock().UTC())
	if err != nil {
		return nil, err
	}

	result := make([]ListProviderOrdersQueryResponse, 0, len(orders))
	for _, o := range orders {
		q := quotes[*o.AcceptedQuoteID]
		result = append(result, ListProviderOrdersQueryResponse{
			Order:        o,
			QuoteID:      q.ID,
			Fee:          q.Fee,
			DeliveryDate: q.DeliveryDate,
		})
	}
	return result, nil
}
