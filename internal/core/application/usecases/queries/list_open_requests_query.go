package queries

import (
	"errors"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"

	"github.com/govalues/decimal"
)

var ErrListOpenRequestsQueryIsNotConstructed = errors.New(
	"ListOpenRequestsQuery must be created via NewListOpenRequestsQuery constructor",
)

// ListOpenRequestsQuery lists the quote requests a delivery provider may bid on.
//
// Example:
//
//	query, err := NewListOpenRequestsQuery(providerID)
//	if err != nil {
//	    return err
//	}
//	requests, err := handler.Handle(ctx, query)
//	for _, r := range requests {
//	    fmt.Printf("%s to %s/%s before %s\n", r.RequestID,
//	        r.Address.District(), r.Address.Town(), r.Deadline)
//	}
type ListOpenRequestsQuery struct {
	providerID kernel.UUID
	guard      guard.ConstructorGuard
}

func NewListOpenRequestsQuery(providerID kernel.UUID) (ListOpenRequestsQuery, error) {
	if err := providerID.Validate(); err != nil {
		return ListOpenRequestsQuery{}, errs.NewValueIsRequiredErrorWithCause("providerId", err)
	}
	return ListOpenRequestsQuery{providerID: providerID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOpenRequestsQuery) Validate() error {
	return q.guard.Validate(ErrListOpenRequestsQueryIsNotConstructed)
}

func (q ListOpenRequestsQuery) ProviderID() kernel.UUID {
	return q.providerID
}

// ListOpenRequestsQueryResponse is one biddable request. Customer fields are blank
// when the user service does not know the buyer.
type ListOpenRequestsQueryResponse struct {
	RequestID     kernel.UUID
	OrderID       kernel.UUID
	CustomerName  string
	CustomerPhone string
	Address       kernel.Address
	ItemCount     int
	Total         decimal.Decimal
	Deadline      time.Time
	CreatedAt     time.Time
}
