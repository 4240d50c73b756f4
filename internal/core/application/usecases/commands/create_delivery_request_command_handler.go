package commands

import (
	"context"
	"fmt"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/core/domain/model/quote"
	"aqualink/internal/core/ports"
	"aqualink/internal/pkg/errs"
)

// CreateDeliveryRequestResult identifies what checkout created.
type CreateDeliveryRequestResult struct {
	OrderID   kernel.UUID
	RequestID kernel.UUID
	Deadline  time.Time
}

// CreateDeliveryRequestCommandHandler creates an order in DELIVERY_PENDING and its
// OPEN quote request in one transaction. Item prices and sellers come from the
// product catalog, never from the client.
type CreateDeliveryRequestCommandHandler struct {
	uowFactory BiddingUoWFactory
	catalog    ports.ProductCatalog
	defaultTTL time.Duration
	clock      Clock
}

func NewCreateDeliveryRequestCommandHandler(
	uowFactory BiddingUoWFactory,
	catalog ports.ProductCatalog,
	defaultTTL time.Duration,
	clock Clock,
) CreateDeliveryRequestCommandHandler {
	return CreateDeliveryRequestCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		defaultTTL: defaultTTL,
		clock:      clock,
	}
}

func (h *CreateDeliveryRequestCommandHandler) Handle(
	ctx context.Context,
	cmd CreateDeliveryRequestCommand,
) (CreateDeliveryRequestResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateDeliveryRequestResult{}, err
	}

	items, err := h.priceLines(ctx, cmd.Lines())
	if err != nil {
		return CreateDeliveryRequestResult{}, err
	}

	now := h.clock().UTC()
	o, err := order.NewOrder(cmd.OrderID(), cmd.BuyerID(), items, cmd.Address(), now)
	if err != nil {
		return CreateDeliveryRequestResult{}, err
	}

	if o.Total().Cmp(cmd.Subtotal()) != 0 {
		return CreateDeliveryRequestResult{}, errs.NewValueIsInvalidErrorWithCause("subtotal",
			fmt.Errorf("catalog total is %s, got %s", o.Total(), cmd.Subtotal()))
	}

	ttl := cmd.ExpiresIn()
	if ttl == 0 {
		ttl = h.defaultTTL
	}
	req, err := quote.NewRequest(cmd.RequestID(), o.ID(), now, now.Add(ttl))
	if err != nil {
		return CreateDeliveryRequestResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CreateDeliveryRequestResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return CreateDeliveryRequestResult{}, err
	}

	if err = uow.QuoteRequestRepository().Add(ctx, req); err != nil {
		return CreateDeliveryRequestResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateDeliveryRequestResult{}, err
	}

	return CreateDeliveryRequestResult{
		OrderID:   o.ID(),
		RequestID: req.ID(),
		Deadline:  req.Deadline(),
	}, nil
}

func (h *CreateDeliveryRequestCommandHandler) priceLines(ctx context.Context, lines []OrderLine) ([]order.Item, error) {
	ids := make([]kernel.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	products, err := h.catalog.FindProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(lines))
	for i, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].productId", i),
				errs.NewObjectNotFoundError("product", line.ProductID.String()))
		}

		item, itemErr := order.NewItem(product.ID, product.SellerID, line.Quantity, product.Price)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}
	return items, nil
}
