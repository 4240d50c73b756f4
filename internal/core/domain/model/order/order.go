package order

import (
	"errors"
	"fmt"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"

	"github.com/govalues/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrItemsAreRequired is returned when an order is built without line items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// AcceptedQuote is the view of a quote the order needs to authorize a delivery
// confirmation. quote.Quote satisfies it.
type AcceptedQuote interface {
	ID() kernel.UUID
	ProviderID() kernel.UUID
	IsAccepted() bool
}

// Order is the aggregate root of a customer's purchase and its fulfillment.
//
// Order follows these invariants:
//   - Exactly one buyer, at least one item, a valid destination address
//   - Total equals the sum of item subtotals
//   - Status is always one of the defined values and changes only through the
//     transition table in Status
//   - A DELIVERY_PENDING order has no accepted quote; once set, the accepted
//     quote reference is never cleared
//
// Every status change appends a StatusChanged event, which the unit of work writes
// to the outbox in the same transaction.
type Order struct {
	id              kernel.UUID
	buyerID         kernel.UUID
	items           []Item
	address         kernel.Address
	status          Status
	total           decimal.Decimal
	acceptedQuoteID *kernel.UUID
	createdAt       time.Time
	updatedAt       time.Time

	events []kernel.DomainEvent
	guard  guard.ConstructorGuard
}

// NewOrder places a new order in DELIVERY_PENDING status. The total is computed from
// the items.
//
// Example:
//
//	item, _ := order.NewItem(productID, sellerID, 2, decimal.MustNew(500, 0))
//	addr, _ := kernel.NewAddress("12", "Main Street", "Gampaha", "Negombo")
//	o, err := order.NewOrder(kernel.NewUUID(), buyerID, []order.Item{item}, addr, time.Now())
func NewOrder(id, buyerID kernel.UUID, items []Item, address kernel.Address, now time.Time) (*Order, error) {
	o := &Order{
		status:    DeliveryPending,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setBuyerID(buyerID),
		o.setItems(items),
		o.setAddress(address),
	); err != nil {
		return nil, err
	}

	total, err := sumItems(o.items)
	if err != nil {
		return nil, err
	}
	o.total = total

	return o, nil
}

// RestoreOrder rebuilds an order from storage. The stored total is kept as is;
// the status and accepted quote reference are checked against each other.
func RestoreOrder(
	id, buyerID kernel.UUID,
	items []Item,
	address kernel.Address,
	status Status,
	total decimal.Decimal,
	acceptedQuoteID *kernel.UUID,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		total:     total,
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setBuyerID(buyerID),
		o.setItems(items),
		o.setAddress(address),
		o.setStatus(status, acceptedQuoteID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) BuyerID() kernel.UUID {
	return o.buyerID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// ItemCount is the total quantity across all lines.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.items {
		count += item.quantity
	}
	return count
}

func (o *Order) Address() kernel.Address {
	return o.address
}

// Destination is the (district, town) pair matched against provider coverage.
func (o *Order) Destination() kernel.Area {
	return o.address.Area()
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Total() decimal.Decimal {
	return o.total
}

// AcceptedQuoteID returns a copy of the accepted quote reference, or nil.
func (o *Order) AcceptedQuoteID() *kernel.UUID {
	if o.acceptedQuoteID == nil {
		return nil
	}
	id := *o.acceptedQuoteID
	return &id
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsBoughtBy reports whether buyerID placed the order.
func (o *Order) IsBoughtBy(buyerID kernel.UUID) bool {
	return o.buyerID.IsEqual(buyerID)
}

// HasSeller reports whether at least one line belongs to sellerID.
func (o *Order) HasSeller(sellerID kernel.UUID) bool {
	for _, item := range o.items {
		if item.sellerID.IsEqual(sellerID) {
			return true
		}
	}
	return false
}

// SellerIDs returns the distinct sellers of the order in line order.
func (o *Order) SellerIDs() []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(o.items))
	ids := make([]kernel.UUID, 0, len(o.items))
	for _, item := range o.items {
		if _, ok := seen[item.sellerID]; ok {
			continue
		}
		seen[item.sellerID] = struct{}{}
		ids = append(ids, item.sellerID)
	}
	return ids
}

// AcceptQuote records the accepted quote and moves DELIVERY_PENDING -> ORDER_PENDING.
// The caller is responsible for the quote itself being accepted in the same unit of work.
func (o *Order) AcceptQuote(quoteID kernel.UUID, now time.Time) error {
	if err := quoteID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("quoteId", err)
	}

	next, err := o.status.TransitionTo(OrderPending)
	if err != nil {
		return err
	}
	o.acceptedQuoteID = &quoteID
	o.apply(next, o.buyerID, now)
	return nil
}

// ConfirmBySeller moves DELIVERY_PENDING -> ORDER_PENDING without a quote; the seller
// arranges delivery outside the bidding.
func (o *Order) ConfirmBySeller(sellerID kernel.UUID, now time.Time) error {
	if err := o.authorizeSeller(sellerID); err != nil {
		return err
	}
	return o.transition(OrderPending, sellerID, now)
}

// PrepareShipping moves ORDER_PENDING -> SHIPPED.
func (o *Order) PrepareShipping(sellerID kernel.UUID, now time.Time) error {
	if err := o.authorizeSeller(sellerID); err != nil {
		return err
	}
	return o.transition(Shipped, sellerID, now)
}

// Cancel moves DELIVERY_PENDING or ORDER_PENDING -> CANCELED.
func (o *Order) Cancel(sellerID kernel.UUID, now time.Time) error {
	if err := o.authorizeSeller(sellerID); err != nil {
		return err
	}
	return o.transition(Canceled, sellerID, now)
}

// ChangeStatusBySeller dispatches a seller's requested target status to the matching
// transition. Targets a seller cannot request fail with errs.ErrInvalidTransition.
func (o *Order) ChangeStatusBySeller(sellerID kernel.UUID, target Status, now time.Time) error {
	switch target {
	case OrderPending:
		return o.ConfirmBySeller(sellerID, now)
	case Shipped:
		return o.PrepareShipping(sellerID, now)
	case Canceled:
		return o.Cancel(sellerID, now)
	case Unknown, DeliveryPending, Delivered:
		if err := o.authorizeSeller(sellerID); err != nil {
			return err
		}
		return errs.NewInvalidTransitionError(o.status, target)
	default:
		return errs.NewInvalidTransitionError(o.status, target)
	}
}

// MarkDelivered moves SHIPPED -> DELIVERED. Only the provider holding the order's
// accepted quote, with that quote still ACCEPTED, may confirm.
func (o *Order) MarkDelivered(providerID kernel.UUID, accepted AcceptedQuote, now time.Time) error {
	resource := fmt.Sprintf("order %s", o.id)
	actor := fmt.Sprintf("provider %s", providerID)

	if o.acceptedQuoteID == nil || accepted == nil {
		return errs.NewUnauthorizedError(actor, resource)
	}
	if !accepted.ID().IsEqual(*o.acceptedQuoteID) ||
		!accepted.ProviderID().IsEqual(providerID) ||
		!accepted.IsAccepted() {
		return errs.NewUnauthorizedError(actor, resource)
	}

	return o.transition(Delivered, providerID, now)
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (o *Order) DomainEvents() []kernel.DomainEvent {
	return append([]kernel.DomainEvent(nil), o.events...)
}

func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) transition(to Status, actorID kernel.UUID, now time.Time) error {
	next, err := o.status.TransitionTo(to)
	if err != nil {
		return err
	}

	o.apply(next, actorID, now)
	return nil
}

func (o *Order) apply(next Status, actorID kernel.UUID, now time.Time) {
	from := o.status
	o.status = next
	o.updatedAt = now
	o.events = append(o.events, newStatusChanged(o, actorID, from, now))
}

func (o *Order) authorizeSeller(sellerID kernel.UUID) error {
	if !o.HasSeller(sellerID) {
		return errs.NewUnauthorizedError(fmt.Sprintf("seller %s", sellerID), fmt.Sprintf("order %s", o.id))
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setBuyerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("buyerId", err)
	}
	o.buyerID = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for idx, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", idx), err)
		}
	}
	o.items = append([]Item(nil), items...)
	return nil
}

func (o *Order) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) setStatus(status Status, acceptedQuoteID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := status.ValidateCanHaveAcceptedQuote(acceptedQuoteID != nil); err != nil {
		return err
	}
	o.status = status
	if acceptedQuoteID != nil {
		id := *acceptedQuoteID
		o.acceptedQuoteID = &id
	}
	return nil
}

func sumItems(items []Item) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range items {
		subtotal, err := item.Subtotal()
		if err != nil {
			return decimal.Zero, err
		}
		if total, err = total.Add(subtotal); err != nil {
			return decimal.Zero, err
		}
	}
	return total, nil
}
