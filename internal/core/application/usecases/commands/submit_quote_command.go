package commands

import (
	"errors"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"

	"github.com/govalues/decimal"
)

var ErrSubmitQuoteCommandIsNotConstructed = errors.New(
	"SubmitQuoteCommand must be created via NewSubmitQuoteCommand constructor",
)

// SubmitQuoteCommand is a provider's bid on the quote request of an order.
type SubmitQuoteCommand struct { //nolint:recvcheck //using for validation
	quoteID      kernel.UUID
	orderID      kernel.UUID
	providerID   kernel.UUID
	fee          decimal.Decimal
	deliveryDate time.Time
	note         string
	validity     time.Duration

	guard guard.ConstructorGuard
}

// MaxWindow bounds the client supplied request expiry and quote validity.
const MaxWindow = 365 * 24 * time.Hour

// NewSubmitQuoteCommand validates the bid. A non-positive validity selects the
// configured default; one longer than MaxWindow is rejected.
func NewSubmitQuoteCommand(
	quoteID, orderID, providerID kernel.UUID,
	fee decimal.Decimal,
	deliveryDate time.Time,
	note string,
	validity time.Duration,
) (SubmitQuoteCommand, error) {
	cmd := SubmitQuoteCommand{
		note:  note,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setID(&cmd.quoteID, quoteID, "quoteId"),
		setID(&cmd.orderID, orderID, "orderId"),
		setID(&cmd.providerID, providerID, "providerId"),
		cmd.setFee(fee),
		cmd.setDeliveryDate(deliveryDate),
		cmd.setValidity(validity),
	); err != nil {
		return SubmitQuoteCommand{}, err
	}

	return cmd, nil
}

func (c SubmitQuoteCommand) Validate() error {
	return c.guard.Validate(ErrSubmitQuoteCommandIsNotConstructed)
}

func (c SubmitQuoteCommand) QuoteID() kernel.UUID {
	return c.quoteID
}

func (c SubmitQuoteCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SubmitQuoteCommand) ProviderID() kernel.UUID {
	return c.providerID
}

func (c SubmitQuoteCommand) Fee() decimal.Decimal {
	return c.fee
}

func (c SubmitQuoteCommand) DeliveryDate() time.Time {
	return c.deliveryDate
}

func (c SubmitQuoteCommand) Note() string {
	return c.note
}

// Validity is zero when the provider left it to the default.
func (c SubmitQuoteCommand) Validity() time.Duration {
	return c.validity
}

func (c *SubmitQuoteCommand) setFee(fee decimal.Decimal) error {
	if !fee.IsPos() {
		return errs.NewValueIsOutOfRangeError("fee", fee.String(), "0 (exclusive)", "unbounded")
	}

	c.fee = fee
	return nil
}

func (c *SubmitQuoteCommand) setDeliveryDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("deliveryDate")
	}

	c.deliveryDate = date
	return nil
}

func (c *SubmitQuoteCommand) setValidity(validity time.Duration) error {
	if validity > MaxWindow {
		return errs.NewValueIsOutOfRangeError("validityHours", validity.Hours(), 0, MaxWindow.Hours())
	}

	c.validity = max(validity, 0)
	return nil
}
