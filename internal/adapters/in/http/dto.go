package http

import (
	"fmt"
	"time"

	"aqualink/internal/core/application/usecases/commands"
	"aqualink/internal/core/application/usecases/queries"
	"aqualink/internal/core/domain/model/coverage"
	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/core/domain/model/quote"
	"aqualink/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

// dateLayout is the wire format of delivery dates.
const dateLayout = time.DateOnly

type AddressDTO struct {
	Place    string `json:"place,omitempty"`
	Street   string `json:"street"`
	District string `json:"district"`
	Town     string `json:"town"`
}

func (a AddressDTO) toDomain() (kernel.Address, error) {
	return kernel.NewAddress(a.Place, a.Street, a.District, a.Town)
}

func addressDTO(a kernel.Address) AddressDTO {
	return AddressDTO{Place: a.Place(), Street: a.Street(), District: a.District(), Town: a.Town()}
}

type OrderLineDTO struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type CreateDeliveryRequestRequest struct {
	Items          []OrderLineDTO `json:"items"`
	Subtotal       string         `json:"subtotal"`
	Address        AddressDTO     `json:"address"`
	ExpiresInHours int            `json:"expiresInHours,omitempty"`
}

// hours converts a window given in hours. Values above commands.MaxWindow are
// rejected here since the multiplication would overflow time.Duration.
func hours(name string, value int) (time.Duration, error) {
	if value > int(commands.MaxWindow/time.Hour) {
		return 0, errs.NewValueIsOutOfRangeError(name, value, 0, int(commands.MaxWindow/time.Hour))
	}
	return time.Duration(value) * time.Hour, nil
}

type DeliveryRequestCreatedResponse struct {
	OrderID   uuid.UUID `json:"orderId"`
	RequestID uuid.UUID `json:"requestId"`
	Deadline  time.Time `json:"deadline"`
}

type OpenRequestDTO struct {
	RequestID     uuid.UUID  `json:"requestId"`
	OrderID       uuid.UUID  `json:"orderId"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"`
	Address       AddressDTO `json:"address"`
	ItemCount     int        `json:"itemCount"`
	Total         string     `json:"total"`
	Deadline      time.Time  `json:"deadline"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type SubmitQuoteRequest struct {
	OrderID       uuid.UUID `json:"orderId"`
	Fee           string    `json:"fee"`
	DeliveryDate  string    `json:"deliveryDate"`
	Note          string    `json:"note,omitempty"`
	ValidityHours int       `json:"validityHours,omitempty"`
}

type QuoteDTO struct {
	ID           uuid.UUID  `json:"id"`
	RequestID    uuid.UUID  `json:"requestId"`
	ProviderID   uuid.UUID  `json:"providerId"`
	Fee          string     `json:"fee"`
	DeliveryDate string     `json:"deliveryDate"`
	Note         string     `json:"note"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	ValidUntil   time.Time  `json:"validUntil"`
	AcceptedAt   *time.Time `json:"acceptedAt"`
}

type OrderItemDTO struct {
	ProductID uuid.UUID `json:"productId"`
	SellerID  uuid.UUID `json:"sellerId"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unitPrice"`
	Mine      bool      `json:"mine"`
}

type OrderDTO struct {
	ID              uuid.UUID      `json:"id"`
	BuyerID         uuid.UUID      `json:"buyerId"`
	Status          string         `json:"status"`
	Total           string         `json:"total"`
	Address         AddressDTO     `json:"address"`
	AcceptedQuoteID *uuid.UUID     `json:"acceptedQuoteId"`
	Items           []OrderItemDTO `json:"items"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

type OrderDetailsDTO struct {
	Order         OrderDTO  `json:"order"`
	AcceptedQuote *QuoteDTO `json:"acceptedQuote,omitempty"`
}

type AcceptanceDTO struct {
	Quote QuoteDTO `json:"quote"`
	Order OrderDTO `json:"order"`
}

type ProviderOrderDTO struct {
	Order        OrderDTO  `json:"order"`
	QuoteID      uuid.UUID `json:"quoteId"`
	Fee          string    `json:"fee"`
	DeliveryDate string    `json:"deliveryDate"`
}

type UpdateStatusRequest struct {
	OrderID uuid.UUID `json:"orderId"`
	Status  string    `json:"status"`
}

type SetCoverageRequest struct {
	Areas map[string][]string `json:"areas"`
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available"`
}

type CoverageDTO struct {
	ProviderID uuid.UUID           `json:"providerId"`
	Areas      map[string][]string `json:"areas"`
	Available  bool                `json:"available"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// parseMoney reads a decimal amount sent as a JSON string.
func parseMoney(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, errs.NewValueIsRequiredError(field)
	}
	d, err := decimal.Parse(s)
	if err != nil {
		return decimal.Decimal{}, errs.NewValueIsInvalidErrorWithCause(field, err)
	}
	return d, nil
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errs.NewValueIsRequiredError(field)
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause(field, fmt.Errorf("want YYYY-MM-DD: %w", err))
	}
	return d, nil
}

// toKernel converts an identifier from the wire. The nil UUID is rejected.
func toKernel(field string, id uuid.UUID) (kernel.UUID, error) {
	k, err := kernel.UUIDFromGoogle(id)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsRequiredErrorWithCause(field, err)
	}
	return k, nil
}

func quoteFromView(v queries.QuoteView) QuoteDTO {
	return QuoteDTO{
		ID:           v.ID.Bytes(),
		RequestID:    v.RequestID.Bytes(),
		ProviderID:   v.ProviderID.Bytes(),
		Fee:          v.Fee.String(),
		DeliveryDate: v.DeliveryDate.Format(dateLayout),
		Note:         v.Note,
		Status:       v.Status.String(),
		CreatedAt:    v.CreatedAt,
		ValidUntil:   v.ValidUntil,
		AcceptedAt:   v.AcceptedAt,
	}
}

func quoteFromDomain(q *quote.Quote, now time.Time) QuoteDTO {
	return QuoteDTO{
		ID:           q.ID().Bytes(),
		RequestID:    q.RequestID().Bytes(),
		ProviderID:   q.ProviderID().Bytes(),
		Fee:          q.Fee().String(),
		DeliveryDate: q.DeliveryDate().Format(dateLayout),
		Note:         q.Note(),
		Status:       q.EffectiveStatus(now).String(),
		CreatedAt:    q.CreatedAt(),
		ValidUntil:   q.ValidUntil(),
		AcceptedAt:   q.AcceptedAt(),
	}
}

func orderFromView(v queries.OrderView) OrderDTO {
	items := make([]OrderItemDTO, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID.Bytes(),
			SellerID:  item.SellerID.Bytes(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
			Mine:      item.Mine,
		})
	}

	return OrderDTO{
		ID:              v.ID.Bytes(),
		BuyerID:         v.BuyerID.Bytes(),
		Status:          v.Status.String(),
		Total:           v.Total.String(),
		Address:         addressDTO(v.Address),
		AcceptedQuoteID: optionalID(v.AcceptedQuoteID),
		Items:           items,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

// orderFromDomain renders an order returned by a command. Lines sold by viewer are
// flagged mine.
func orderFromDomain(o *order.Order, viewer kernel.UUID) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID().Bytes(),
			SellerID:  item.SellerID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().String(),
			Mine:      item.SellerID().IsEqual(viewer),
		})
	}

	return OrderDTO{
		ID:              o.ID().Bytes(),
		BuyerID:         o.BuyerID().Bytes(),
		Status:          o.Status().String(),
		Total:           o.Total().String(),
		Address:         addressDTO(o.Address()),
		AcceptedQuoteID: optionalID(o.AcceptedQuoteID()),
		Items:           items,
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
}

func coverageFromDomain(c *coverage.Coverage) CoverageDTO {
	return CoverageDTO{
		ProviderID: c.ProviderID().Bytes(),
		Areas:      kernel.AreasToDistrictMap(c.Areas()),
		Available:  c.IsAvailable(),
		UpdatedAt:  c.UpdatedAt(),
	}
}

func coverageFromQuery(r queries.GetCoverageQueryResponse) CoverageDTO {
	return CoverageDTO{
		ProviderID: r.ProviderID.Bytes(),
		Areas:      kernel.AreasToDistrictMap(r.Areas),
		Available:  r.Available,
		UpdatedAt:  r.UpdatedAt,
	}
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}
