// Package quoterepo persists quote requests and quotes.
package quoterepo

import (
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/quote"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

const (
	// uniqueProviderQuoteIndex backs "one quote per provider per request".
	uniqueProviderQuoteIndex = "ux_quotes_request_provider"
	// uniqueAcceptedQuoteIndex is the partial unique index on ACCEPTED quotes.
	uniqueAcceptedQuoteIndex = "ux_quotes_one_accepted"
)

// RequestDTO is the quote_requests row. order_id is unique: one request per order.
type RequestDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_quote_requests_order"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	Deadline  time.Time `gorm:"not null;index"`
	Status    string    `gorm:"type:varchar(16);not null;index"`
}

func (RequestDTO) TableName() string {
	return "quote_requests"
}

// QuoteDTO is the quotes row.
type QuoteDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RequestID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_quotes_request_provider,priority:1"`
	ProviderID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_quotes_request_provider,priority:2;index"`
	Fee          string     `gorm:"type:numeric;not null"`
	DeliveryDate time.Time  `gorm:"type:date;not null"`
	Note         string     `gorm:"type:text;not null;default:''"`
	Status       string     `gorm:"type:varchar(16);not null;index"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime:false"`
	ValidUntil   time.Time  `gorm:"not null;index"`
	AcceptedAt   *time.Time
}

func (QuoteDTO) TableName() string {
	return "quotes"
}

func requestFromDomain(r *quote.Request) RequestDTO {
	return RequestDTO{
		ID:        r.ID().Bytes(),
		OrderID:   r.OrderID().Bytes(),
		CreatedAt: r.CreatedAt(),
		Deadline:  r.Deadline(),
		Status:    r.Status().String(),
	}
}

func requestToDomain(dto RequestDTO) (*quote.Request, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromGoogle(dto.OrderID)
	if err != nil {
		return nil, err
	}
	status, err := quote.ParseRequestStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	return quote.RestoreRequest(id, orderID, dto.CreatedAt, dto.Deadline, status)
}

func quoteFromDomain(q *quote.Quote) QuoteDTO {
	return QuoteDTO{
		ID:           q.ID().Bytes(),
		RequestID:    q.RequestID().Bytes(),
		ProviderID:   q.ProviderID().Bytes(),
		Fee:          q.Fee().String(),
		DeliveryDate: q.DeliveryDate(),
		Note:         q.Note(),
		Status:       q.Status().String(),
		CreatedAt:    q.CreatedAt(),
		ValidUntil:   q.ValidUntil(),
		AcceptedAt:   q.AcceptedAt(),
	}
}

func quoteToDomain(dto QuoteDTO) (*quote.Quote, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	requestID, err := kernel.UUIDFromGoogle(dto.RequestID)
	if err != nil {
		return nil, err
	}
	providerID, err := kernel.UUIDFromGoogle(dto.ProviderID)
	if err != nil {
		return nil, err
	}
	fee, err := decimal.Parse(dto.Fee)
	if err != nil {
		return nil, err
	}
	status, err := quote.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	return quote.RestoreQuote(id, requestID, providerID, fee, dto.DeliveryDate, dto.Note,
		status, dto.CreatedAt, dto.ValidUntil, dto.AcceptedAt)
}
