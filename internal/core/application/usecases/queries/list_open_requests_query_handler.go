package queries

import (
	"context"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/core/domain/model/quote"
	"aqualink/internal/core/domain/services"
	"aqualink/internal/core/ports"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"gorm.io/gorm"
)

// ListOpenRequestsQueryHandler matches open quote requests against a provider's
// coverage.
//
// The candidate query already drops requests that are closed, past their deadline,
// behind an order no longer waiting for delivery, already quoted by the provider,
// or outside the provider's areas. services.QuoteMatcher then applies the
// availability and coverage rules to what is left and fixes the order.
type ListOpenRequestsQueryHandler struct {
	db        *gorm.DB
	customers ports.CustomerDirectory
	matcher   services.QuoteMatcher
	clock     Clock
}

func NewListOpenRequestsQueryHandler(
	db *gorm.DB,
	customers ports.CustomerDirectory,
	matcher services.QuoteMatcher,
	clock Clock,
) ListOpenRequestsQueryHandler {
	return ListOpenRequestsQueryHandler{db: db, customers: customers, matcher: matcher, clock: clock}
}

type openRequestRow struct {
	candidate services.Candidate
	buyerID   kernel.UUID
	address   kernel.Address
	itemCount int
	total     decimal.Decimal
	createdAt time.Time
}

// Handle returns an empty list for providers without coverage or marked unavailable.
func (h ListOpenRequestsQueryHandler) Handle(
	ctx context.Context,
	query ListOpenRequestsQuery,
) ([]ListOpenRequestsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := h.clock().UTC()
	result := make([]ListOpenRequestsQueryResponse, 0)

	cov, err := loadCoverage(ctx, h.db, query.ProviderID())
	if err != nil {
		return nil, err
	}
	if cov == nil || !cov.IsAvailable() {
		return result, nil
	}

	rows, err := h.candidates(ctx, query.ProviderID(), now)
	if err != nil {
		return nil, err
	}

	candidates := make([]services.Candidate, 0, len(rows))
	byRequest := make(map[kernel.UUID]openRequestRow, len(rows))
	buyers := make([]kernel.UUID, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, row.candidate)
		byRequest[row.candidate.RequestID] = row
	}

	matched := h.matcher.Match(cov, candidates, now)
	for _, c := range matched {
		buyers = append(buyers, byRequest[c.RequestID].buyerID)
	}

	contacts, err := h.customers.FindCustomers(ctx, buyers)
	if err != nil {
		return nil, err
	}

	for _, c := range matched {
		row := byRequest[c.RequestID]
		contact := contacts[row.buyerID]
		result = append(result, ListOpenRequestsQueryResponse{
			RequestID:     c.RequestID,
			OrderID:       c.OrderID,
			CustomerName:  contact.Name,
			CustomerPhone: contact.Phone,
			Address:       row.address,
			ItemCount:     row.itemCount,
			Total:         row.total,
			Deadline:      c.Deadline,
			CreatedAt:     row.createdAt,
		})
	}

	return result, nil
}

func (h ListOpenRequestsQueryHandler) candidates(
	ctx context.Context,
	providerID kernel.UUID,
	now time.Time,
) ([]openRequestRow, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			r.order_id,
			r.deadline,
			r.created_at,
			o.buyer_id,
			o.total,
			o.address_place,
			o.address_street,
			o.address_district,
			o.address_town,
			(SELECT COALESCE(SUM(i.quantity), 0) FROM order_items i WHERE i.order_id = o.id)
		FROM quote_requests r
		JOIN orders o ON o.id = r.order_id
		WHERE r.status = ?
			AND r.deadline > ?
			AND o.status = ?
			AND NOT EXISTS (
				SELECT 1 FROM quotes q
				WHERE q.request_id = r.id AND q.provider_id = ?
			)
			AND EXISTS (
				SELECT 1 FROM coverage_areas a
				WHERE a.provider_id = ?
					AND a.district = o.address_district
					AND a.town = o.address_town
			)
		ORDER BY r.id
	`,
		quote.RequestOpen.String(), now, order.DeliveryPending.String(),
		providerID.Bytes(), providerID.Bytes(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]openRequestRow, 0)
	for rows.Next() {
		var (
			requestID, orderID, buyerID   uuid.UUID
			deadline, createdAt           time.Time
			total                         string
			place, street, district, town string
			itemCount                     int
		)
		if err = rows.Scan(&requestID, &orderID, &deadline, &createdAt, &buyerID, &total,
			&place, &street, &district, &town, &itemCount); err != nil {
			return nil, err
		}

		row := openRequestRow{itemCount: itemCount, createdAt: createdAt.UTC()}
		if row.candidate.RequestID, err = kernel.UUIDFromGoogle(requestID); err != nil {
			return nil, err
		}
		if row.candidate.OrderID, err = kernel.UUIDFromGoogle(orderID); err != nil {
			return nil, err
		}
		if row.buyerID, err = kernel.UUIDFromGoogle(buyerID); err != nil {
			return nil, err
		}
		if row.total, err = decimal.Parse(total); err != nil {
			return nil, err
		}
		if row.address, err = kernel.NewAddress(place, street, district, town); err != nil {
			return nil, err
		}
		row.candidate.Destination = row.address.Area()
		row.candidate.Deadline = deadline.UTC()
		result = append(result, row)
	}

	return result, rows.Err()
}
