// Package orderrepo persists Order aggregates: the orders header table and its
// order_items lines.
package orderrepo

import (
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

// OrderDTO is the orders row. Destination columns are indexed together for coverage
// matching; seller identity lives on the items.
type OrderDTO struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	BuyerID         uuid.UUID      `gorm:"type:uuid;not null;index"`
	Address         AddressDTO     `gorm:"embedded;embeddedPrefix:address_"`
	Status          string         `gorm:"type:varchar(32);not null;index"`
	Total           string         `gorm:"type:numeric;not null"`
	AcceptedQuoteID *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedAt       time.Time      `gorm:"not null;autoCreateTime:false"`
	UpdatedAt       time.Time      `gorm:"not null;autoUpdateTime:false"`
	Items           []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type AddressDTO struct {
	Place    string `gorm:"type:varchar(255);not null;default:''"`
	Street   string `gorm:"type:varchar(255);not null"`
	District string `gorm:"type:varchar(128);not null"`
	Town     string `gorm:"type:varchar(128);not null"`
}

// OrderItemDTO is one order_items row, keyed by (order_id, line).
type OrderItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Line      int       `gorm:"primaryKey;autoIncrement:false"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	SellerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity  int       `gorm:"not null"`
	UnitPrice string    `gorm:"type:numeric;not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()

	var acceptedQuoteID *uuid.UUID
	if id := o.AcceptedQuoteID(); id != nil {
		raw := id.Bytes()
		acceptedQuoteID = &raw
	}

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for idx, item := range o.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   orderID,
			Line:      idx + 1,
			ProductID: item.ProductID().Bytes(),
			SellerID:  item.SellerID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().String(),
		})
	}

	addr := o.Address()
	return OrderDTO{
		ID:      orderID,
		BuyerID: o.BuyerID().Bytes(),
		Address: AddressDTO{
			Place:    addr.Place(),
			Street:   addr.Street(),
			District: addr.District(),
			Town:     addr.Town(),
		},
		Status:          o.Status().String(),
		Total:           o.Total().String(),
		AcceptedQuoteID: acceptedQuoteID,
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
		Items:           items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromGoogle(dto.BuyerID)
	if err != nil {
		return nil, err
	}

	var acceptedQuoteID *kernel.UUID
	if dto.AcceptedQuoteID != nil {
		qID, qErr := kernel.UUIDFromGoogle(*dto.AcceptedQuoteID)
		if qErr != nil {
			return nil, qErr
		}
		acceptedQuoteID = &qID
	}

	addr, err := kernel.NewAddress(dto.Address.Place, dto.Address.Street, dto.Address.District, dto.Address.Town)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	total, err := decimal.Parse(dto.Total)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(id, buyerID, items, addr, status, total, acceptedQuoteID, dto.CreatedAt, dto.UpdatedAt)
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	productID, err := kernel.UUIDFromGoogle(dto.ProductID)
	if err != nil {
		return order.Item{}, err
	}
	sellerID, err := kernel.UUIDFromGoogle(dto.SellerID)
	if err != nil {
		return order.Item{}, err
	}
	price, err := decimal.Parse(dto.UnitPrice)
	if err != nil {
		return order.Item{}, err
	}
	return order.NewItem(productID, sellerID, dto.Quantity, price)
}
