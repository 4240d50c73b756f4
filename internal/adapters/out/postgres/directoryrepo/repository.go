package directoryrepo

import (
	"context"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/ports"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"gorm.io/gorm"
)

// GormDirectory implements ports.CustomerDirectory and ports.ProductCatalog over
// the shared customers and products tables.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) FindCustomers(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]ports.Customer, error) {
	result := make(map[kernel.UUID]ports.Customer, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var dtos []CustomerDTO
	if err := d.db.WithContext(ctx).Where("id IN ?", rawIDs(ids)).Find(&dtos).Error; err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		id, err := kernel.UUIDFromGoogle(dto.ID)
		if err != nil {
			return nil, err
		}
		result[id] = ports.Customer{ID: id, Name: dto.Name, Phone: dto.Phone}
	}
	return result, nil
}

func (d *GormDirectory) FindProducts(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]ports.Product, error) {
	result := make(map[kernel.UUID]ports.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var dtos []ProductDTO
	if err := d.db.WithContext(ctx).Where("id IN ?", rawIDs(ids)).Find(&dtos).Error; err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		id, err := kernel.UUIDFromGoogle(dto.ID)
		if err != nil {
			return nil, err
		}
		sellerID, err := kernel.UUIDFromGoogle(dto.SellerID)
		if err != nil {
			return nil, err
		}
		price, err := decimal.Parse(dto.Price)
		if err != nil {
			return nil, err
		}
		result[id] = ports.Product{ID: id, SellerID: sellerID, Name: dto.Name, Price: price}
	}
	return result, nil
}

func rawIDs(ids []kernel.UUID) []uuid.UUID {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}
	return raw
}
