// Package directoryrepo reads the customer and product records owned by the user
// and catalog services. This service never writes them outside of tests and seeds.
package directoryrepo

import (
	"github.com/google/uuid"
)

type CustomerDTO struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"type:varchar(255);not null"`
	Phone string    `gorm:"type:varchar(32);not null;default:''"`
}

func (CustomerDTO) TableName() string {
	return "customers"
}

type ProductDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	SellerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(255);not null"`
	Price    string    `gorm:"type:numeric;not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}
