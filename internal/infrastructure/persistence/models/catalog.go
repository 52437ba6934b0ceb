package models

import (
	"github.com/filterdesk/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Brand       string          `gorm:"type:varchar(100);index"`
	Description string          `gorm:"type:text"`
	Category    string          `gorm:"type:varchar(100);index"`
	Application string          `gorm:"type:text"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Barcode     string          `gorm:"type:varchar(50);index"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductInfo: catalog.ProductInfo{
			Code:        m.Code,
			Name:        m.Name,
			Brand:       m.Brand,
			Description: m.Description,
			Category:    m.Category,
			Application: m.Application,
			UnitPrice:   m.UnitPrice,
			Barcode:     m.Barcode,
		},
		Active: m.Active,
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Code:        p.Code,
		Name:        p.Name,
		Brand:       p.Brand,
		Description: p.Description,
		Category:    p.Category,
		Application: p.Application,
		UnitPrice:   p.UnitPrice,
		Barcode:     p.Barcode,
		Active:      p.Active,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
