package models

import (
	"github.com/filterdesk/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// DiscountModel is the persistence model for discount tiers.
type DiscountModel struct {
	BaseModel
	Name                 string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	DiscountPercentage   decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	Active               bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (DiscountModel) TableName() string {
	return "discounts"
}

// ToDomain converts the persistence model to a domain Discount.
func (m *DiscountModel) ToDomain() *pricing.Discount {
	return &pricing.Discount{
		BaseEntity:           m.BaseModel.ToDomain(),
		Name:                 m.Name,
		DiscountPercentage:   m.DiscountPercentage,
		CommissionPercentage: m.CommissionPercentage,
		Active:               m.Active,
	}
}

// DiscountModelFromDomain creates a new persistence model from a domain Discount.
func DiscountModelFromDomain(d *pricing.Discount) *DiscountModel {
	m := &DiscountModel{
		Name:                 d.Name,
		DiscountPercentage:   d.DiscountPercentage,
		CommissionPercentage: d.CommissionPercentage,
		Active:               d.Active,
	}
	m.FromDomainBaseEntity(d.BaseEntity)
	return m
}
