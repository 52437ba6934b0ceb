package catalog

import (
	"strings"

	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductInfo holds the editable fields of a product
type ProductInfo struct {
	Code        string
	Name        string
	Brand       string
	Description string
	Category    string
	Application string
	UnitPrice   decimal.Decimal
	Barcode     string
}

// Product is a catalog item (an air, oil, fuel or cabin filter and the like)
type Product struct {
	shared.BaseEntity
	ProductInfo
	Active bool
}

// NewProduct creates an active product
func NewProduct(info ProductInfo) (*Product, error) {
	p := &Product{BaseEntity: shared.NewBaseEntity(), Active: true}
	if err := p.Update(info); err != nil {
		return nil, err
	}
	return p, nil
}

// Update validates and replaces the product's editable fields
func (p *Product) Update(info ProductInfo) error {
	info.Code = strings.ToUpper(strings.TrimSpace(info.Code))
	info.Name = strings.TrimSpace(info.Name)
	info.Brand = strings.TrimSpace(info.Brand)
	info.Description = strings.TrimSpace(info.Description)
	info.Category = strings.TrimSpace(info.Category)
	info.Application = strings.TrimSpace(info.Application)
	info.Barcode = strings.TrimSpace(info.Barcode)

	if info.Code == "" {
		return shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	if len(info.Code) > 50 {
		return shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot exceed 50 characters")
	}
	if info.Name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(info.Name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	if len(info.Brand) > 100 || len(info.Category) > 100 {
		return shared.NewDomainError("INVALID_PRODUCT", "Brand and category cannot exceed 100 characters")
	}
	if len(info.Barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}
	if info.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	p.ProductInfo = info
	p.Touch()
	return nil
}

// SetPrice changes the list price. Existing order lines keep their snapshot.
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	p.UnitPrice = price
	p.Touch()
	return nil
}

// Activate makes the product available for new order lines
func (p *Product) Activate() error {
	if p.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	p.Active = true
	p.Touch()
	return nil
}

// Deactivate removes the product from order entry
func (p *Product) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "Product is already deactivated")
	}
	p.Active = false
	p.Touch()
	return nil
}
