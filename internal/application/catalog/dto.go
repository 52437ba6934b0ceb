package catalog

import (
	"time"

	"github.com/filterdesk/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInput contains the create and update form of a product
type ProductInput struct {
	Code        string          `json:"code" binding:"required,min=1,max=50"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Brand       string          `json:"brand" binding:"max=100"`
	Description string          `json:"description" binding:"max=2000"`
	Category    string          `json:"category" binding:"max=100"`
	Application string          `json:"application" binding:"max=2000"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Barcode     string          `json:"barcode" binding:"max=50"`
}

func (in ProductInput) toInfo() catalog.ProductInfo {
	return catalog.ProductInfo{
		Code:        in.Code,
		Name:        in.Name,
		Brand:       in.Brand,
		Description: in.Description,
		Category:    in.Category,
		Application: in.Application,
		UnitPrice:   in.UnitPrice,
		Barcode:     in.Barcode,
	}
}

// ProductListFilter contains the query parameters of the product search
type ProductListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Brand    string `form:"brand"`
	Category string `form:"category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product returned by the API
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand,omitempty"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Application string          `json:"application,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Barcode     string          `json:"barcode,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Brand:       p.Brand,
		Description: p.Description,
		Category:    p.Category,
		Application: p.Application,
		UnitPrice:   p.UnitPrice,
		Barcode:     p.Barcode,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
