package trade

import (
	"time"

	"github.com/filterdesk/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemInput contains one line of an order. A discount_id snapshots the
// tier percentages; explicit percentages are only honored for administrators.
type OrderItemInput struct {
	ProductID            uuid.UUID        `json:"product_id" binding:"required"`
	Quantity             int64            `json:"quantity" binding:"required,min=1"`
	DiscountID           *uuid.UUID       `json:"discount_id"`
	DiscountPercentage   *decimal.Decimal `json:"discount_percentage"`
	CommissionPercentage *decimal.Decimal `json:"commission_percentage"`
}

// UpdateItemInput changes the quantity and discount of a line
type UpdateItemInput struct {
	Quantity             int64            `json:"quantity" binding:"required,min=1"`
	DiscountID           *uuid.UUID       `json:"discount_id"`
	DiscountPercentage   *decimal.Decimal `json:"discount_percentage"`
	CommissionPercentage *decimal.Decimal `json:"commission_percentage"`
}

// CreateOrderInput contains the form of a new quotation
type CreateOrderInput struct {
	ClientID         uuid.UUID        `json:"client_id" binding:"required"`
	RepresentativeID *uuid.UUID       `json:"representative_id"`
	Notes            string           `json:"notes" binding:"max=2000"`
	PaymentTerms     string           `json:"payment_terms" binding:"max=200"`
	Taxes            *decimal.Decimal `json:"taxes"`
	Items            []OrderItemInput `json:"items" binding:"max=500,dive"`
}

// UpdateOrderInput contains the editable header fields of a quotation. Nil
// fields are left unchanged.
type UpdateOrderInput struct {
	Notes        *string          `json:"notes" binding:"omitempty,max=2000"`
	PaymentTerms *string          `json:"payment_terms" binding:"omitempty,max=200"`
	Taxes        *decimal.Decimal `json:"taxes"`
}

// OrderListFilter contains the query parameters of the order list. Dates are
// YYYY-MM-DD; to is inclusive.
type OrderListFilter struct {
	Search           string `form:"search"`
	Status           string `form:"status" binding:"omitempty,oneof=quotation confirmed"`
	ClientID         string `form:"client_id" binding:"omitempty,uuid"`
	RepresentativeID string `form:"representative_id" binding:"omitempty,uuid"`
	From             string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To               string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page             int    `form:"page" binding:"omitempty,min=1"`
	PageSize         int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy          string `form:"order_by"`
	OrderDir         string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents one order line
type OrderItemResponse struct {
	ID                   uuid.UUID       `json:"id"`
	ProductID            uuid.UUID       `json:"product_id"`
	ProductCode          string          `json:"product_code"`
	ProductName          string          `json:"product_name"`
	ProductBrand         string          `json:"product_brand,omitempty"`
	Quantity             int64           `json:"quantity"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	DiscountID           *uuid.UUID      `json:"discount_id,omitempty"`
	DiscountPercentage   decimal.Decimal `json:"discount_percentage"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	Subtotal             decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order returned by the API
type OrderResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Number             string              `json:"number"`
	ClientID           uuid.UUID           `json:"client_id"`
	ClientName         string              `json:"client_name"`
	ClientCNPJ         string              `json:"client_cnpj,omitempty"`
	RepresentativeID   uuid.UUID           `json:"representative_id"`
	RepresentativeName string              `json:"representative_name"`
	Status             string              `json:"status"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	Discount           decimal.Decimal     `json:"discount"`
	Taxes              decimal.Decimal     `json:"taxes"`
	Total              decimal.Decimal     `json:"total"`
	Commission         decimal.Decimal     `json:"commission"`
	Notes              string              `json:"notes,omitempty"`
	PaymentTerms       string              `json:"payment_terms,omitempty"`
	ConfirmedAt        *time.Time          `json:"confirmed_at,omitempty"`
	ItemCount          int64               `json:"item_count"`
	Items              []OrderItemResponse `json:"items,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain order. Stored amounts are rounded for display.
func ToOrderResponse(o *trade.Order) OrderResponse {
	resp := OrderResponse{
		ID:                 o.ID,
		Number:             o.Number,
		ClientID:           o.ClientID,
		ClientName:         o.ClientName,
		ClientCNPJ:         o.ClientCNPJ,
		RepresentativeID:   o.RepresentativeID,
		RepresentativeName: o.RepresentativeName,
		Status:             string(o.Status),
		Subtotal:           o.Subtotal.Round(2),
		Discount:           o.Discount.Round(2),
		Taxes:              o.Taxes.Round(2),
		Total:              o.Total.Round(2),
		Commission:         o.Commission.Round(2),
		Notes:              o.Notes,
		PaymentTerms:       o.PaymentTerms,
		ConfirmedAt:        o.ConfirmedAt,
		ItemCount:          o.TotalQuantity(),
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if len(o.Items) > 0 {
		resp.Items = make([]OrderItemResponse, len(o.Items))
		for i, item := range o.Items {
			resp.Items[i] = OrderItemResponse{
				ID:                   item.ID,
				ProductID:            item.ProductID,
				ProductCode:          item.ProductCode,
				ProductName:          item.ProductName,
				ProductBrand:         item.ProductBrand,
				Quantity:             item.Quantity,
				UnitPrice:            item.UnitPrice,
				DiscountID:           item.DiscountID,
				DiscountPercentage:   item.DiscountPercentage,
				CommissionPercentage: item.CommissionPercentage,
				Subtotal:             item.Subtotal.Round(2),
			}
		}
	}
	return resp
}
