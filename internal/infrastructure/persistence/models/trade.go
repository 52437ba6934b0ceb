package models

import (
	"time"

	"github.com/filterdesk/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	BaseModel
	Number             string            `gorm:"type:varchar(20);not null;uniqueIndex"`
	ClientID           uuid.UUID         `gorm:"type:uuid;not null;index"`
	ClientName         string            `gorm:"type:varchar(200);not null"`
	ClientCNPJ         string            `gorm:"column:client_cnpj;type:varchar(20)"`
	RepresentativeID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	RepresentativeName string            `gorm:"type:varchar(200);not null"`
	Status             trade.OrderStatus `gorm:"type:varchar(20);not null;default:'quotation';index"`
	Subtotal           decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Discount           decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Taxes              decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Total              decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Commission         decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Notes              string            `gorm:"type:text"`
	PaymentTerms       string            `gorm:"type:varchar(200)"`
	ConfirmedAt        *time.Time        `gorm:"index"`
	Items              []OrderItemModel  `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseEntity:         m.BaseModel.ToDomain(),
		Number:             m.Number,
		ClientID:           m.ClientID,
		ClientName:         m.ClientName,
		ClientCNPJ:         m.ClientCNPJ,
		RepresentativeID:   m.RepresentativeID,
		RepresentativeName: m.RepresentativeName,
		Status:             m.Status,
		Subtotal:           m.Subtotal,
		Discount:           m.Discount,
		Taxes:              m.Taxes,
		Total:              m.Total,
		Commission:         m.Commission,
		Notes:              m.Notes,
		PaymentTerms:       m.PaymentTerms,
		ConfirmedAt:        m.ConfirmedAt,
		Items:              make([]trade.OrderItem, len(m.Items)),
	}
	for i := range m.Items {
		order.Items[i] = *m.Items[i].ToDomain()
	}
	return order
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{
		Number:             o.Number,
		ClientID:           o.ClientID,
		ClientName:         o.ClientName,
		ClientCNPJ:         o.ClientCNPJ,
		RepresentativeID:   o.RepresentativeID,
		RepresentativeName: o.RepresentativeName,
		Status:             o.Status,
		Subtotal:           o.Subtotal,
		Discount:           o.Discount,
		Taxes:              o.Taxes,
		Total:              o.Total,
		Commission:         o.Commission,
		Notes:              o.Notes,
		PaymentTerms:       o.PaymentTerms,
		ConfirmedAt:        o.ConfirmedAt,
		Items:              make([]OrderItemModel, len(o.Items)),
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	for i := range o.Items {
		m.Items[i] = *OrderItemModelFromDomain(&o.Items[i])
	}
	return m
}

// OrderItemModel is the persistence model for order lines.
type OrderItemModel struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode          string          `gorm:"type:varchar(50);not null"`
	ProductName          string          `gorm:"type:varchar(200);not null"`
	ProductBrand         string          `gorm:"type:varchar(100)"`
	Quantity             int64           `gorm:"not null"`
	UnitPrice            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountID           *uuid.UUID      `gorm:"type:uuid"`
	DiscountPercentage   decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	Subtotal             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt            time.Time       `gorm:"not null"`
	UpdatedAt            time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() *trade.OrderItem {
	return &trade.OrderItem{
		ID:                   m.ID,
		OrderID:              m.OrderID,
		ProductID:            m.ProductID,
		ProductCode:          m.ProductCode,
		ProductName:          m.ProductName,
		ProductBrand:         m.ProductBrand,
		Quantity:             m.Quantity,
		UnitPrice:            m.UnitPrice,
		DiscountID:           m.DiscountID,
		DiscountPercentage:   m.DiscountPercentage,
		CommissionPercentage: m.CommissionPercentage,
		Subtotal:             m.Subtotal,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// OrderItemModelFromDomain creates a new persistence model from a domain OrderItem.
func OrderItemModelFromDomain(i *trade.OrderItem) *OrderItemModel {
	return &OrderItemModel{
		ID:                   i.ID,
		OrderID:              i.OrderID,
		ProductID:            i.ProductID,
		ProductCode:          i.ProductCode,
		ProductName:          i.ProductName,
		ProductBrand:         i.ProductBrand,
		Quantity:             i.Quantity,
		UnitPrice:            i.UnitPrice,
		DiscountID:           i.DiscountID,
		DiscountPercentage:   i.DiscountPercentage,
		CommissionPercentage: i.CommissionPercentage,
		Subtotal:             i.Subtotal,
		CreatedAt:            i.CreatedAt,
		UpdatedAt:            i.UpdatedAt,
	}
}
