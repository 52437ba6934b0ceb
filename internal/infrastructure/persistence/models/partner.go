package models

import (
	"time"

	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	BaseModel
	Code              *string    `gorm:"type:varchar(50);uniqueIndex"`
	Name              string     `gorm:"type:varchar(200);not null;index"`
	TradeName         string     `gorm:"type:varchar(200)"`
	CNPJ              *string    `gorm:"column:cnpj;type:varchar(20);uniqueIndex"`
	StateRegistration string     `gorm:"type:varchar(30)"`
	Phone             string     `gorm:"type:varchar(50)"`
	Email             string     `gorm:"type:varchar(200)"`
	Address           string     `gorm:"type:varchar(300)"`
	City              string     `gorm:"type:varchar(100);index"`
	State             string     `gorm:"type:char(2)"`
	ZipCode           string     `gorm:"type:varchar(10)"`
	RegionID          *uuid.UUID `gorm:"type:uuid;index"`
	RepresentativeID  *uuid.UUID `gorm:"type:uuid;index"`
	Notes             string     `gorm:"type:text"`
	Active            bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		BaseEntity: m.BaseModel.ToDomain(),
		ClientInfo: partner.ClientInfo{
			Code:              deref(m.Code),
			Name:              m.Name,
			TradeName:         m.TradeName,
			CNPJ:              deref(m.CNPJ),
			StateRegistration: m.StateRegistration,
			Phone:             m.Phone,
			Email:             m.Email,
			Address:           m.Address,
			City:              m.City,
			State:             m.State,
			ZipCode:           m.ZipCode,
			Notes:             m.Notes,
			RegionID:          m.RegionID,
			RepresentativeID:  m.RepresentativeID,
		},
		Active: m.Active,
	}
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{
		Code:              nullable(c.Code),
		Name:              c.Name,
		TradeName:         c.TradeName,
		CNPJ:              nullable(c.CNPJ),
		StateRegistration: c.StateRegistration,
		Phone:             c.Phone,
		Email:             c.Email,
		Address:           c.Address,
		City:              c.City,
		State:             c.State,
		ZipCode:           c.ZipCode,
		RegionID:          c.RegionID,
		RepresentativeID:  c.RepresentativeID,
		Notes:             c.Notes,
		Active:            c.Active,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// ClientHistoryModel is the persistence model for client timeline entries.
type ClientHistoryModel struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ClientID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID           `gorm:"type:uuid;not null"`
	Kind        partner.HistoryKind `gorm:"type:varchar(30);not null"`
	Description string              `gorm:"type:text;not null"`
	OrderID     *uuid.UUID          `gorm:"type:uuid"`
	CreatedAt   time.Time           `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ClientHistoryModel) TableName() string {
	return "client_histories"
}

// ToDomain converts the persistence model to a domain ClientHistory.
func (m *ClientHistoryModel) ToDomain() *partner.ClientHistory {
	return &partner.ClientHistory{
		ID:          m.ID,
		ClientID:    m.ClientID,
		UserID:      m.UserID,
		Kind:        m.Kind,
		Description: m.Description,
		OrderID:     m.OrderID,
		CreatedAt:   m.CreatedAt,
	}
}

// ClientHistoryModelFromDomain creates a new persistence model from a domain ClientHistory.
func ClientHistoryModelFromDomain(h *partner.ClientHistory) *ClientHistoryModel {
	return &ClientHistoryModel{
		ID:          h.ID,
		ClientID:    h.ClientID,
		UserID:      h.UserID,
		Kind:        h.Kind,
		Description: h.Description,
		OrderID:     h.OrderID,
		CreatedAt:   h.CreatedAt,
	}
}
