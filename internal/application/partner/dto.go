package partner

import (
	"time"

	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// ClientInput contains the create and update form of a client
type ClientInput struct {
	Code              string     `json:"code" binding:"max=50"`
	Name              string     `json:"name" binding:"required,min=1,max=200"`
	TradeName         string     `json:"trade_name" binding:"max=200"`
	CNPJ              string     `json:"cnpj" binding:"omitempty,cnpj"`
	StateRegistration string     `json:"state_registration" binding:"max=50"`
	Phone             string     `json:"phone" binding:"max=50"`
	Email             string     `json:"email" binding:"omitempty,email"`
	Address           string     `json:"address" binding:"max=300"`
	City              string     `json:"city" binding:"max=100"`
	State             string     `json:"state" binding:"omitempty,uf"`
	ZipCode           string     `json:"zip_code" binding:"max=10"`
	Notes             string     `json:"notes" binding:"max=2000"`
	RegionID          *uuid.UUID `json:"region_id"`
	RepresentativeID  *uuid.UUID `json:"representative_id"`
}

func (in ClientInput) toInfo() partner.ClientInfo {
	return partner.ClientInfo{
		Code:              in.Code,
		Name:              in.Name,
		TradeName:         in.TradeName,
		CNPJ:              in.CNPJ,
		StateRegistration: in.StateRegistration,
		Phone:             in.Phone,
		Email:             in.Email,
		Address:           in.Address,
		City:              in.City,
		State:             in.State,
		ZipCode:           in.ZipCode,
		Notes:             in.Notes,
		RegionID:          in.RegionID,
		RepresentativeID:  in.RepresentativeID,
	}
}

// ClientListFilter contains the query parameters of the client search
type ClientListFilter struct {
	Search           string `form:"search"`
	Active           *bool  `form:"active"`
	RegionID         string `form:"region_id" binding:"omitempty,uuid"`
	RepresentativeID string `form:"representative_id" binding:"omitempty,uuid"`
	State            string `form:"state" binding:"omitempty,uf"`
	Page             int    `form:"page" binding:"omitempty,min=1"`
	PageSize         int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy          string `form:"order_by"`
	OrderDir         string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// NoteInput contains a free-text note added to a client's history
type NoteInput struct {
	Description string `json:"description" binding:"required,min=1,max=2000"`
}

// HistoryListFilter contains the query parameters of a client's timeline
type HistoryListFilter struct {
	Kind     string `form:"kind" binding:"omitempty,oneof=note order_created order_confirmed status_change import"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ClientResponse represents a client returned by the API
type ClientResponse struct {
	ID                uuid.UUID  `json:"id"`
	Code              string     `json:"code,omitempty"`
	Name              string     `json:"name"`
	TradeName         string     `json:"trade_name,omitempty"`
	CNPJ              string     `json:"cnpj,omitempty"`
	CNPJVerified      bool       `json:"cnpj_verified"`
	StateRegistration string     `json:"state_registration,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	Email             string     `json:"email,omitempty"`
	Address           string     `json:"address,omitempty"`
	City              string     `json:"city,omitempty"`
	State             string     `json:"state,omitempty"`
	ZipCode           string     `json:"zip_code,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	RegionID          *uuid.UUID `json:"region_id,omitempty"`
	RepresentativeID  *uuid.UUID `json:"representative_id,omitempty"`
	Active            bool       `json:"active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ToClientResponse converts a domain client
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:                c.ID,
		Code:              c.Code,
		Name:              c.Name,
		TradeName:         c.TradeName,
		CNPJ:              c.CNPJ,
		CNPJVerified:      c.CNPJVerified(),
		StateRegistration: c.StateRegistration,
		Phone:             c.Phone,
		Email:             c.Email,
		Address:           c.Address,
		City:              c.City,
		State:             c.State,
		ZipCode:           c.ZipCode,
		Notes:             c.Notes,
		RegionID:          c.RegionID,
		RepresentativeID:  c.RepresentativeID,
		Active:            c.Active,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// HistoryResponse represents one client timeline entry
type HistoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	ClientID    uuid.UUID  `json:"client_id"`
	UserID      uuid.UUID  `json:"user_id"`
	Kind        string     `json:"kind"`
	Description string     `json:"description"`
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToHistoryResponse converts a domain history entry
func ToHistoryResponse(h *partner.ClientHistory) HistoryResponse {
	return HistoryResponse{
		ID:          h.ID,
		ClientID:    h.ClientID,
		UserID:      h.UserID,
		Kind:        string(h.Kind),
		Description: h.Description,
		OrderID:     h.OrderID,
		CreatedAt:   h.CreatedAt,
	}
}
