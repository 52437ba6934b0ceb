package importapp

import (
	"time"

	"github.com/filterdesk/backend/internal/domain/bulk"
	"github.com/google/uuid"
)

// Session is an uploaded file waiting to be committed
type Session struct {
	ID        uuid.UUID             `json:"id"`
	Entity    bulk.ImportEntityType `json:"entity"`
	FileName  string                `json:"file_name"`
	UserID    uuid.UUID             `json:"user_id"`
	Headers   []bulk.HeaderMapping  `json:"headers"`
	Rows      []bulk.Row            `json:"rows"`
	CreatedAt time.Time             `json:"created_at"`
}

// PreviewResponse is returned after an upload
type PreviewResponse struct {
	SessionID uuid.UUID            `json:"session_id"`
	Entity    string               `json:"entity"`
	FileName  string               `json:"file_name"`
	Headers   []bulk.HeaderMapping `json:"headers"`
	TotalRows int                  `json:"total_rows"`
	Preview   []bulk.Row           `json:"preview"`
	ExpiresAt time.Time            `json:"expires_at"`
}

// CommitResponse is returned after every row was persisted
type CommitResponse struct {
	HistoryID   uuid.UUID `json:"history_id"`
	Entity      string    `json:"entity"`
	FileName    string    `json:"file_name"`
	TotalRows   int       `json:"total_rows"`
	CreatedRows int       `json:"created_rows"`
}

// HistoryListFilter contains the query parameters of the import history
type HistoryListFilter struct {
	EntityType string `form:"entity_type" binding:"omitempty,oneof=clients products"`
	Status     string `form:"status" binding:"omitempty,oneof=completed failed"`
	ImportedBy string `form:"imported_by" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// HistoryResponse represents one import history entry
type HistoryResponse struct {
	ID           uuid.UUID  `json:"id"`
	EntityType   string     `json:"entity_type"`
	FileName     string     `json:"file_name"`
	TotalRows    int        `json:"total_rows"`
	CreatedRows  int        `json:"created_rows"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ImportedBy   uuid.UUID  `json:"imported_by"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToHistoryResponse converts a domain import history
func ToHistoryResponse(h *bulk.ImportHistory) HistoryResponse {
	return HistoryResponse{
		ID:           h.ID,
		EntityType:   string(h.EntityType),
		FileName:     h.FileName,
		TotalRows:    h.TotalRows,
		CreatedRows:  h.CreatedRows,
		Status:       string(h.Status),
		ErrorMessage: h.ErrorMessage,
		ImportedBy:   h.ImportedBy,
		CompletedAt:  h.CompletedAt,
		CreatedAt:    h.CreatedAt,
	}
}
