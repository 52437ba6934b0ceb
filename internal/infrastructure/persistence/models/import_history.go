package models

import (
	"time"

	"github.com/filterdesk/backend/internal/domain/bulk"
	"github.com/google/uuid"
)

// ImportHistoryModel is the persistence model for the ImportHistory domain entity.
type ImportHistoryModel struct {
	BaseModel
	EntityType   bulk.ImportEntityType `gorm:"type:varchar(20);not null;index"`
	FileName     string                `gorm:"type:varchar(255);not null"`
	TotalRows    int                   `gorm:"not null;default:0"`
	CreatedRows  int                   `gorm:"not null;default:0"`
	Status       bulk.ImportStatus     `gorm:"type:varchar(20);not null"`
	ErrorMessage string                `gorm:"type:text"`
	ImportedBy   uuid.UUID             `gorm:"type:uuid;not null;index"`
	CompletedAt  *time.Time
}

// TableName returns the table name for GORM
func (ImportHistoryModel) TableName() string {
	return "import_histories"
}

// ToDomain converts the persistence model to a domain ImportHistory entity.
func (m *ImportHistoryModel) ToDomain() *bulk.ImportHistory {
	return &bulk.ImportHistory{
		BaseEntity:   m.BaseModel.ToDomain(),
		EntityType:   m.EntityType,
		FileName:     m.FileName,
		TotalRows:    m.TotalRows,
		CreatedRows:  m.CreatedRows,
		Status:       m.Status,
		ErrorMessage: m.ErrorMessage,
		ImportedBy:   m.ImportedBy,
		CompletedAt:  m.CompletedAt,
	}
}

// ImportHistoryModelFromDomain creates a new persistence model from a domain ImportHistory entity.
func ImportHistoryModelFromDomain(h *bulk.ImportHistory) *ImportHistoryModel {
	m := &ImportHistoryModel{
		EntityType:   h.EntityType,
		FileName:     h.FileName,
		TotalRows:    h.TotalRows,
		CreatedRows:  h.CreatedRows,
		Status:       h.Status,
		ErrorMessage: h.ErrorMessage,
		ImportedBy:   h.ImportedBy,
		CompletedAt:  h.CompletedAt,
	}
	m.FromDomainBaseEntity(h.BaseEntity)
	return m
}
