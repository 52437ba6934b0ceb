package bulk

import (
	"fmt"
	"time"

	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ImportEntityType represents the type of entity being imported
type ImportEntityType string

const (
	ImportEntityClients  ImportEntityType = "clients"
	ImportEntityProducts ImportEntityType = "products"
)

// IsValid checks if the entity type is valid
func (e ImportEntityType) IsValid() bool {
	return e == ImportEntityClients || e == ImportEntityProducts
}

// ImportStatus represents the outcome of an import commit
type ImportStatus string

const (
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// ImportHistory records one committed (or failed) import
type ImportHistory struct {
	shared.BaseEntity
	EntityType   ImportEntityType
	FileName     string
	TotalRows    int
	CreatedRows  int
	Status       ImportStatus
	ErrorMessage string
	ImportedBy   uuid.UUID
	CompletedAt  *time.Time
}

// NewImportHistory creates a history record for a commit that is about to run
func NewImportHistory(entityType ImportEntityType, fileName string, totalRows int, importedBy uuid.UUID) (*ImportHistory, error) {
	if !entityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", fmt.Sprintf("Invalid entity type: %s", entityType))
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if totalRows < 0 {
		return nil, shared.NewDomainError("INVALID_TOTAL_ROWS", "Total rows cannot be negative")
	}
	return &ImportHistory{
		BaseEntity: shared.NewBaseEntity(),
		EntityType: entityType,
		FileName:   fileName,
		TotalRows:  totalRows,
		ImportedBy: importedBy,
	}, nil
}

// Complete marks every row as persisted
func (h *ImportHistory) Complete(createdRows int) {
	now := time.Now()
	h.Status = ImportStatusCompleted
	h.CreatedRows = createdRows
	h.CompletedAt = &now
	h.Touch()
}

// Fail records the error that rolled the commit back
func (h *ImportHistory) Fail(message string) {
	now := time.Now()
	h.Status = ImportStatusFailed
	h.CreatedRows = 0
	h.ErrorMessage = message
	h.CompletedAt = &now
	h.Touch()
}
