package bulk

import (
	"context"

	"github.com/filterdesk/backend/internal/domain/shared"
)

// ImportHistoryRepository defines the interface for import history persistence
type ImportHistoryRepository interface {
	// Save saves an import history (create or update)
	Save(ctx context.Context, history *ImportHistory) error

	// FindAll returns histories, newest first. Filters: entity_type, status.
	FindAll(ctx context.Context, filter shared.Filter) ([]ImportHistory, int64, error)
}
