package trade

import (
	"context"
	"time"

	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its PED number
	FindByNumber(ctx context.Context, number string) (*Order, error)

	// FindAll lists orders without items. Search covers number and client name.
	// Filters: status, client_id, representative_id, from, to (created_at).
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)

	// FindAllWithItems lists every order matching the filter with items, for exports
	FindAllWithItems(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindStaleQuotations lists quotations created before the cutoff
	FindStaleQuotations(ctx context.Context, before time.Time) ([]Order, error)

	// Save creates or updates an order and replaces its items
	Save(ctx context.Context, order *Order) error

	// Delete removes an order and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// GenerateOrderNumber returns the next PED-YYYY-NNNNN number for the year
	GenerateOrderNumber(ctx context.Context, year int) (string, error)
}
