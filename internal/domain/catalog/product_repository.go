package catalog

import (
	"context"

	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll searches products. Search covers code, name, brand, application and barcode.
	// Filters: active, brand, category.
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)

	// ExistsByCode checks if a code is already used by another product
	ExistsByCode(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveBatch creates products in one statement batch
	SaveBatch(ctx context.Context, products []*Product) error

	// Brands lists distinct brands of active products, sorted
	Brands(ctx context.Context) ([]string, error)
}
