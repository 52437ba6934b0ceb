package partner

import (
	"context"

	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindAll searches clients. Search covers name, trade name, code, CNPJ and city.
	// Filters: active, region_id, representative_id, state.
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, int64, error)

	// ExistsByCode checks if a client code is already used by another client
	ExistsByCode(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error)

	// ExistsByCNPJ checks if a CNPJ is already used by another client
	ExistsByCNPJ(ctx context.Context, cnpj string, excludeID *uuid.UUID) (bool, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error

	// SaveBatch creates clients in one statement batch
	SaveBatch(ctx context.Context, clients []*Client) error

	// Stats counts clients, optionally restricted to one representative
	Stats(ctx context.Context, representativeID *uuid.UUID) (*ClientStats, error)
}

// ClientHistoryRepository defines the interface for the client timeline
type ClientHistoryRepository interface {
	Save(ctx context.Context, entry *ClientHistory) error
	SaveBatch(ctx context.Context, entries []*ClientHistory) error
	// FindByClient lists entries newest first
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]ClientHistory, int64, error)
}

// ClientStats is the client count breakdown shown on the dashboard
type ClientStats struct {
	Total    int64         `json:"total"`
	Active   int64         `json:"active"`
	Inactive int64         `json:"inactive"`
	ByRegion []RegionCount `json:"by_region"`
}

// RegionCount is the number of clients in one region. A nil RegionID counts
// clients without a region.
type RegionCount struct {
	RegionID   *uuid.UUID `json:"region_id"`
	RegionName string     `json:"region_name"`
	Count      int64      `json:"count"`
}
