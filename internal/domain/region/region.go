package region

import (
	"context"
	"strings"

	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Region groups clients and representatives geographically
type Region struct {
	shared.BaseEntity
	Name        string
	Description string
	Active      bool
}

// NewRegion creates an active region
func NewRegion(name, description string) (*Region, error) {
	r := &Region{BaseEntity: shared.NewBaseEntity(), Active: true}
	if err := r.Update(name, description); err != nil {
		return nil, err
	}
	return r, nil
}

// Update changes the region name and description
func (r *Region) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_REGION_NAME", "Region name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_REGION_NAME", "Region name cannot exceed 100 characters")
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	r.Name = name
	r.Description = strings.TrimSpace(description)
	r.Touch()
	return nil
}

// Activate re-enables the region
func (r *Region) Activate() {
	r.Active = true
	r.Touch()
}

// Deactivate hides the region from new assignments
func (r *Region) Deactivate() {
	r.Active = false
	r.Touch()
}

// RegionRepository persists regions
type RegionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Region, error)
	// FindByName matches case-insensitively
	FindByName(ctx context.Context, name string) (*Region, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Region, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, region *Region) error
}
