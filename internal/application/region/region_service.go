package region

import (
	"context"
	"strings"

	"github.com/filterdesk/backend/internal/domain/region"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegionService handles region management
type RegionService struct {
	regionRepo region.RegionRepository
	logger     *zap.Logger
}

// NewRegionService creates a new RegionService
func NewRegionService(regionRepo region.RegionRepository, logger *zap.Logger) *RegionService {
	return &RegionService{regionRepo: regionRepo, logger: logger}
}

// List returns a page of regions, alphabetical by default
func (s *RegionService) List(ctx context.Context, input RegionListFilter) (*shared.Paginated[RegionResponse], error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.Search = strings.TrimSpace(input.Search)
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.OrderBy != "" {
		filter.OrderBy = input.OrderBy
	}
	if input.OrderDir != "" {
		filter.OrderDir = input.OrderDir
	}
	if input.Active != nil {
		filter = filter.With("active", *input.Active)
	}

	regions, total, err := s.regionRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]RegionResponse, len(regions))
	for i := range regions {
		items[i] = ToRegionResponse(&regions[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetByID returns one region
func (s *RegionService) GetByID(ctx context.Context, id uuid.UUID) (*RegionResponse, error) {
	r, err := s.regionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToRegionResponse(r)
	return &resp, nil
}

// Create creates a region with a unique name
func (s *RegionService) Create(ctx context.Context, input RegionInput) (*RegionResponse, error) {
	if err := s.ensureNameFree(ctx, input.Name, nil); err != nil {
		return nil, err
	}

	r, err := region.NewRegion(input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	if err := s.regionRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("Region created", zap.String("region_id", r.ID.String()), zap.String("name", r.Name))

	resp := ToRegionResponse(r)
	return &resp, nil
}

// Update renames or describes a region
func (s *RegionService) Update(ctx context.Context, id uuid.UUID, input RegionInput) (*RegionResponse, error) {
	r, err := s.regionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, input.Name, &id); err != nil {
		return nil, err
	}
	if err := r.Update(input.Name, input.Description); err != nil {
		return nil, err
	}
	if err := s.regionRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	resp := ToRegionResponse(r)
	return &resp, nil
}

// Activate re-enables a region
func (s *RegionService) Activate(ctx context.Context, id uuid.UUID) (*RegionResponse, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate hides a region from new assignments. Clients and users keep it.
func (s *RegionService) Deactivate(ctx context.Context, id uuid.UUID) (*RegionResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *RegionService) setActive(ctx context.Context, id uuid.UUID, active bool) (*RegionResponse, error) {
	r, err := s.regionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		r.Activate()
	} else {
		r.Deactivate()
	}
	if err := s.regionRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	resp := ToRegionResponse(r)
	return &resp, nil
}

func (s *RegionService) ensureNameFree(ctx context.Context, name string, excludeID *uuid.UUID) error {
	exists, err := s.regionRepo.ExistsByName(ctx, strings.TrimSpace(name), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A region with this name already exists")
	}
	return nil
}
