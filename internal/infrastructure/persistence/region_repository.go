package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/filterdesk/backend/internal/domain/region"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRegionRepository implements RegionRepository using GORM
type GormRegionRepository struct {
	db *gorm.DB
}

// NewGormRegionRepository creates a new GormRegionRepository
func NewGormRegionRepository(db *gorm.DB) *GormRegionRepository {
	return &GormRegionRepository{db: db}
}

// FindByID finds a region by ID
func (r *GormRegionRepository) FindByID(ctx context.Context, id uuid.UUID) (*region.Region, error) {
	var model models.RegionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a region by name, ignoring case
func (r *GormRegionRepository) FindByName(ctx context.Context, name string) (*region.Region, error) {
	var model models.RegionModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists regions. Filters: active.
func (r *GormRegionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]region.Region, int64, error) {
	var regionModels []models.RegionModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.RegionModel{})
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := applyPagination(query, filter, RegionSortFields, "name").Find(&regionModels).Error; err != nil {
		return nil, 0, err
	}

	regions := make([]region.Region, len(regionModels))
	for i := range regionModels {
		regions[i] = *regionModels[i].ToDomain()
	}
	return regions, total, nil
}

// ExistsByName checks whether another region already uses the name
func (r *GormRegionRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.RegionModel{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a region
func (r *GormRegionRepository) Save(ctx context.Context, reg *region.Region) error {
	return translateError(r.db.WithContext(ctx).Save(models.RegionModelFromDomain(reg)).Error)
}

var _ region.RegionRepository = (*GormRegionRepository)(nil)
