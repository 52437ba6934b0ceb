package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/filterdesk/backend/internal/domain/pricing"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDiscountRepository implements DiscountRepository using GORM
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewGormDiscountRepository creates a new GormDiscountRepository
func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

// FindByID finds a discount tier by ID
func (r *GormDiscountRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.Discount, error) {
	var model models.DiscountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a discount tier by its name ("4*5")
func (r *GormDiscountRepository) FindByName(ctx context.Context, name string) (*pricing.Discount, error) {
	var model models.DiscountModel
	if err := r.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists discount tiers. Filters: active.
func (r *GormDiscountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pricing.Discount, int64, error) {
	var discountModels []models.DiscountModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.DiscountModel{})
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := applyPagination(query, filter, DiscountSortFields, "discount_percentage").Find(&discountModels).Error; err != nil {
		return nil, 0, err
	}

	discounts := make([]pricing.Discount, len(discountModels))
	for i := range discountModels {
		discounts[i] = *discountModels[i].ToDomain()
	}
	return discounts, total, nil
}

// ExistsByName checks whether another tier already uses the name
func (r *GormDiscountRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DiscountModel{}).Where("name = ?", strings.TrimSpace(name))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a discount tier
func (r *GormDiscountRepository) Save(ctx context.Context, discount *pricing.Discount) error {
	return translateError(r.db.WithContext(ctx).Save(models.DiscountModelFromDomain(discount)).Error)
}

var _ pricing.DiscountRepository = (*GormDiscountRepository)(nil)
