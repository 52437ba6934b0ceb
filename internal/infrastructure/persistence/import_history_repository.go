package persistence

import (
	"context"

	"github.com/filterdesk/backend/internal/domain/bulk"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormImportHistoryRepository implements ImportHistoryRepository using GORM
type GormImportHistoryRepository struct {
	db *gorm.DB
}

// NewGormImportHistoryRepository creates a new GormImportHistoryRepository
func NewGormImportHistoryRepository(db *gorm.DB) *GormImportHistoryRepository {
	return &GormImportHistoryRepository{db: db}
}

// Save creates or updates an import history
func (r *GormImportHistoryRepository) Save(ctx context.Context, history *bulk.ImportHistory) error {
	return r.db.WithContext(ctx).Save(models.ImportHistoryModelFromDomain(history)).Error
}

// FindAll lists import histories, newest first by default
func (r *GormImportHistoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]bulk.ImportHistory, int64, error) {
	var historyModels []models.ImportHistoryModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ImportHistoryModel{})
	for _, key := range []string{"entity_type", "status", "imported_by"} {
		if v, ok := filter.Filters[key]; ok {
			query = query.Where(key+" = ?", v)
		}
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := applyPagination(query, filter, ImportHistorySortFields, "created_at").Find(&historyModels).Error; err != nil {
		return nil, 0, err
	}

	histories := make([]bulk.ImportHistory, len(historyModels))
	for i := range historyModels {
		histories[i] = *historyModels[i].ToDomain()
	}
	return histories, total, nil
}

var _ bulk.ImportHistoryRepository = (*GormImportHistoryRepository)(nil)
