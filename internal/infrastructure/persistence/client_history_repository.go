package persistence

import (
	"context"

	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientHistoryRepository implements ClientHistoryRepository using GORM
type GormClientHistoryRepository struct {
	db *gorm.DB
}

// NewGormClientHistoryRepository creates a new GormClientHistoryRepository
func NewGormClientHistoryRepository(db *gorm.DB) *GormClientHistoryRepository {
	return &GormClientHistoryRepository{db: db}
}

// Save appends a timeline entry
func (r *GormClientHistoryRepository) Save(ctx context.Context, entry *partner.ClientHistory) error {
	return r.db.WithContext(ctx).Create(models.ClientHistoryModelFromDomain(entry)).Error
}

// SaveBatch appends several entries
func (r *GormClientHistoryRepository) SaveBatch(ctx context.Context, entries []*partner.ClientHistory) error {
	if len(entries) == 0 {
		return nil
	}
	batch := make([]*models.ClientHistoryModel, len(entries))
	for i, e := range entries {
		batch[i] = models.ClientHistoryModelFromDomain(e)
	}
	return r.db.WithContext(ctx).CreateInBatches(batch, 200).Error
}

// FindByClient lists a client's timeline, newest first
func (r *GormClientHistoryRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]partner.ClientHistory, int64, error) {
	var historyModels []models.ClientHistoryModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ClientHistoryModel{}).Where("client_id = ?", clientID)
	if kind, ok := filter.Filters["kind"]; ok {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Find(&historyModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]partner.ClientHistory, len(historyModels))
	for i := range historyModels {
		entries[i] = *historyModels[i].ToDomain()
	}
	return entries, total, nil
}

var _ partner.ClientHistoryRepository = (*GormClientHistoryRepository)(nil)
