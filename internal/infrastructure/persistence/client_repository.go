package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll searches clients with pagination
func (r *GormClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Client, int64, error) {
	var clientModels []models.ClientModel
	var total int64

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClientModel{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := applyPagination(query, filter, ClientSortFields, "name").Find(&clientModels).Error; err != nil {
		return nil, 0, err
	}

	clients := make([]partner.Client, len(clientModels))
	for i := range clientModels {
		clients[i] = *clientModels[i].ToDomain()
	}
	return clients, total, nil
}

func (r *GormClientRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(trade_name) LIKE ? OR LOWER(code) LIKE ? OR cnpj LIKE ? OR LOWER(city) LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}
	for _, key := range []string{"active", "region_id", "representative_id"} {
		if v, ok := filter.Filters[key]; ok {
			query = query.Where(key+" = ?", v)
		}
	}
	if state, ok := filter.Filters["state"].(string); ok && state != "" {
		query = query.Where("state = ?", strings.ToUpper(state))
	}
	return query
}

// ExistsByCode checks if a client code is already used by another client
func (r *GormClientRepository) ExistsByCode(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, "code", code, excludeID)
}

// ExistsByCNPJ checks if a CNPJ is already used by another client
func (r *GormClientRepository) ExistsByCNPJ(ctx context.Context, cnpj string, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, "cnpj", cnpj, excludeID)
}

func (r *GormClientRepository) exists(ctx context.Context, column, value string, excludeID *uuid.UUID) (bool, error) {
	if value == "" {
		return false, nil
	}
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ClientModel{}).Where(column+" = ?", value)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	return translateError(r.db.WithContext(ctx).Save(models.ClientModelFromDomain(client)).Error)
}

// SaveBatch inserts clients in batches
func (r *GormClientRepository) SaveBatch(ctx context.Context, clients []*partner.Client) error {
	if len(clients) == 0 {
		return nil
	}
	batch := make([]*models.ClientModel, len(clients))
	for i, c := range clients {
		batch[i] = models.ClientModelFromDomain(c)
	}
	return translateError(r.db.WithContext(ctx).CreateInBatches(batch, 200).Error)
}

// Stats counts clients, optionally for a single representative
func (r *GormClientRepository) Stats(ctx context.Context, representativeID *uuid.UUID) (*partner.ClientStats, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Table("clients AS c")
		if representativeID != nil {
			q = q.Where("c.representative_id = ?", *representativeID)
		}
		return q
	}

	var totals struct {
		Total  int64
		Active int64
	}
	if err := scoped().
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN c.active THEN 1 ELSE 0 END), 0) AS active").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var byRegion []partner.RegionCount
	if err := scoped().
		Select("c.region_id AS region_id, COALESCE(r.name, '') AS region_name, COUNT(*) AS count").
		Joins("LEFT JOIN regions AS r ON r.id = c.region_id").
		Group("c.region_id, r.name").
		Order("count DESC").
		Scan(&byRegion).Error; err != nil {
		return nil, err
	}

	return &partner.ClientStats{
		Total:    totals.Total,
		Active:   totals.Active,
		Inactive: totals.Total - totals.Active,
		ByRegion: byRegion,
	}, nil
}

var _ partner.ClientRepository = (*GormClientRepository)(nil)
