package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/domain/trade"
	"github.com/filterdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// FindByID finds an order by ID with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an order by its number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("number = ?", strings.ToUpper(strings.TrimSpace(number))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists orders without items
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, int64, error) {
	var orderModels []models.OrderModel
	var total int64

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := applyPagination(query, filter, OrderSortFields, "created_at").Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]trade.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, total, nil
}

// FindAllWithItems lists every matching order with items, ignoring pagination
func (r *GormOrderRepository) FindAllWithItems(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	query = applyOrdering(query, filter, OrderSortFields, "created_at")
	if err := query.Preload("Items", preloadItems).Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]trade.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(number) LIKE ? OR LOWER(client_name) LIKE ?", pattern, pattern)
	}
	for _, key := range []string{"status", "client_id", "representative_id"} {
		if v, ok := filter.Filters[key]; ok {
			query = query.Where(key+" = ?", v)
		}
	}
	if from, ok := filter.Filters["from"].(time.Time); ok && !from.IsZero() {
		query = query.Where("created_at >= ?", from)
	}
	if to, ok := filter.Filters["to"].(time.Time); ok && !to.IsZero() {
		query = query.Where("created_at < ?", to)
	}
	return query
}

// FindStaleQuotations lists quotations created before the cutoff, grouped by representative
func (r *GormOrderRepository) FindStaleQuotations(ctx context.Context, before time.Time) ([]trade.Order, error) {
	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", trade.OrderStatusQuotation, before).
		Order("representative_id, created_at").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// Save creates or updates the order and replaces its item set
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(model.Items))
		for i := range model.Items {
			currentItemIDs[i] = model.Items[i].ID
		}

		stale := tx.Where("order_id = ?", model.ID)
		if len(currentItemIDs) > 0 {
			stale = stale.Where("id NOT IN ?", currentItemIDs)
		}
		if err := stale.Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}

		for i := range model.Items {
			model.Items[i].OrderID = model.ID
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translateError(err)
}

// Delete removes an order and its items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.OrderModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// GenerateOrderNumber generates the next order number for the year.
// Format: PED-YYYY-NNNNN (e.g., PED-2026-00001)
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("%s-%04d-", trade.OrderNumberPrefix, year)

	var last models.OrderModel
	err := r.db.WithContext(ctx).
		Select("number").
		Where("number LIKE ?", prefix+"%").
		Order("number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	next := 1
	if err == nil {
		parts := strings.Split(last.Number, "-")
		if len(parts) == 3 {
			var n int
			if _, scanErr := fmt.Sscanf(parts[2], "%d", &n); scanErr == nil {
				next = n + 1
			}
		}
	}

	for i := 0; i < 100; i++ {
		number := trade.FormatOrderNumber(year, next)
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
			Where("number = ?", number).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
		next++
	}
	return "", shared.NewDomainError("ORDER_NUMBER_EXHAUSTED", "Could not allocate a unique order number")
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
