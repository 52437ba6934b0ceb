package pricing

import (
	"context"
	"strings"

	"github.com/filterdesk/backend/internal/domain/pricing"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DiscountService manages the discount/commission tiers
type DiscountService struct {
	discountRepo pricing.DiscountRepository
	logger       *zap.Logger
}

// NewDiscountService creates a new DiscountService
func NewDiscountService(discountRepo pricing.DiscountRepository, logger *zap.Logger) *DiscountService {
	return &DiscountService{discountRepo: discountRepo, logger: logger}
}

// List returns the tiers ordered by name
func (s *DiscountService) List(ctx context.Context, input DiscountListFilter) (*shared.Paginated[DiscountResponse], error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.PageSize = 100
	filter.Search = strings.TrimSpace(input.Search)
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.Active != nil {
		filter = filter.With("active", *input.Active)
	}

	discounts, total, err := s.discountRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]DiscountResponse, len(discounts))
	for i := range discounts {
		items[i] = ToDiscountResponse(&discounts[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetByID returns one tier
func (s *DiscountService) GetByID(ctx context.Context, id uuid.UUID) (*DiscountResponse, error) {
	d, err := s.discountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDiscountResponse(d)
	return &resp, nil
}

// Create adds a tier
func (s *DiscountService) Create(ctx context.Context, input DiscountInput) (*DiscountResponse, error) {
	if err := s.ensureNameFree(ctx, input.Name, nil); err != nil {
		return nil, err
	}
	d, err := pricing.NewDiscount(input.Name, input.DiscountPercentage, input.CommissionPercentage)
	if err != nil {
		return nil, err
	}
	if err := s.discountRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("Discount tier created",
		zap.String("name", d.Name),
		zap.String("discount_percentage", d.DiscountPercentage.String()),
		zap.String("commission_percentage", d.CommissionPercentage.String()))

	resp := ToDiscountResponse(d)
	return &resp, nil
}

// Update redefines a tier. Order lines keep the percentages they were written with.
func (s *DiscountService) Update(ctx context.Context, id uuid.UUID, input DiscountInput) (*DiscountResponse, error) {
	d, err := s.discountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, input.Name, &id); err != nil {
		return nil, err
	}
	if err := d.Update(input.Name, input.DiscountPercentage, input.CommissionPercentage); err != nil {
		return nil, err
	}
	if err := s.discountRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDiscountResponse(d)
	return &resp, nil
}

// Activate makes a tier selectable again
func (s *DiscountService) Activate(ctx context.Context, id uuid.UUID) (*DiscountResponse, error) {
	d, err := s.discountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Activate()
	if err := s.discountRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDiscountResponse(d)
	return &resp, nil
}

// Deactivate hides a tier from new order lines
func (s *DiscountService) Deactivate(ctx context.Context, id uuid.UUID) (*DiscountResponse, error) {
	d, err := s.discountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Deactivate()
	if err := s.discountRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDiscountResponse(d)
	return &resp, nil
}

func (s *DiscountService) ensureNameFree(ctx context.Context, name string, excludeID *uuid.UUID) error {
	exists, err := s.discountRepo.ExistsByName(ctx, strings.TrimSpace(name), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A discount named "+strings.TrimSpace(name)+" already exists")
	}
	return nil
}
