package pricing

import (
	"context"
	"strings"

	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Discount is a named discount/commission pair applied per order line,
// e.g. "2*5" -> 9.75% discount with 7.00% commission.
type Discount struct {
	shared.BaseEntity
	Name                 string
	DiscountPercentage   decimal.Decimal
	CommissionPercentage decimal.Decimal
	Active               bool
}

// NewDiscount creates an active discount tier. A nil discount percentage is
// derived from the tier name when it follows the "N*P" convention.
func NewDiscount(name string, discountPct *decimal.Decimal, commissionPct decimal.Decimal) (*Discount, error) {
	d := &Discount{
		BaseEntity: shared.NewBaseEntity(),
		Active:     true,
	}
	if err := d.Update(name, discountPct, commissionPct); err != nil {
		return nil, err
	}
	return d, nil
}

// Update replaces the tier definition
func (d *Discount) Update(name string, discountPct *decimal.Decimal, commissionPct decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_DISCOUNT_NAME", "Discount name cannot be empty")
	}
	if len(name) > 50 {
		return shared.NewDomainError("INVALID_DISCOUNT_NAME", "Discount name cannot exceed 50 characters")
	}

	var pct decimal.Decimal
	if discountPct != nil {
		pct = *discountPct
	} else {
		derived, ok := TierPercentage(name)
		if !ok {
			return shared.NewDomainError("DISCOUNT_PERCENTAGE_REQUIRED",
				"Discount percentage is required when the name is not of the form N*P")
		}
		pct = derived
	}

	if !valueobject.ValidPercentage(pct) {
		return shared.NewDomainError("INVALID_DISCOUNT_PERCENTAGE", "Discount percentage must be between 0 and 100")
	}
	if !valueobject.ValidPercentage(commissionPct) {
		return shared.NewDomainError("INVALID_COMMISSION_PERCENTAGE", "Commission percentage must be between 0 and 100")
	}

	d.Name = name
	d.DiscountPercentage = pct
	d.CommissionPercentage = commissionPct
	d.Touch()
	return nil
}

// Activate makes the tier selectable again
func (d *Discount) Activate() {
	d.Active = true
	d.Touch()
}

// Deactivate hides the tier from new order lines. Existing lines keep their
// snapshot of the percentages.
func (d *Discount) Deactivate() {
	d.Active = false
	d.Touch()
}

// DiscountRepository persists discount tiers
type DiscountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Discount, error)
	FindByName(ctx context.Context, name string) (*Discount, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Discount, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, discount *Discount) error
}
