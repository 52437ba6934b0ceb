package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/filterdesk/backend/internal/domain/pricing"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// standardTiers are the cascading 5% tiers every installation starts with
var standardTiers = []string{"1*5", "2*5", "3*5", "4*5"}

// AdminSeed describes the first administrator
type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

type seedUserRepo interface {
	FindByEmail(ctx context.Context, email string) (*identity.User, error)
	Create(ctx context.Context, user *identity.User) error
}

type seedDiscountRepo interface {
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, discount *pricing.Discount) error
}

// Seeder creates the admin user and the standard tiers. Running it again
// leaves existing rows untouched.
type Seeder struct {
	users      seedUserRepo
	discounts  seedDiscountRepo
	commission decimal.Decimal
	logger     *zap.Logger
}

// Run seeds the admin (when admin.Email is set) and the discount tiers
func (s *Seeder) Run(ctx context.Context, admin AdminSeed) error {
	if strings.TrimSpace(admin.Email) != "" {
		if err := s.seedAdmin(ctx, admin); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}
	for _, name := range standardTiers {
		if err := s.seedTier(ctx, name); err != nil {
			return fmt.Errorf("seed tier %s: %w", name, err)
		}
	}
	return nil
}

func (s *Seeder) seedAdmin(ctx context.Context, admin AdminSeed) error {
	existing, err := s.users.FindByEmail(ctx, admin.Email)
	if err == nil {
		s.logger.Info("Admin already exists", zap.String("email", existing.Email))
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	user, err := identity.NewUser(admin.Name, admin.Email, admin.Password, identity.RoleAdmin)
	if err != nil {
		return err
	}
	if err := user.Approve(); err != nil {
		return err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Admin created", zap.String("email", user.Email), zap.String("id", user.ID.String()))
	return nil
}

func (s *Seeder) seedTier(ctx context.Context, name string) error {
	exists, err := s.discounts.ExistsByName(ctx, name, nil)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Debug("Discount tier already exists", zap.String("name", name))
		return nil
	}

	discount, err := pricing.NewDiscount(name, nil, s.commission)
	if err != nil {
		return err
	}
	if err := s.discounts.Save(ctx, discount); err != nil {
		return err
	}
	s.logger.Info("Discount tier created",
		zap.String("name", name),
		zap.String("discount_pct", discount.DiscountPercentage.StringFixed(2)),
		zap.String("commission_pct", s.commission.StringFixed(2)),
	)
	return nil
}
