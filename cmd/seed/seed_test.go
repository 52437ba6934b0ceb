package main

import (
	"context"
	"testing"

	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/filterdesk/backend/internal/infrastructure/persistence"
	"github.com/filterdesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSeeder(t *testing.T) (*Seeder, *persistence.GormUserRepository, *persistence.GormDiscountRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	users := persistence.NewGormUserRepository(db)
	discounts := persistence.NewGormDiscountRepository(db)
	return &Seeder{
		users:      users,
		discounts:  discounts,
		commission: decimal.RequireFromString("5.00"),
		logger:     zap.NewNop(),
	}, users, discounts
}

func TestSeeder_Run(t *testing.T) {
	seeder, users, discounts := newSeeder(t)
	ctx := context.Background()
	admin := AdminSeed{Name: "Administrador", Email: "admin@example.com", Password: "Admin12345"}

	require.NoError(t, seeder.Run(ctx, admin))

	user, err := users.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, user.Role)
	assert.True(t, user.Approved)
	assert.True(t, user.VerifyPassword("Admin12345"))

	expected := map[string]string{"1*5": "5.00", "2*5": "9.75", "3*5": "14.26", "4*5": "18.54"}
	for name, pct := range expected {
		d, err := discounts.FindByName(ctx, name)
		require.NoError(t, err, name)
		assert.Equal(t, pct, d.DiscountPercentage.StringFixed(2), name)
		assert.Equal(t, "5.00", d.CommissionPercentage.StringFixed(2), name)
	}

	t.Run("second run keeps existing rows", func(t *testing.T) {
		again := AdminSeed{Name: "Outro", Email: "admin@example.com", Password: "Outra12345"}
		require.NoError(t, seeder.Run(ctx, again))

		user, err := users.FindByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Administrador", user.Name)
		assert.True(t, user.VerifyPassword("Admin12345"))
	})
}

func TestSeeder_InvalidAdmin(t *testing.T) {
	seeder, _, _ := newSeeder(t)

	err := seeder.Run(context.Background(), AdminSeed{Name: "Admin", Email: "admin@example.com", Password: "short"})
	assert.Error(t, err)
}

func TestSeeder_TiersOnly(t *testing.T) {
	seeder, users, _ := newSeeder(t)

	require.NoError(t, seeder.Run(context.Background(), AdminSeed{}))

	count, err := users.CountAdmins(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
