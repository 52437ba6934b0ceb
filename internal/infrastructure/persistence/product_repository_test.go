package persistence

import (
	"context"
	"testing"

	"github.com/filterdesk/backend/internal/domain/catalog"
	"github.com/filterdesk/backend/internal/domain/pricing"
	"github.com/filterdesk/backend/internal/domain/region"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, code, name, brand string, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductInfo{
		Code:        code,
		Name:        name,
		Brand:       brand,
		Category:    "Filtro de Óleo",
		Application: "VW Gol 1.0 2010-2016",
		UnitPrice:   decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return p
}

func TestGormProductRepository(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()

	psl := newTestProduct(t, "psl55", "Filtro de Óleo PSL55", "Tecfil", "24.90")
	wo := newTestProduct(t, "WO-120", "Filtro de Óleo WO120", "Wega", "19.50")
	old := newTestProduct(t, "ARL-1", "Filtro de Ar ARL1", "Fram", "31.00")
	require.NoError(t, old.Deactivate())
	require.NoError(t, repo.SaveBatch(ctx, []*catalog.Product{psl, wo, old}))

	t.Run("find by code normalizes case", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "PSL55")
		require.NoError(t, err)
		assert.Equal(t, psl.ID, found.ID)
		assert.True(t, decimal.RequireFromString("24.90").Equal(found.UnitPrice))
	})

	t.Run("find by ids", func(t *testing.T) {
		products, err := repo.FindByIDs(ctx, []uuid.UUID{psl.ID, wo.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, products, 2)

		products, err = repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("search by application", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "gol 1.0"
		_, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("filter by brand and active, sorted by price", func(t *testing.T) {
		filter := shared.DefaultFilter().With("active", true)
		filter.OrderBy = "unit_price"
		filter.OrderDir = "asc"
		products, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, "WO-120", products[0].Code)

		_, total, err = repo.FindAll(ctx, shared.DefaultFilter().With("brand", "tecfil"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("brands lists active products only", func(t *testing.T) {
		brands, err := repo.Brands(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Tecfil", "Wega"}, brands)
	})

	t.Run("duplicate code", func(t *testing.T) {
		dup := newTestProduct(t, "PSL55", "Outro", "X", "1")
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)

		exists, err := repo.ExistsByCode(ctx, "psl55", &psl.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormDiscountRepository(t *testing.T) {
	repo := NewGormDiscountRepository(setupTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"4*5", "2*5"} {
		d, err := pricing.NewDiscount(name, nil, decimal.NewFromInt(5))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, d))
	}

	found, err := repo.FindByName(ctx, "4*5")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("18.54").Equal(found.DiscountPercentage))

	filter := shared.DefaultFilter()
	filter.OrderBy = "discount_percentage"
	filter.OrderDir = "asc"
	discounts, total, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "2*5", discounts[0].Name)

	exists, err := repo.ExistsByName(ctx, "2*5", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormRegionRepository(t *testing.T) {
	repo := NewGormRegionRepository(setupTestDB(t))
	ctx := context.Background()

	sul, err := region.NewRegion("Sul", "PR, SC e RS")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sul))

	found, err := repo.FindByName(ctx, "SUL")
	require.NoError(t, err)
	assert.Equal(t, sul.ID, found.ID)

	exists, err := repo.ExistsByName(ctx, "sul", &sul.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	sul.Deactivate()
	require.NoError(t, repo.Save(ctx, sul))
	_, total, err := repo.FindAll(ctx, shared.DefaultFilter().With("active", true))
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
