package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/filterdesk/backend/internal/domain/region"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestClient(t *testing.T, info partner.ClientInfo) *partner.Client {
	t.Helper()
	c, err := partner.NewClient(info)
	require.NoError(t, err)
	return c
}

// newMockClientRepository creates a GormClientRepository with a mocked SQL connection
func newMockClientRepository(t *testing.T) (*GormClientRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewGormClientRepository(gormDB), mock, mockDB
}

func TestGormClientRepository_FindByID_Mock(t *testing.T) {
	t.Run("maps row to domain", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "code", "name", "cnpj", "state", "active"}).
			AddRow(id, now, now, "C-001", "Auto Peças Silva", "12.345.678/0001-90", "SP", true)
		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(rows)

		client, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "C-001", client.Code)
		assert.Equal(t, "12.345.678/0001-90", client.CNPJ)
		assert.True(t, client.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unique violation keeps backend message", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		client := newTestClient(t, partner.ClientInfo{Name: "Dup", CNPJ: "12.345.678/0001-90"})
		mock.ExpectExec(`UPDATE "clients"`).
			WillReturnError(&pgLikeError{msg: `ERROR: duplicate key value violates unique constraint "idx_clients_cnpj" (SQLSTATE 23505)`})

		err := repo.Save(context.Background(), client)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.Contains(t, err.Error(), "idx_clients_cnpj")
	})
}

type pgLikeError struct{ msg string }

func (e *pgLikeError) Error() string { return e.msg }

func TestGormClientRepository_SearchAndFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)
	ctx := context.Background()

	repID := uuid.New()
	silva := newTestClient(t, partner.ClientInfo{Code: "C-001", Name: "Auto Peças Silva", City: "Campinas", State: "SP", CNPJ: "12.345.678/0001-90", RepresentativeID: &repID})
	costa := newTestClient(t, partner.ClientInfo{Code: "C-002", Name: "Costa Filtros", TradeName: "Filtrão", City: "Curitiba", State: "PR"})
	inativo := newTestClient(t, partner.ClientInfo{Name: "Mecânica Antiga", City: "Campinas", State: "SP", RepresentativeID: &repID})
	require.NoError(t, inativo.Deactivate())
	for _, c := range []*partner.Client{silva, costa, inativo} {
		require.NoError(t, repo.Save(ctx, c))
	}

	t.Run("search by city", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "campinas"
		clients, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, clients, 2)
	})

	t.Run("search by trade name", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "filtrão"
		clients, _, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, costa.ID, clients[0].ID)
	})

	t.Run("representative and active filters", func(t *testing.T) {
		filter := shared.DefaultFilter().With("representative_id", repID).With("active", true)
		clients, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, silva.ID, clients[0].ID)
	})

	t.Run("state filter is case-insensitive", func(t *testing.T) {
		_, total, err := repo.FindAll(ctx, shared.DefaultFilter().With("state", "pr"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("exists checks", func(t *testing.T) {
		exists, err := repo.ExistsByCNPJ(ctx, "12.345.678/0001-90", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByCNPJ(ctx, "12.345.678/0001-90", &silva.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsByCode(ctx, "", nil)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormClientRepository_UniqueColumns(t *testing.T) {
	repo := NewGormClientRepository(setupTestDB(t))
	ctx := context.Background()

	t.Run("empty code and CNPJ do not collide", func(t *testing.T) {
		a := newTestClient(t, partner.ClientInfo{Name: "Sem Código A"})
		b := newTestClient(t, partner.ClientInfo{Name: "Sem Código B"})
		require.NoError(t, repo.SaveBatch(ctx, []*partner.Client{a, b}))

		found, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Empty(t, found.Code)
		assert.Empty(t, found.CNPJ)
	})

	t.Run("duplicate CNPJ in batch", func(t *testing.T) {
		a := newTestClient(t, partner.ClientInfo{Name: "A", CNPJ: "11.222.333/0001-81"})
		b := newTestClient(t, partner.ClientInfo{Name: "B", CNPJ: "11.222.333/0001-81"})
		err := repo.SaveBatch(ctx, []*partner.Client{a, b})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestGormClientRepository_Stats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormClientRepository(db)
	regions := NewGormRegionRepository(db)
	ctx := context.Background()

	sul, err := region.NewRegion("Sul", "")
	require.NoError(t, err)
	require.NoError(t, regions.Save(ctx, sul))

	repID := uuid.New()
	clients := []*partner.Client{
		newTestClient(t, partner.ClientInfo{Name: "A", RegionID: &sul.ID, RepresentativeID: &repID}),
		newTestClient(t, partner.ClientInfo{Name: "B", RegionID: &sul.ID}),
		newTestClient(t, partner.ClientInfo{Name: "C"}),
	}
	require.NoError(t, clients[2].Deactivate())
	require.NoError(t, repo.SaveBatch(ctx, clients))

	t.Run("global", func(t *testing.T) {
		stats, err := repo.Stats(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.Total)
		assert.Equal(t, int64(2), stats.Active)
		assert.Equal(t, int64(1), stats.Inactive)
		require.Len(t, stats.ByRegion, 2)
		assert.Equal(t, "Sul", stats.ByRegion[0].RegionName)
		assert.Equal(t, int64(2), stats.ByRegion[0].Count)
		assert.Nil(t, stats.ByRegion[1].RegionID)
	})

	t.Run("scoped to representative", func(t *testing.T) {
		stats, err := repo.Stats(ctx, &repID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Total)
		assert.Equal(t, int64(0), stats.Inactive)
	})
}

func TestGormClientHistoryRepository(t *testing.T) {
	repo := NewGormClientHistoryRepository(setupTestDB(t))
	ctx := context.Background()

	clientID, userID := uuid.New(), uuid.New()
	first, err := partner.NewClientHistory(clientID, userID, partner.HistoryNote, "Ligou pedindo catálogo", nil)
	require.NoError(t, err)
	first.CreatedAt = time.Now().Add(-time.Hour)
	second, err := partner.NewClientHistory(clientID, userID, partner.HistoryImport, "Importado", nil)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.SaveBatch(ctx, []*partner.ClientHistory{second}))

	entries, total, err := repo.FindByClient(ctx, clientID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, second.ID, entries[0].ID)

	entries, total, err = repo.FindByClient(ctx, clientID, shared.DefaultFilter().With("kind", partner.HistoryNote))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Ligou pedindo catálogo", entries[0].Description)
}
