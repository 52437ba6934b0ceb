package importapp

import (
	"context"
	"testing"
	"time"

	appshared "github.com/filterdesk/backend/internal/application/shared"
	"github.com/filterdesk/backend/internal/domain/bulk"
	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/filterdesk/backend/internal/domain/region"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/infrastructure/cache"
	"github.com/filterdesk/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const clientsCSV = "Razão Social;CNPJ;UF;Região;Observações\n" +
	"Auto Peças Silva;12345678000190;sp;Capital;cliente antigo\n" +
	"Filtros Norte;98765432000110;PA;;\n"

type importFixture struct {
	svc      *ImportService
	tx       *batchRecorder
	history  *MockImportHistoryRepository
	regions  *MockRegionRepository
	users    *MockUserRepository
	sessions *cache.TypedCache[Session]
}

func newImportFixture(t *testing.T) importFixture {
	t.Helper()
	store := cache.NewInMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	f := importFixture{
		history:  new(MockImportHistoryRepository),
		regions:  new(MockRegionRepository),
		users:    new(MockUserRepository),
		sessions: cache.NewTypedCache[Session](store, "import:", 30*time.Minute),
	}
	f.tx = &batchRecorder{history: f.history}
	f.svc = NewImportService(f.tx, f.history, f.regions, f.users, f.sessions,
		config.ImportConfig{SessionTTL: 30 * time.Minute, MaxRows: 100}, zap.NewNop())
	return f
}

func adminActor() appshared.Actor {
	return appshared.Actor{UserID: uuid.New(), Name: "Admin", Role: identity.RoleAdmin}
}

func repActor() appshared.Actor {
	return appshared.Actor{UserID: uuid.New(), Name: "Rep", Role: identity.RoleRepresentative}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestImportService_Preview(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	actor := adminActor()

	resp, err := f.svc.Preview(ctx, actor, "clients", "clientes.csv", []byte(clientsCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalRows)
	require.Len(t, resp.Headers, 5)
	assert.Equal(t, bulk.HeaderMapping{Raw: "Razão Social", Canonical: "name", Mapped: true}, resp.Headers[0])
	assert.Equal(t, "state", resp.Headers[2].Canonical)
	assert.Equal(t, bulk.HeaderMapping{Raw: "Observações", Canonical: "Observações"}, resp.Headers[4])
	assert.Equal(t, "Auto Peças Silva", resp.Preview[0].Get("name"))
	assert.Equal(t, "cliente antigo", resp.Preview[0].Get("Observações"))

	stored, ok, err := f.sessions.Get(ctx, resp.SessionID.String())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, actor.UserID, stored.UserID)
	assert.Len(t, stored.Rows, 2)
}

func TestImportService_PreviewErrors(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	_, err := f.svc.Preview(ctx, adminActor(), "suppliers", "x.csv", []byte(clientsCSV))
	assert.ErrorIs(t, err, ErrInvalidEntity)

	_, err = f.svc.Preview(ctx, adminActor(), "clients", "x.csv", []byte("Cidade;UF\nSantos;SP\n"))
	assert.Equal(t, "IMPORT_MISSING_IDENTIFIER", domainCode(t, err))

	_, err = f.svc.Preview(ctx, adminActor(), "clients", "x.csv", []byte(""))
	assert.Equal(t, "IMPORT_EMPTY_FILE", domainCode(t, err))

	_, err = f.svc.Preview(ctx, adminActor(), "clients", "x.pdf", []byte(clientsCSV))
	assert.Equal(t, "IMPORT_UNSUPPORTED_FORMAT", domainCode(t, err))
}

func TestImportService_CommitClients(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	stats := &countingInvalidator{}
	f.svc.SetStatsInvalidator(stats)
	actor := repActor()
	capital := &region.Region{Name: "Capital"}
	capital.ID = uuid.New()

	preview, err := f.svc.Preview(ctx, actor, "clients", "clientes.csv", []byte(clientsCSV))
	require.NoError(t, err)

	f.regions.On("FindByName", ctx, "Capital").Return(capital, nil)
	f.tx.On("SaveBatch", ctx, "clients", 2).Return(nil)
	f.history.On("Save", ctx, mock.MatchedBy(func(h *bulk.ImportHistory) bool {
		return h.Status == bulk.ImportStatusCompleted && h.CreatedRows == 2 && h.ImportedBy == actor.UserID
	})).Return(nil)

	resp, err := f.svc.Commit(ctx, actor, preview.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CreatedRows)

	require.Len(t, f.tx.clients, 2)
	first := f.tx.clients[0]
	assert.Equal(t, "12.345.678/0001-90", first.CNPJ)
	assert.Equal(t, "SP", first.State)
	assert.Equal(t, capital.ID, *first.RegionID)
	assert.Equal(t, actor.UserID, *first.RepresentativeID)
	assert.Nil(t, f.tx.clients[1].RegionID)

	require.Len(t, f.tx.entries, 2)
	assert.Equal(t, partner.HistoryImport, f.tx.entries[0].Kind)
	assert.Equal(t, first.ID, f.tx.entries[0].ClientID)

	_, ok, err := f.sessions.Get(ctx, preview.SessionID.String())
	require.NoError(t, err)
	assert.False(t, ok, "session should be consumed")
	assert.Equal(t, 1, stats.calls)
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

func TestImportService_CommitIsAllOrNothing(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate inside the file", func(t *testing.T) {
		f := newImportFixture(t)
		actor := repActor()
		csv := "Nome,CNPJ\nA,12345678000190\nB,12.345.678/0001-90\n"
		preview, err := f.svc.Preview(ctx, actor, "clients", "c.csv", []byte(csv))
		require.NoError(t, err)
		f.history.On("Save", ctx, mock.MatchedBy(func(h *bulk.ImportHistory) bool {
			return h.Status == bulk.ImportStatusFailed && h.CreatedRows == 0
		})).Return(nil)

		_, err = f.svc.Commit(ctx, actor, preview.SessionID)
		assert.Equal(t, CodeImportRow, domainCode(t, err))
		assert.Contains(t, err.Error(), "Line 3")
		f.tx.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything, mock.Anything)
		f.history.AssertExpectations(t)
	})

	t.Run("constraint violation from the database", func(t *testing.T) {
		f := newImportFixture(t)
		actor := adminActor()
		preview, err := f.svc.Preview(ctx, actor, "products", "p.csv", []byte("Código;Produto;Preço\nPSL55;Filtro de óleo;R$ 1.234,56\n"))
		require.NoError(t, err)

		dup := shared.NewDomainError("ALREADY_EXISTS", "Product code PSL55 already exists")
		f.tx.On("SaveBatch", ctx, "products", 1).Return(dup)
		f.history.On("Save", ctx, mock.Anything).Return(nil)

		_, err = f.svc.Commit(ctx, actor, preview.SessionID)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		saved := f.history.Calls[len(f.history.Calls)-1].Arguments.Get(1).(*bulk.ImportHistory)
		assert.Equal(t, bulk.ImportStatusFailed, saved.Status)
		assert.Equal(t, "Product code PSL55 already exists", saved.ErrorMessage)

		_, ok, _ := f.sessions.Get(ctx, preview.SessionID.String())
		assert.True(t, ok, "a failed commit keeps the session for a retry")
	})
}

func TestImportService_CommitProducts(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	rows := &countingImportMetrics{}
	f.svc.SetMetrics(rows)
	stats := &countingInvalidator{}
	f.svc.SetStatsInvalidator(stats)
	actor := adminActor()
	preview, err := f.svc.Preview(ctx, actor, "products", "p.csv",
		[]byte("Código;Produto;Marca;Preço\npsl55;Filtro de óleo;Tecfil;R$ 1.234,56\nARL4151;Filtro de ar;Tecfil;89.90\n"))
	require.NoError(t, err)
	f.tx.On("SaveBatch", ctx, "products", 2).Return(nil)
	f.history.On("Save", ctx, mock.Anything).Return(nil)

	resp, err := f.svc.Commit(ctx, actor, preview.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "products", resp.Entity)
	require.Len(t, f.tx.products, 2)
	assert.Equal(t, "PSL55", f.tx.products[0].Code)
	assert.Equal(t, "1234.56", f.tx.products[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "89.90", f.tx.products[1].UnitPrice.StringFixed(2))
	assert.Equal(t, map[string]int{"products": 2}, rows.rows)
	assert.Zero(t, stats.calls, "product imports leave client counts alone")
}

type countingImportMetrics struct {
	rows map[string]int
}

func (m *countingImportMetrics) ImportCommitted(_ context.Context, entity string, rows int) {
	if m.rows == nil {
		m.rows = make(map[string]int)
	}
	m.rows[entity] += rows
}

func TestImportService_SessionAccess(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)

	_, err := f.svc.Commit(ctx, adminActor(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	preview, err := f.svc.Preview(ctx, repActor(), "clients", "c.csv", []byte(clientsCSV))
	require.NoError(t, err)
	_, err = f.svc.Commit(ctx, repActor(), preview.SessionID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestImportService_History(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture(t)
	h, err := bulk.NewImportHistory(bulk.ImportEntityClients, "c.csv", 3, uuid.New())
	require.NoError(t, err)
	h.Complete(3)
	f.history.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["entity_type"] == "clients"
	})).Return([]bulk.ImportHistory{*h}, int64(1), nil)

	page, err := f.svc.History(ctx, HistoryListFilter{EntityType: "clients"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "completed", page.Items[0].Status)
}

func TestParsePrice(t *testing.T) {
	f := newImportFixture(t)
	tests := []struct {
		in   string
		want string
	}{
		{"", "0.00"},
		{"89.90", "89.90"},
		{"89,90", "89.90"},
		{"R$ 1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"1234", "1234.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			products, err := f.svc.buildProducts([]bulk.Row{{"code": "PSL55", "name": "Filtro", "price": tt.in}})
			require.NoError(t, err)
			require.Len(t, products, 1)
			assert.Equal(t, tt.want, products[0].UnitPrice.StringFixed(2))
		})
	}

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := f.svc.buildProducts([]bulk.Row{{"code": "PSL55", "name": "Filtro", "price": "abc"}})
		assert.Equal(t, CodeImportRow, domainCode(t, err))
	})
}

func TestImportService_MalformedCSV(t *testing.T) {
	f := newImportFixture(t)
	_, err := f.svc.Preview(context.Background(), adminActor(), "clients", "c.csv",
		[]byte("Nome;CNPJ\n\"Auto \"Peças\";123\n"))
	assert.Equal(t, "IMPORT_PARSE", domainCode(t, err))
}
