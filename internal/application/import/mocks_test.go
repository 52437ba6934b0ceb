package importapp

import (
	"context"

	appshared "github.com/filterdesk/backend/internal/application/shared"
	"github.com/filterdesk/backend/internal/domain/bulk"
	"github.com/filterdesk/backend/internal/domain/catalog"
	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/filterdesk/backend/internal/domain/region"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockImportHistoryRepository struct {
	mock.Mock
}

func (m *MockImportHistoryRepository) Save(ctx context.Context, h *bulk.ImportHistory) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockImportHistoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]bulk.ImportHistory, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]bulk.ImportHistory), args.Get(1).(int64), args.Error(2)
}

type MockRegionRepository struct {
	mock.Mock
}

func (m *MockRegionRepository) FindByID(ctx context.Context, id uuid.UUID) (*region.Region, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*region.Region), args.Error(1)
}

func (m *MockRegionRepository) FindByName(ctx context.Context, name string) (*region.Region, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*region.Region), args.Error(1)
}

func (m *MockRegionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]region.Region, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]region.Region), args.Get(1).(int64), args.Error(2)
}

func (m *MockRegionRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRegionRepository) Save(ctx context.Context, r *region.Region) error {
	return m.Called(ctx, r).Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountAdmins(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// batchRecorder captures what a committed transaction would have written
type batchRecorder struct {
	mock.Mock
	clients  []*partner.Client
	entries  []*partner.ClientHistory
	products []*catalog.Product
	history  *MockImportHistoryRepository
}

func (r *batchRecorder) Execute(_ context.Context, fn func(repos appshared.TransactionalRepositories) error) error {
	return fn(r)
}

func (r *batchRecorder) ClientRepo() partner.ClientRepository               { return clientBatch{r} }
func (r *batchRecorder) ClientHistoryRepo() partner.ClientHistoryRepository { return historyBatch{r} }
func (r *batchRecorder) ProductRepo() catalog.ProductRepository             { return productBatch{r} }
func (r *batchRecorder) OrderRepo() trade.OrderRepository                   { return nil }
func (r *batchRecorder) ImportHistoryRepo() bulk.ImportHistoryRepository    { return r.history }

type clientBatch struct{ r *batchRecorder }

func (b clientBatch) FindByID(context.Context, uuid.UUID) (*partner.Client, error) {
	return nil, shared.ErrNotFound
}
func (b clientBatch) FindAll(context.Context, shared.Filter) ([]partner.Client, int64, error) {
	return nil, 0, nil
}
func (b clientBatch) ExistsByCode(context.Context, string, *uuid.UUID) (bool, error) { return false, nil }
func (b clientBatch) ExistsByCNPJ(context.Context, string, *uuid.UUID) (bool, error) { return false, nil }
func (b clientBatch) Save(context.Context, *partner.Client) error                    { return nil }
func (b clientBatch) Stats(context.Context, *uuid.UUID) (*partner.ClientStats, error) {
	return &partner.ClientStats{}, nil
}
func (b clientBatch) SaveBatch(ctx context.Context, clients []*partner.Client) error {
	if err := b.r.Called(ctx, "clients", len(clients)).Error(0); err != nil {
		return err
	}
	b.r.clients = clients
	return nil
}

type historyBatch struct{ r *batchRecorder }

func (b historyBatch) Save(context.Context, *partner.ClientHistory) error { return nil }
func (b historyBatch) FindByClient(context.Context, uuid.UUID, shared.Filter) ([]partner.ClientHistory, int64, error) {
	return nil, 0, nil
}
func (b historyBatch) SaveBatch(_ context.Context, entries []*partner.ClientHistory) error {
	b.r.entries = entries
	return nil
}

type productBatch struct{ r *batchRecorder }

func (b productBatch) FindByID(context.Context, uuid.UUID) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}
func (b productBatch) FindByCode(context.Context, string) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}
func (b productBatch) FindByIDs(context.Context, []uuid.UUID) ([]catalog.Product, error) {
	return nil, nil
}
func (b productBatch) FindAll(context.Context, shared.Filter) ([]catalog.Product, int64, error) {
	return nil, 0, nil
}
func (b productBatch) ExistsByCode(context.Context, string, *uuid.UUID) (bool, error) { return false, nil }
func (b productBatch) Save(context.Context, *catalog.Product) error                 { return nil }
func (b productBatch) Brands(context.Context) ([]string, error)                     { return nil, nil }
func (b productBatch) SaveBatch(ctx context.Context, products []*catalog.Product) error {
	if err := b.r.Called(ctx, "products", len(products)).Error(0); err != nil {
		return err
	}
	b.r.products = products
	return nil
}
