package catalog

import (
	"context"
	"strings"

	"github.com/filterdesk/backend/internal/domain/catalog"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/infrastructure/export"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles catalog management
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, logger: logger}
}

// List searches the catalog
func (s *ProductService) List(ctx context.Context, input ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	filter := buildFilter(input)
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}

	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetByID returns one product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Create adds a product with a unique code
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*ProductResponse, error) {
	product, err := catalog.NewProduct(input.toInfo())
	if err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, product.Code, nil); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update replaces a product's fields. Order lines keep their snapshot.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Update(input.toInfo()); err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, product.Code, &product.ID); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Activate makes a product available for order entry
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Activate(); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Deactivate removes a product from order entry
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Brands lists the distinct brands of active products
func (s *ProductService) Brands(ctx context.Context) ([]string, error) {
	brands, err := s.productRepo.Brands(ctx)
	if err != nil {
		return nil, err
	}
	if brands == nil {
		brands = []string{}
	}
	return brands, nil
}

// Export writes every product matching the filter to an XLSX workbook whose
// header row can be imported back
func (s *ProductService) Export(ctx context.Context, input ProductListFilter) ([]byte, error) {
	filter := buildFilter(input)
	filter.Page = 1
	filter.PageSize = 0

	products, _, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	data, err := export.ProductsWorkbook(products)
	if err != nil {
		s.logger.Error("Failed to build products workbook", zap.Error(err))
		return nil, err
	}
	return data, nil
}

func (s *ProductService) ensureCodeFree(ctx context.Context, code string, excludeID *uuid.UUID) error {
	exists, err := s.productRepo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Product code "+code+" is already in use")
	}
	return nil
}

func buildFilter(input ProductListFilter) shared.Filter {
	filter := shared.DefaultFilter()
	filter.OrderBy = "code"
	filter.OrderDir = "asc"
	filter.Search = strings.TrimSpace(input.Search)
	if input.OrderBy != "" {
		filter.OrderBy = input.OrderBy
	}
	if input.OrderDir != "" {
		filter.OrderDir = input.OrderDir
	}
	if input.Active != nil {
		filter = filter.With("active", *input.Active)
	}
	if input.Brand != "" {
		filter = filter.With("brand", input.Brand)
	}
	if input.Category != "" {
		filter = filter.With("category", input.Category)
	}
	return filter
}
