package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pricingapp "github.com/filterdesk/backend/internal/application/pricing"
	appshared "github.com/filterdesk/backend/internal/application/shared"
	"github.com/filterdesk/backend/internal/domain/catalog"
	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/filterdesk/backend/internal/domain/pricing"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/domain/trade"
	"github.com/filterdesk/backend/internal/infrastructure/export"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Errors returned by the order service
var (
	ErrOrderNotOwned    = shared.NewDomainError("FORBIDDEN", "This order belongs to another representative")
	ErrClientInactive   = shared.NewDomainError("CLIENT_INACTIVE", "Orders cannot be created for an inactive client")
	ErrProductInactive  = shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available for sale")
	ErrDiscountInactive = shared.NewDomainError("DISCOUNT_INACTIVE", "Discount tier is not active")
	ErrOrderConfirmed   = shared.NewDomainError("INVALID_STATE", "Confirmed orders cannot be modified")
)

// StatsInvalidator drops cached dashboard figures after orders change
type StatsInvalidator interface {
	Invalidate(ctx context.Context) error
}

// OrderMetrics records confirmed order amounts
type OrderMetrics interface {
	OrderConfirmed(ctx context.Context, total, commission decimal.Decimal)
}

// OrderService handles quotations and confirmed orders
type OrderService struct {
	orderRepo    trade.OrderRepository
	clientRepo   partner.ClientRepository
	historyRepo  partner.ClientHistoryRepository
	productRepo  catalog.ProductRepository
	discountRepo pricing.DiscountRepository
	userRepo     identity.UserRepository
	txScope      appshared.TransactionScope
	stats        StatsInvalidator
	metrics      OrderMetrics
	logger       *zap.Logger
	now          func() time.Time
}

// OrderServiceDeps groups the collaborators of OrderService
type OrderServiceDeps struct {
	OrderRepo    trade.OrderRepository
	ClientRepo   partner.ClientRepository
	HistoryRepo  partner.ClientHistoryRepository
	ProductRepo  catalog.ProductRepository
	DiscountRepo pricing.DiscountRepository
	UserRepo     identity.UserRepository
	TxScope      appshared.TransactionScope
	Stats        StatsInvalidator
	Metrics      OrderMetrics
	Logger       *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(deps OrderServiceDeps) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:    deps.OrderRepo,
		clientRepo:   deps.ClientRepo,
		historyRepo:  deps.HistoryRepo,
		productRepo:  deps.ProductRepo,
		discountRepo: deps.DiscountRepo,
		userRepo:     deps.UserRepo,
		txScope:      deps.TxScope,
		stats:        deps.Stats,
		metrics:      deps.Metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// List searches orders within the actor's scope. Items are not loaded.
func (s *OrderService) List(ctx context.Context, actor appshared.Actor, input OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	filter, err := s.buildFilter(actor, input)
	if err != nil {
		return nil, err
	}

	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderResponse(&orders[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Load returns the domain order after checking the actor may see it
func (s *OrderService) Load(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*trade.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(&order.RepresentativeID) {
		return nil, ErrOrderNotOwned
	}
	return order, nil
}

// GetByID returns an order with its items
func (s *OrderService) GetByID(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.Load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Summary returns the per-line and order-level pricing breakdown
func (s *OrderService) Summary(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*pricingapp.SummaryResponse, error) {
	order, err := s.Load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := pricingapp.ToSummaryResponse(order.Summary())
	return &resp, nil
}

// Create opens a new quotation for a client. The number is allocated and the
// order saved in one transaction together with the client timeline entry.
func (s *OrderService) Create(ctx context.Context, actor appshared.Actor, input CreateOrderInput) (*OrderResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CLIENT", "Client not found")
		}
		return nil, err
	}
	if !actor.CanAccess(client.RepresentativeID) {
		return nil, ErrOrderNotOwned
	}
	if !client.Active {
		return nil, ErrClientInactive
	}

	repID, repName, err := s.resolveRepresentative(ctx, actor, client, input.RepresentativeID)
	if err != nil {
		return nil, err
	}

	items := make([]trade.ItemInput, len(input.Items))
	for i, in := range input.Items {
		item, err := s.resolveItem(ctx, actor, in.ProductID, in.Quantity, in.DiscountID, in.DiscountPercentage, in.CommissionPercentage)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}

	var order *trade.Order
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		number, err := repos.OrderRepo().GenerateOrderNumber(ctx, s.now().Year())
		if err != nil {
			return err
		}
		order, err = trade.NewOrder(number, client.ID, client.Name, client.CNPJ, repID, repName)
		if err != nil {
			return err
		}
		if err := order.SetTerms(input.Notes, input.PaymentTerms); err != nil {
			return err
		}
		if input.Taxes != nil {
			if err := order.SetTaxes(*input.Taxes); err != nil {
				return err
			}
		}
		for _, item := range items {
			if _, err := order.AddItem(item); err != nil {
				return err
			}
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		entry, err := partner.NewClientHistory(client.ID, actor.UserID, partner.HistoryOrderCreated,
			fmt.Sprintf("Orçamento %s criado", order.Number), &order.ID)
		if err != nil {
			return err
		}
		return repos.ClientHistoryRepo().Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("number", order.Number),
		zap.String("client_id", client.ID.String()))
	s.invalidateStats(ctx)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Update edits the header of a quotation
func (s *OrderService) Update(ctx context.Context, actor appshared.Actor, id uuid.UUID, input UpdateOrderInput) (*OrderResponse, error) {
	order, err := s.loadModifiable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	notes, terms := order.Notes, order.PaymentTerms
	if input.Notes != nil {
		notes = *input.Notes
	}
	if input.PaymentTerms != nil {
		terms = *input.PaymentTerms
	}
	if err := order.SetTerms(notes, terms); err != nil {
		return nil, err
	}
	if input.Taxes != nil {
		if err := order.SetTaxes(*input.Taxes); err != nil {
			return nil, err
		}
	}

	return s.save(ctx, order)
}

// AddItem appends a product line to a quotation
func (s *OrderService) AddItem(ctx context.Context, actor appshared.Actor, id uuid.UUID, input OrderItemInput) (*OrderResponse, error) {
	order, err := s.loadModifiable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	item, err := s.resolveItem(ctx, actor, input.ProductID, input.Quantity, input.DiscountID, input.DiscountPercentage, input.CommissionPercentage)
	if err != nil {
		return nil, err
	}
	if _, err := order.AddItem(item); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// UpdateItem changes the quantity and discount of a line. The product
// snapshot and unit price stay as they were when the line was added.
func (s *OrderService) UpdateItem(ctx context.Context, actor appshared.Actor, id, itemID uuid.UUID, input UpdateItemInput) (*OrderResponse, error) {
	order, err := s.loadModifiable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	discount, err := s.resolveDiscount(ctx, actor, input.DiscountID, input.DiscountPercentage, input.CommissionPercentage)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateItem(itemID, input.Quantity, discount); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// RemoveItem deletes a line from a quotation
func (s *OrderService) RemoveItem(ctx context.Context, actor appshared.Actor, id, itemID uuid.UUID) (*OrderResponse, error) {
	order, err := s.loadModifiable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// Confirm turns a quotation into a confirmed order. Commission is only
// counted from this point on.
func (s *OrderService) Confirm(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.Load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := order.Confirm(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	entry, err := partner.NewClientHistory(order.ClientID, actor.UserID, partner.HistoryOrderConfirmed,
		fmt.Sprintf("Pedido %s confirmado", order.Number), &order.ID)
	if err == nil {
		err = s.historyRepo.Save(ctx, entry)
	}
	if err != nil {
		s.logger.Warn("Failed to record order confirmation in client history",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("Order confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("number", order.Number),
		zap.String("total", order.Total.StringFixed(2)))
	s.invalidateStats(ctx)
	if s.metrics != nil {
		s.metrics.OrderConfirmed(ctx, order.Total, order.Commission)
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Delete removes a quotation. Confirmed orders are kept.
func (s *OrderService) Delete(ctx context.Context, actor appshared.Actor, id uuid.UUID) error {
	order, err := s.loadModifiable(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, order.ID); err != nil {
		return err
	}
	s.logger.Info("Order deleted",
		zap.String("order_id", order.ID.String()),
		zap.String("number", order.Number))
	s.invalidateStats(ctx)
	return nil
}

// Export renders every order matching the filter as an XLSX workbook
func (s *OrderService) Export(ctx context.Context, actor appshared.Actor, input OrderListFilter) ([]byte, error) {
	filter, err := s.buildFilter(actor, input)
	if err != nil {
		return nil, err
	}
	filter.Page = 1
	filter.PageSize = 0

	orders, err := s.orderRepo.FindAllWithItems(ctx, filter)
	if err != nil {
		return nil, err
	}
	return export.OrdersWorkbook(orders)
}

func (s *OrderService) loadModifiable(ctx context.Context, actor appshared.Actor, id uuid.UUID) (*trade.Order, error) {
	order, err := s.Load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !order.CanModify() {
		return nil, ErrOrderConfirmed
	}
	return order, nil
}

func (s *OrderService) save(ctx context.Context, order *trade.Order) (*OrderResponse, error) {
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// resolveRepresentative picks who the order belongs to. Representatives
// always own their orders; administrators may name one, otherwise the
// client's representative or the administrator themself is used.
func (s *OrderService) resolveRepresentative(ctx context.Context, actor appshared.Actor, client *partner.Client, requested *uuid.UUID) (uuid.UUID, string, error) {
	if !actor.IsAdmin() {
		return actor.UserID, actor.Name, nil
	}

	target := requested
	if target == nil {
		target = client.RepresentativeID
	}
	if target == nil || *target == actor.UserID {
		return actor.UserID, actor.Name, nil
	}

	user, err := s.userRepo.FindByID(ctx, *target)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, "", shared.NewDomainError("INVALID_REPRESENTATIVE", "Representative not found")
		}
		return uuid.Nil, "", err
	}
	return user.ID, user.Name, nil
}

func (s *OrderService) resolveItem(ctx context.Context, actor appshared.Actor, productID uuid.UUID, quantity int64, discountID *uuid.UUID, discountPct, commissionPct *decimal.Decimal) (trade.ItemInput, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return trade.ItemInput{}, shared.NewDomainError("INVALID_PRODUCT", "Product not found")
		}
		return trade.ItemInput{}, err
	}
	if !product.Active {
		return trade.ItemInput{}, ErrProductInactive
	}

	discount, err := s.resolveDiscount(ctx, actor, discountID, discountPct, commissionPct)
	if err != nil {
		return trade.ItemInput{}, err
	}

	return trade.ItemInput{
		ProductID:    product.ID,
		ProductCode:  product.Code,
		ProductName:  product.Name,
		ProductBrand: product.Brand,
		Quantity:     quantity,
		UnitPrice:    product.UnitPrice,
		ItemDiscount: discount,
	}, nil
}

// resolveDiscount snapshots a tier's percentages onto a line. Explicit
// percentages override the tier for administrators only.
func (s *OrderService) resolveDiscount(ctx context.Context, actor appshared.Actor, discountID *uuid.UUID, discountPct, commissionPct *decimal.Decimal) (trade.ItemDiscount, error) {
	var result trade.ItemDiscount
	if discountID != nil {
		discount, err := s.discountRepo.FindByID(ctx, *discountID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return result, shared.NewDomainError("INVALID_DISCOUNT", "Discount tier not found")
			}
			return result, err
		}
		if !discount.Active {
			return result, ErrDiscountInactive
		}
		result.DiscountID = &discount.ID
		result.DiscountPercentage = discount.DiscountPercentage
		result.CommissionPercentage = discount.CommissionPercentage
	}

	if !actor.IsAdmin() {
		if discountPct != nil || commissionPct != nil {
			return result, shared.NewDomainError("FORBIDDEN", "Only administrators can set custom percentages")
		}
		return result, nil
	}
	if discountPct != nil {
		result.DiscountPercentage = *discountPct
	}
	if commissionPct != nil {
		result.CommissionPercentage = *commissionPct
	}
	return result, nil
}

func (s *OrderService) buildFilter(actor appshared.Actor, input OrderListFilter) (shared.Filter, error) {
	filter := shared.DefaultFilter()
	filter.Search = strings.TrimSpace(input.Search)
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.OrderBy != "" {
		filter.OrderBy = input.OrderBy
	}
	if input.OrderDir != "" {
		filter.OrderDir = input.OrderDir
	}
	if input.Status != "" {
		filter = filter.With("status", input.Status)
	}
	if input.ClientID != "" {
		clientID, err := uuid.Parse(input.ClientID)
		if err != nil {
			return filter, shared.NewDomainError("INVALID_INPUT", "Invalid client_id")
		}
		filter = filter.With("client_id", clientID)
	}
	if scope := actor.RepresentativeScope(); scope != nil {
		filter = filter.With("representative_id", *scope)
	} else if input.RepresentativeID != "" {
		repID, err := uuid.Parse(input.RepresentativeID)
		if err != nil {
			return filter, shared.NewDomainError("INVALID_INPUT", "Invalid representative_id")
		}
		filter = filter.With("representative_id", repID)
	}
	if input.From != "" {
		from, err := time.ParseInLocation(time.DateOnly, input.From, time.Local)
		if err != nil {
			return filter, shared.NewDomainError("INVALID_INPUT", "Invalid from date")
		}
		filter = filter.With("from", from)
	}
	if input.To != "" {
		to, err := time.ParseInLocation(time.DateOnly, input.To, time.Local)
		if err != nil {
			return filter, shared.NewDomainError("INVALID_INPUT", "Invalid to date")
		}
		filter = filter.With("to", to.AddDate(0, 0, 1))
	}
	return filter, nil
}

func (s *OrderService) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}
}
