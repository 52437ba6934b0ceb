// Package shared holds application-layer contracts used by more than one service.
package shared

import (
	"context"

	"github.com/filterdesk/backend/internal/domain/bulk"
	"github.com/filterdesk/backend/internal/domain/catalog"
	"github.com/filterdesk/backend/internal/domain/partner"
	"github.com/filterdesk/backend/internal/domain/trade"
)

// TransactionScope runs a unit of work atomically.
type TransactionScope interface {
	// Execute runs fn within a database transaction. A non-nil error from fn
	// rolls the transaction back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories bound to the same transaction.
type TransactionalRepositories interface {
	ClientRepo() partner.ClientRepository
	ClientHistoryRepo() partner.ClientHistoryRepository
	ProductRepo() catalog.ProductRepository
	OrderRepo() trade.OrderRepository
	ImportHistoryRepo() bulk.ImportHistoryRepository
}
