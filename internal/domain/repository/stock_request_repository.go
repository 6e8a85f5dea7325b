package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// StockRequestRepository define el puerto de persistencia de solicitudes de stock.
type StockRequestRepository interface {
	Create(ctx context.Context, request *entity.StockRequest) error
	GetByID(ctx context.Context, id string) (*entity.StockRequest, error)
	Update(ctx context.Context, request *entity.StockRequest) error
	ListByOrganization(ctx context.Context, orgID string, status *entity.StockRequestStatus, limit, offset int) ([]*entity.StockRequest, error)
}
