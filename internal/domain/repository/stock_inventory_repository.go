package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// StockInventoryRepository define el puerto de persistencia de conteos físicos.
type StockInventoryRepository interface {
	Create(ctx context.Context, inventory *entity.StockInventory) error
	GetByID(ctx context.Context, id string) (*entity.StockInventory, error)
	Update(ctx context.Context, inventory *entity.StockInventory) error
	ListByOrganization(ctx context.Context, orgID string, status *entity.StockInventoryStatus, limit, offset int) ([]*entity.StockInventory, error)
}
