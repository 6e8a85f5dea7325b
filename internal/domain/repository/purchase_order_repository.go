package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia de órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	// GetByID devuelve la orden con sus líneas.
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetByIDForUpdate bloquea la cabecera de la orden (SELECT FOR UPDATE) y la
	// devuelve con sus líneas; usado por la recepción concurrente.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id string, status entity.PurchaseOrderStatus) error
	UpdateItemReceived(ctx context.Context, itemID string, receivedQty int64) error
	ListByOrganization(ctx context.Context, orgID string, status *entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error)
}
