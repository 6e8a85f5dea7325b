package purchasing

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios
// de ledger y de órdenes de compra atados a esa tx (para la recepción atómica:
// movimiento IN + actualización de la línea de la orden, o nada).
type TxRunner interface {
	RunPurchasing(ctx context.Context, fn func(
		lineRepo repository.StockLineRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error) error
}
