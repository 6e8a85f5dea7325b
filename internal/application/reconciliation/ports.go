package reconciliation

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios
// de ledger y de conteos físicos atados a esa tx (cierre atómico del conteo:
// movimiento de ajuste + actualización del conteo, o nada).
type TxRunner interface {
	RunReconciliation(ctx context.Context, fn func(
		lineRepo repository.StockLineRepository,
		movRepo repository.StockMovementRepository,
		inventoryRepo repository.StockInventoryRepository,
	) error) error
}
