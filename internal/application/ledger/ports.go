package ledger

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor del ledger:
// o la línea de stock y el movimiento se escriben juntos, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lineRepo repository.StockLineRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
