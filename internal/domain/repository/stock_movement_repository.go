package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del log de movimientos.
// El log es append-only: no existen Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// ExistsByReference indica si ya existe un movimiento con esa referencia
	// (chequeo de idempotencia previo a registrar una recepción).
	ExistsByReference(ctx context.Context, orgID, reference string) (bool, error)
	// ListByLocation lista movimientos de una ubicación en un rango de fechas.
	ListByLocation(ctx context.Context, orgID string, loc entity.LocationKey, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// ListByProduct lista movimientos de un producto en un rango de fechas.
	ListByProduct(ctx context.Context, orgID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// SumByLine devuelve la suma de cantidades firmadas de los movimientos de la
	// línea (verificación de reconstruibilidad del ledger).
	SumByLine(ctx context.Context, orgID, productID string, loc entity.LocationKey) (int64, error)
}
