package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// StockLineRepository define el puerto para consultar/actualizar las líneas de stock
// por (producto, ubicación). Usado dentro de transacciones para garantizar consistencia.
type StockLineRepository interface {
	// Get devuelve la línea, o el estado cero (cantidades en 0) si aún no existe.
	Get(ctx context.Context, orgID, productID string, loc entity.LocationKey) (*entity.StockLine, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE) antes de devolverla.
	GetForUpdate(ctx context.Context, orgID, productID string, loc entity.LocationKey) (*entity.StockLine, error)
	// Upsert inserta o actualiza cantidades (por organización, producto y ubicación).
	Upsert(ctx context.Context, line *entity.StockLine) error
	// ListByOrganization devuelve el snapshot de líneas de la organización,
	// opcionalmente filtrado por ubicación.
	ListByOrganization(ctx context.Context, orgID string, loc *entity.LocationKey, limit, offset int) ([]*entity.StockLine, error)
}
