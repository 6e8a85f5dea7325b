package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ValuationRow fila cruda de valorización de stock (línea + precio del catálogo).
type ValuationRow struct {
	ProductID    string
	SKU          string
	ProductName  string
	LocationType entity.LocationType
	LocationID   string
	Quantity     int64
	UnitPrice    decimal.Decimal
}

// LowStockRow fila cruda para la proyección de alertas: stock actual vs umbral mínimo.
type LowStockRow struct {
	ProductID    string
	SKU          string
	ProductName  string
	LocationType entity.LocationType
	LocationID   string
	Quantity     int64
	MinStock     int64
	MaxStock     int64
}

// ReportRepository define el puerto de consultas de solo lectura para reportes.
// Ninguna de estas consultas toma locks; leen bajo semántica de snapshot normal.
type ReportRepository interface {
	// StockValuation devuelve las líneas con cantidad > 0 junto a su precio unitario.
	StockValuation(ctx context.Context, orgID string, loc *entity.LocationKey) ([]ValuationRow, error)
	// LowStock devuelve los productos cuyo stock en la ubicación (o agregado si
	// loc es nil) está por debajo de su umbral mínimo, incluyendo los agotados.
	LowStock(ctx context.Context, orgID string, loc *entity.LocationKey) ([]LowStockRow, error)
}
