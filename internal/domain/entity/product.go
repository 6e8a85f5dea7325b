package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa una entrada del catálogo (colaborador externo, solo lectura
// desde el ledger). Los umbrales min/max alimentan las alertas de stock y los
// valores monetarios la valorización; el ledger nunca los muta.
type Product struct {
	ID             string
	OrganizationID string
	SKU            string
	Name           string
	MinStock       int64           // umbral de alerta de stock bajo
	MaxStock       int64           // tope sugerido de reposición
	UnitPrice      decimal.Decimal // precio de venta
	CostPrice      decimal.Decimal // costo unitario
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
