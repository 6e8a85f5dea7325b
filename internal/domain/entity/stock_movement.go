package entity

import "time"

// MovementType tipos de movimiento del ledger.
type MovementType string

const (
	MovementIN         MovementType = "IN"         // entrada (recepción, devolución)
	MovementOUT        MovementType = "OUT"        // salida (venta, baja)
	MovementTRANSFER   MovementType = "TRANSFER"   // traslado entre ubicaciones (par débito/crédito)
	MovementADJUSTMENT MovementType = "ADJUSTMENT" // ajuste manual
	MovementINVENTORY  MovementType = "INVENTORY"  // ajuste por conteo físico
)

// Valid indica si el tipo de movimiento es uno de los conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementIN, MovementOUT, MovementTRANSFER, MovementADJUSTMENT, MovementINVENTORY:
		return true
	}
	return false
}

// StockMovement es el registro inmutable de auditoría del ledger.
// Append-only: las correcciones son movimientos nuevos, nunca ediciones.
// Invariante: para cualquier StockLine, la suma de los Quantity firmados de
// sus movimientos es igual a su cantidad actual (ledger reconstruible).
type StockMovement struct {
	ID             string
	OrganizationID string
	ProductID      string
	LocationType   LocationType
	LocationID     string
	Type           MovementType
	Quantity       int64 // firmado: positivo entrada, negativo salida
	RemainingQty   int64 // snapshot de la cantidad en la ubicación tras aplicar
	PerformedBy    string
	Reference      string // liga los dos registros de un transfer; idempotencia de recepciones
	Reason         string
	CreatedAt      time.Time
}
