package entity

import "time"

// StockInventoryStatus estados de un conteo físico programado.
type StockInventoryStatus string

const (
	InventoryPending   StockInventoryStatus = "PENDING"
	InventoryCompleted StockInventoryStatus = "COMPLETED"
	InventoryCancelled StockInventoryStatus = "CANCELLED"
)

// Valid indica si el estado es uno de los conocidos.
func (s StockInventoryStatus) Valid() bool {
	switch s {
	case InventoryPending, InventoryCompleted, InventoryCancelled:
		return true
	}
	return false
}

// StockInventory conteo físico programado de un producto.
// Al completarse, la diferencia (actual - esperado) se cierra con un único
// movimiento ADJUSTMENT; diferencia cero es una conciliación válida sin movimiento.
type StockInventory struct {
	ID             string
	OrganizationID string
	ProductID      string
	WarehouseID    string // opcional: vacío = conteo sin bodega asignada
	ExpectedQty    int64
	ActualQty      int64
	Difference     int64 // ActualQty - ExpectedQty, calculado al completar
	Status         StockInventoryStatus
	ScheduledDate  time.Time
	Notes          string
	CreatedBy      string
	CompletedBy    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
