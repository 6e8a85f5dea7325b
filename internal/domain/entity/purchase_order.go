package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estados de una orden de compra.
type PurchaseOrderStatus string

const (
	POStatusDraft     PurchaseOrderStatus = "DRAFT"
	POStatusSent      PurchaseOrderStatus = "SENT"
	POStatusConfirmed PurchaseOrderStatus = "CONFIRMED"
	POStatusReceived  PurchaseOrderStatus = "RECEIVED"  // terminal
	POStatusCancelled PurchaseOrderStatus = "CANCELLED" // terminal
)

// Valid indica si el estado es uno de los conocidos.
func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case POStatusDraft, POStatusSent, POStatusConfirmed, POStatusReceived, POStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo valida la máquina de estados:
// DRAFT → SENT → CONFIRMED → RECEIVED; CANCELLED solo desde DRAFT/SENT/CONFIRMED.
func (s PurchaseOrderStatus) CanTransitionTo(next PurchaseOrderStatus) bool {
	switch s {
	case POStatusDraft:
		return next == POStatusSent || next == POStatusCancelled
	case POStatusSent:
		return next == POStatusConfirmed || next == POStatusCancelled
	case POStatusConfirmed:
		return next == POStatusReceived || next == POStatusCancelled
	case POStatusReceived, POStatusCancelled:
		return false
	}
	return false
}

// PurchaseOrderItem línea de una orden de compra.
// Invariante: 0 <= ReceivedQty <= Quantity.
type PurchaseOrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	Quantity    int64 // cantidad ordenada
	ReceivedQty int64 // cantidad ya recibida
	UnitPrice   decimal.Decimal
}

// Pending devuelve la cantidad pendiente de recibir.
func (i *PurchaseOrderItem) Pending() int64 {
	return i.Quantity - i.ReceivedQty
}

// LineTotal devuelve el total monetario de la línea (cantidad * precio unitario).
func (i *PurchaseOrderItem) LineTotal() decimal.Decimal {
	return decimal.NewFromInt(i.Quantity).Mul(i.UnitPrice)
}

// PurchaseOrder orden de compra a un proveedor, recibida en una bodega.
type PurchaseOrder struct {
	ID             string
	OrganizationID string
	SupplierID     string
	WarehouseID    string
	Status         PurchaseOrderStatus
	Items          []*PurchaseOrderItem
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullyReceived indica si todas las líneas ya recibieron su cantidad completa.
func (o *PurchaseOrder) FullyReceived() bool {
	for _, item := range o.Items {
		if item.ReceivedQty < item.Quantity {
			return false
		}
	}
	return len(o.Items) > 0
}

// PartiallyReceived estado derivado de solo lectura: hay recepciones pero
// la orden aún no está completa.
func (o *PurchaseOrder) PartiallyReceived() bool {
	if o.FullyReceived() {
		return false
	}
	for _, item := range o.Items {
		if item.ReceivedQty > 0 {
			return true
		}
	}
	return false
}

// Total devuelve el total monetario de la orden.
func (o *PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
