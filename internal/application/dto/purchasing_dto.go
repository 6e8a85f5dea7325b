package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID  string                     `json:"supplier_id"`
	WarehouseID string                     `json:"warehouse_id"`
	Notes       string                     `json:"notes,omitempty"`
	Lines       []PurchaseOrderLineRequest `json:"lines"`
}

// PurchaseOrderLineRequest línea de una orden nueva.
type PurchaseOrderLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ReceiveItemsRequest body para POST /api/purchase-orders/:id/receipts.
type ReceiveItemsRequest struct {
	Receipts []ReceiptRequest `json:"receipts"`
}

// ReceiptRequest recepción de una línea; la referencia garantiza idempotencia.
type ReceiptRequest struct {
	ItemID      string `json:"item_id"`
	ReceivedQty int64  `json:"received_qty"`
	Reference   string `json:"reference"`
}

// PurchaseOrderResponse orden con sus líneas y estados derivados.
type PurchaseOrderResponse struct {
	ID                string                      `json:"id"`
	SupplierID        string                      `json:"supplier_id"`
	WarehouseID       string                      `json:"warehouse_id"`
	Status            string                      `json:"status"`
	PartiallyReceived bool                        `json:"partially_received"`
	Total             decimal.Decimal             `json:"total"`
	Notes             string                      `json:"notes,omitempty"`
	Items             []PurchaseOrderItemResponse `json:"items"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

// PurchaseOrderItemResponse línea de la orden.
type PurchaseOrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    int64           `json:"quantity"`
	ReceivedQty int64           `json:"received_qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}
