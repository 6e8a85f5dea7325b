package dto

import "time"

// CreateStockRequestRequest body para POST /api/stock-requests.
type CreateStockRequestRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"`
	Quantity  int64  `json:"quantity"`
	Urgency   string `json:"urgency,omitempty"`
	FromType  string `json:"from_type"`
	FromID    string `json:"from_id"`
	ToType    string `json:"to_type"`
	ToID      string `json:"to_id"`
	Reason    string `json:"reason,omitempty"`
}

// StockRequestResponse solicitud con su estado actual.
type StockRequestResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	Status      string    `json:"status"`
	Urgency     string    `json:"urgency"`
	FromType    string    `json:"from_type"`
	FromID      string    `json:"from_id"`
	ToType      string    `json:"to_type"`
	ToID        string    `json:"to_id"`
	Reason      string    `json:"reason,omitempty"`
	RequestedBy string    `json:"requested_by"`
	ApprovedBy  string    `json:"approved_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ScheduleInventoryRequest body para POST /api/inventories.
type ScheduleInventoryRequest struct {
	ProductID     string    `json:"product_id"`
	WarehouseID   string    `json:"warehouse_id,omitempty"`
	ExpectedQty   int64     `json:"expected_qty"`
	ScheduledDate time.Time `json:"scheduled_date"`
}

// CompleteInventoryRequest body para POST /api/inventories/:id/complete.
type CompleteInventoryRequest struct {
	ActualQty int64  `json:"actual_qty"`
	Notes     string `json:"notes,omitempty"`
}

// StockInventoryResponse conteo físico con su resultado.
type StockInventoryResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	WarehouseID   string    `json:"warehouse_id,omitempty"`
	ExpectedQty   int64     `json:"expected_qty"`
	ActualQty     int64     `json:"actual_qty"`
	Difference    int64     `json:"difference"`
	Status        string    `json:"status"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
