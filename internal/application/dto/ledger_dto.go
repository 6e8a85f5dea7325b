package dto

import "time"

// ApplyMovementRequest body para POST /api/ledger/movements (ajuste manual).
type ApplyMovementRequest struct {
	ProductID    string `json:"product_id"`
	LocationType string `json:"location_type"`
	LocationID   string `json:"location_id"`
	Type         string `json:"type"`
	Delta        int64  `json:"delta"`
	Reference    string `json:"reference,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// ReservationRequest body para POST/DELETE /api/ledger/reservations.
type ReservationRequest struct {
	ProductID    string `json:"product_id"`
	LocationType string `json:"location_type"`
	LocationID   string `json:"location_id"`
	Amount       int64  `json:"amount"`
}

// StockLineResponse estado de una línea tras una operación o consulta.
type StockLineResponse struct {
	ProductID        string    `json:"product_id"`
	LocationType     string    `json:"location_type"`
	LocationID       string    `json:"location_id"`
	Quantity         int64     `json:"quantity"`
	ReservedQuantity int64     `json:"reserved_quantity"`
	Available        int64     `json:"available"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MovementResponse registro de movimiento expuesto en el historial.
type MovementResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	LocationType string    `json:"location_type"`
	LocationID   string    `json:"location_id"`
	Type         string    `json:"type"`
	Quantity     int64     `json:"quantity"`
	RemainingQty int64     `json:"remaining_qty"`
	PerformedBy  string    `json:"performed_by,omitempty"`
	Reference    string    `json:"reference,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TransferRequest body para POST /api/transfers.
type TransferRequest struct {
	ProductID string `json:"product_id"`
	FromType  string `json:"from_type"`
	FromID    string `json:"from_id"`
	ToType    string `json:"to_type"`
	ToID      string `json:"to_id"`
	Quantity  int64  `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
}

// TransferResponse los dos movimientos ligados del transfer.
type TransferResponse struct {
	Reference    string           `json:"reference"`
	FromMovement MovementResponse `json:"from_movement"`
	ToMovement   MovementResponse `json:"to_movement"`
}
