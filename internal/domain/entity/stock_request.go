package entity

import "time"

// StockRequestType tipos de solicitud de stock iniciada por un empleado.
type StockRequestType string

const (
	RequestIN       StockRequestType = "IN"       // bodega → stock personal del empleado
	RequestOUT      StockRequestType = "OUT"      // stock personal del empleado → bodega
	RequestTRANSFER StockRequestType = "TRANSFER" // par origen/destino arbitrario
)

// Valid indica si el tipo de solicitud es uno de los conocidos.
func (t StockRequestType) Valid() bool {
	switch t {
	case RequestIN, RequestOUT, RequestTRANSFER:
		return true
	}
	return false
}

// StockRequestStatus estados de la solicitud.
// PENDING → APPROVED|REJECTED (acción de un manager) → COMPLETED (cuando el
// transfer subyacente se ejecuta con éxito).
type StockRequestStatus string

const (
	RequestPending   StockRequestStatus = "PENDING"
	RequestApproved  StockRequestStatus = "APPROVED"
	RequestRejected  StockRequestStatus = "REJECTED"
	RequestCompleted StockRequestStatus = "COMPLETED"
)

// Valid indica si el estado es uno de los conocidos.
func (s StockRequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestCompleted:
		return true
	}
	return false
}

// UrgencyLevel nivel de urgencia declarado por el solicitante.
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "LOW"
	UrgencyNormal   UrgencyLevel = "NORMAL"
	UrgencyHigh     UrgencyLevel = "HIGH"
	UrgencyCritical UrgencyLevel = "CRITICAL"
)

// Valid indica si el nivel de urgencia es uno de los conocidos.
func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// StockRequest solicitud de movimiento de stock iniciada por un empleado.
// La aprobación dispara un transfer; si el transfer falla la solicitud queda
// en APPROVED (no COMPLETED) y el error se propaga al caller.
type StockRequest struct {
	ID             string
	OrganizationID string
	ProductID      string
	Type           StockRequestType
	Quantity       int64
	Status         StockRequestStatus
	Urgency        UrgencyLevel
	// Origen/destino del transfer. Para IN: From = bodega, To = empleado.
	// Para OUT: From = empleado, To = bodega. Para TRANSFER: par arbitrario.
	FromType LocationType
	FromID   string
	ToType   LocationType
	ToID     string
	Reason   string

	RequestedBy string
	ApprovedBy  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
