package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Son condiciones esperadas y visibles al usuario; se propagan sin envolver
// hasta el borde HTTP, donde cada una se traduce a un status code.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrLocationMismatch   = errors.New("la ubicación no pertenece a la organización")
	ErrOverReceipt        = errors.New("la recepción excede la cantidad ordenada")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrDuplicateReference = errors.New("referencia de movimiento duplicada")
	// ErrLedgerUnavailable cubre fallas de transacción/conexión. La escritura ya
	// fue revertida; el caller puede reintentar sin riesgo de doble aplicación.
	ErrLedgerUnavailable = errors.New("ledger no disponible, reintentar")
)

// IsDomain indica si err es (o envuelve) un error de dominio. Los errores de
// dominio se propagan intactos hasta el borde; el resto se reporta como falla
// de infraestructura.
func IsDomain(err error) bool {
	for _, domainErr := range []error{
		ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrForbidden,
		ErrInsufficientStock, ErrLocationMismatch, ErrOverReceipt,
		ErrInvalidTransition, ErrDuplicateReference,
	} {
		if errors.Is(err, domainErr) {
			return true
		}
	}
	return false
}
