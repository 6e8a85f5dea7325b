package entity

import "time"

// StockLine representa la cantidad actual de un producto en una ubicación.
// Identificada por (organización, producto, tipo de ubicación, ubicación).
// Se crea de forma perezosa con el primer movimiento hacia la ubicación y
// nunca se borra físicamente, solo se lleva a cero.
type StockLine struct {
	OrganizationID   string
	ProductID        string
	LocationType     LocationType
	LocationID       string
	Quantity         int64 // en mano, >= 0
	ReservedQuantity int64 // 0 <= reservada <= Quantity
	UpdatedAt        time.Time
}

// Available devuelve la cantidad disponible para salida o venta.
// Cálculo centralizado: todos los callers usan esta respuesta en lugar
// de re-derivarla por su cuenta.
func (s *StockLine) Available() int64 {
	return s.Quantity - s.ReservedQuantity
}

// Key devuelve la clave de ubicación de la línea.
func (s *StockLine) Key() LocationKey {
	return LocationKey{Type: s.LocationType, ID: s.LocationID}
}
