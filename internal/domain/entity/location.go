package entity

import "time"

// LocationType distingue los tipos de ubicación que almacenan stock.
type LocationType string

const (
	LocationWarehouse LocationType = "WAREHOUSE" // bodega
	LocationStore     LocationType = "STORE"     // punto de venta
	LocationEmployee  LocationType = "EMPLOYEE"  // stock personal de empleado
)

// Valid indica si el tipo de ubicación es uno de los conocidos.
func (t LocationType) Valid() bool {
	switch t {
	case LocationWarehouse, LocationStore, LocationEmployee:
		return true
	}
	return false
}

// Location representa una ubicación que almacena inventario (registro canónico).
// Cada ubicación pertenece a exactamente una organización.
type Location struct {
	ID             string
	OrganizationID string
	Type           LocationType
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LocationKey identifica una ubicación dentro del ledger (tipo + id).
type LocationKey struct {
	Type LocationType
	ID   string
}

// Less define el orden determinista de bloqueo entre ubicaciones
// (primero por tipo, luego por id). Los transfers bloquean sus dos filas
// en este orden para evitar deadlocks entre transfers cruzados.
func (k LocationKey) Less(other LocationKey) bool {
	if k.Type != other.Type {
		return k.Type < other.Type
	}
	return k.ID < other.ID
}

// Equal compara dos claves de ubicación.
func (k LocationKey) Equal(other LocationKey) bool {
	return k.Type == other.Type && k.ID == other.ID
}
