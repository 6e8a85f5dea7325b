package entity

import "time"

// Permisos conocidos dentro de una organización.
const (
	PermManageStock  = "manage_stock"  // aplicar ajustes manuales y aprobar solicitudes
	PermViewReports  = "view_reports"  // leer snapshots, historial y valorización
	PermManageOrders = "manage_orders" // ciclo de vida de órdenes de compra
)

// Membership membresía de un usuario en una organización, con sus permisos.
// Resuelta por el colaborador de administración de organizaciones; el ledger
// solo la consume para autorizar aprobaciones y ajustes.
type Membership struct {
	UserID         string
	OrganizationID string
	Active         bool
	Permissions    map[string]bool
	JoinedAt       time.Time
}

// Has indica si la membresía está activa y otorga el permiso dado.
func (m *Membership) Has(permission string) bool {
	if m == nil || !m.Active {
		return false
	}
	return m.Permissions[permission]
}
