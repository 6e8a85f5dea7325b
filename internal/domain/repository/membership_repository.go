package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// MembershipRepository resuelve la membresía de un usuario en una organización
// (contrato consumido; la administración de miembros vive en otro servicio).
type MembershipRepository interface {
	Resolve(ctx context.Context, userID, orgID string) (*entity.Membership, error)
}
