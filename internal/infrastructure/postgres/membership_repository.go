package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.MembershipRepository = (*MembershipRepo)(nil)

// MembershipRepo resuelve membresías leyendo la tabla organization_members
// (administrada por el servicio de organizaciones; aquí solo lectura).
type MembershipRepo struct {
	q Querier
}

// NewMembershipRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMembershipRepository(q Querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

// Resolve devuelve la membresía del usuario en la organización.
// Usuario sin membresía = membresía inactiva sin permisos, no un error.
func (r *MembershipRepo) Resolve(ctx context.Context, userID, orgID string) (*entity.Membership, error) {
	query := `
		SELECT m.user_id, m.organization_id, m.active, m.joined_at, COALESCE(array_agg(p.permission) FILTER (WHERE p.permission IS NOT NULL), '{}')
		FROM organization_members m
		LEFT JOIN member_permissions p ON p.user_id = m.user_id AND p.organization_id = m.organization_id
		WHERE m.user_id = $1 AND m.organization_id = $2
		GROUP BY m.user_id, m.organization_id, m.active, m.joined_at`
	var membership entity.Membership
	var permissions []string
	err := r.q.QueryRow(ctx, query, userID, orgID).Scan(
		&membership.UserID, &membership.OrganizationID, &membership.Active,
		&membership.JoinedAt, &permissions,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Membership{UserID: userID, OrganizationID: orgID}, nil
		}
		return nil, fmt.Errorf("resolve membership: %w", err)
	}
	membership.Permissions = make(map[string]bool, len(permissions))
	for _, permission := range permissions {
		membership.Permissions[permission] = true
	}
	return &membership, nil
}
