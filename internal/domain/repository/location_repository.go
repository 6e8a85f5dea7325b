package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia del registro de ubicaciones.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.Location, error)
}
