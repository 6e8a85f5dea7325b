package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de lectura del catálogo de productos.
// El catálogo es un colaborador externo: el ledger nunca lo muta.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.Product, error)
}
