package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo adaptador de solo lectura del catálogo de productos sobre PostgreSQL.
// El catálogo es dato de referencia: el ledger nunca escribe en esta tabla.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, organization_id, sku, name, min_stock, max_stock, unit_price, cost_price, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.OrganizationID, &p.SKU, &p.Name, &p.MinStock, &p.MaxStock,
		&p.UnitPrice, &p.CostPrice, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ListByOrganization lista los productos de una organización.
func (r *ProductRepo) ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT id, organization_id, sku, name, min_stock, max_stock, unit_price, cost_price, created_at, updated_at
		FROM products WHERE organization_id = $1
		ORDER BY sku LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.SKU, &p.Name, &p.MinStock, &p.MaxStock,
			&p.UnitPrice, &p.CostPrice, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
