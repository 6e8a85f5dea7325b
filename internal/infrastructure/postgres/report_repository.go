package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes. Ninguna toma locks.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// StockValuation devuelve las líneas con cantidad > 0 junto a su precio unitario.
func (r *ReportRepo) StockValuation(ctx context.Context, orgID string, loc *entity.LocationKey) ([]repository.ValuationRow, error) {
	query := `
		SELECT s.product_id, p.sku, p.name, s.location_type, s.location_id, s.quantity, p.unit_price
		FROM stock_lines s
		JOIN products p ON p.id = s.product_id
		WHERE s.organization_id = $1 AND s.quantity > 0`
	args := []any{orgID}
	if loc != nil {
		query += " AND s.location_type = $2 AND s.location_id = $3"
		args = append(args, string(loc.Type), loc.ID)
	}
	query += " ORDER BY p.sku, s.location_type, s.location_id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("stock valuation: %w", err)
	}
	defer rows.Close()
	var list []repository.ValuationRow
	for rows.Next() {
		var row repository.ValuationRow
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.ProductName,
			&row.LocationType, &row.LocationID, &row.Quantity, &row.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan valuation row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// LowStock devuelve los productos cuyo stock en la ubicación (o agregado si loc
// es nil) está por debajo del umbral mínimo, incluyendo los que nunca tuvieron
// línea (stock cero).
func (r *ReportRepo) LowStock(ctx context.Context, orgID string, loc *entity.LocationKey) ([]repository.LowStockRow, error) {
	var (
		query string
		args  []any
	)
	if loc != nil {
		query = `
			SELECT p.id, p.sku, p.name, $2::text, $3::text, COALESCE(s.quantity, 0), p.min_stock, p.max_stock
			FROM products p
			LEFT JOIN stock_lines s ON s.product_id = p.id AND s.location_type = $2 AND s.location_id = $3
			WHERE p.organization_id = $1
			  AND p.min_stock > 0
			  AND COALESCE(s.quantity, 0) < p.min_stock
			ORDER BY (p.min_stock - COALESCE(s.quantity, 0)) DESC`
		args = []any{orgID, string(loc.Type), loc.ID}
	} else {
		query = `
			SELECT p.id, p.sku, p.name, '', '', COALESCE(SUM(s.quantity), 0), p.min_stock, p.max_stock
			FROM products p
			LEFT JOIN stock_lines s ON s.product_id = p.id
			WHERE p.organization_id = $1
			  AND p.min_stock > 0
			GROUP BY p.id, p.sku, p.name, p.min_stock, p.max_stock
			HAVING COALESCE(SUM(s.quantity), 0) < p.min_stock
			ORDER BY (p.min_stock - COALESCE(SUM(s.quantity), 0)) DESC`
		args = []any{orgID}
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("low stock scan: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.ProductName,
			&row.LocationType, &row.LocationID, &row.Quantity, &row.MinStock, &row.MaxStock); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
