package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.StockLineRepository = (*StockLineRepo)(nil)

// StockLineRepo implementación de StockLineRepository sobre PostgreSQL (usable con pool o tx).
type StockLineRepo struct {
	q Querier
}

// NewStockLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLineRepository(q Querier) *StockLineRepo {
	return &StockLineRepo{q: q}
}

// Get obtiene la línea de stock, o el estado cero si aún no existe.
func (r *StockLineRepo) Get(ctx context.Context, orgID, productID string, loc entity.LocationKey) (*entity.StockLine, error) {
	query := `
		SELECT organization_id, product_id, location_type, location_id, quantity, reserved_quantity, updated_at
		FROM stock_lines
		WHERE organization_id = $1 AND product_id = $2 AND location_type = $3 AND location_id = $4`
	return r.scanOne(ctx, query, orgID, productID, loc)
}

// GetForUpdate obtiene la línea y bloquea la fila para update (SELECT FOR UPDATE).
// La fila se materializa en cero antes de bloquear: FOR UPDATE sobre una fila
// inexistente no bloquea nada, y dos primeros movimientos concurrentes sobre la
// misma línea se pisarían el upsert entre sí.
func (r *StockLineRepo) GetForUpdate(ctx context.Context, orgID, productID string, loc entity.LocationKey) (*entity.StockLine, error) {
	insert := `
		INSERT INTO stock_lines (organization_id, product_id, location_type, location_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, now())
		ON CONFLICT (organization_id, product_id, location_type, location_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, orgID, productID, string(loc.Type), loc.ID); err != nil {
		return nil, fmt.Errorf("materialize stock line: %w", err)
	}
	query := `
		SELECT organization_id, product_id, location_type, location_id, quantity, reserved_quantity, updated_at
		FROM stock_lines
		WHERE organization_id = $1 AND product_id = $2 AND location_type = $3 AND location_id = $4
		FOR UPDATE`
	return r.scanOne(ctx, query, orgID, productID, loc)
}

func (r *StockLineRepo) scanOne(ctx context.Context, query, orgID, productID string, loc entity.LocationKey) (*entity.StockLine, error) {
	var line entity.StockLine
	err := r.q.QueryRow(ctx, query, orgID, productID, string(loc.Type), loc.ID).Scan(
		&line.OrganizationID, &line.ProductID, &line.LocationType, &line.LocationID,
		&line.Quantity, &line.ReservedQuantity, &line.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Creación perezosa: la línea nace con el primer movimiento.
			return &entity.StockLine{
				OrganizationID: orgID,
				ProductID:      productID,
				LocationType:   loc.Type,
				LocationID:     loc.ID,
			}, nil
		}
		return nil, fmt.Errorf("get stock line: %w", err)
	}
	return &line, nil
}

// Upsert inserta o actualiza cantidades (por organización, producto y ubicación).
func (r *StockLineRepo) Upsert(ctx context.Context, line *entity.StockLine) error {
	query := `
		INSERT INTO stock_lines (organization_id, product_id, location_type, location_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (organization_id, product_id, location_type, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved_quantity = EXCLUDED.reserved_quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		line.OrganizationID, line.ProductID, string(line.LocationType), line.LocationID,
		line.Quantity, line.ReservedQuantity,
	)
	if err != nil {
		return fmt.Errorf("upsert stock line: %w", err)
	}
	return nil
}

// ListByOrganization devuelve el snapshot de líneas de la organización,
// opcionalmente filtrado por ubicación.
func (r *StockLineRepo) ListByOrganization(ctx context.Context, orgID string, loc *entity.LocationKey, limit, offset int) ([]*entity.StockLine, error) {
	query := `
		SELECT organization_id, product_id, location_type, location_id, quantity, reserved_quantity, updated_at
		FROM stock_lines WHERE organization_id = $1`
	args := []any{orgID}
	pos := 2
	if loc != nil {
		query += fmt.Sprintf(" AND location_type = $%d AND location_id = $%d", pos, pos+1)
		args = append(args, string(loc.Type), loc.ID)
		pos += 2
	}
	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLine
	for rows.Next() {
		var line entity.StockLine
		if err := rows.Scan(&line.OrganizationID, &line.ProductID, &line.LocationType, &line.LocationID,
			&line.Quantity, &line.ReservedQuantity, &line.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock line: %w", err)
		}
		list = append(list, &line)
	}
	return list, rows.Err()
}
