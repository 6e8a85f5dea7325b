package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del log de movimientos sobre PostgreSQL
// (usable con pool o tx). Append-only: no expone Update ni Delete.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, organization_id, product_id, location_type, location_id, type, quantity, remaining_qty, performed_by, reference, reason, created_at`

// Create persiste un movimiento. El índice único sobre
// (organization_id, reference, location_type, location_id) respalda la
// idempotencia por referencia; su violación se devuelve como ErrDuplicateReference.
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	reference := (*string)(nil)
	if movement.Reference != "" {
		reference = &movement.Reference
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.OrganizationID, movement.ProductID,
		string(movement.LocationType), movement.LocationID, string(movement.Type),
		movement.Quantity, movement.RemainingQty, movement.PerformedBy,
		reference, movement.Reason, movement.CreatedAt,
	)
	if err != nil {
		if isDuplicateReference(err) {
			return domain.ErrDuplicateReference
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	movement, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return movement, nil
}

// ExistsByReference indica si ya existe un movimiento con esa referencia en la
// organización (chequeo de idempotencia).
func (r *StockMovementRepo) ExistsByReference(ctx context.Context, orgID, reference string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM stock_movements WHERE organization_id = $1 AND reference = $2)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, orgID, reference).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists by reference: %w", err)
	}
	return exists, nil
}

// ListByLocation lista movimientos de una ubicación en un rango de fechas.
func (r *StockMovementRepo) ListByLocation(ctx context.Context, orgID string, loc entity.LocationKey, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE organization_id = $1 AND location_type = $2 AND location_id = $3`
	args := []any{orgID, string(loc.Type), loc.ID}
	return r.list(ctx, query, args, from, to, limit, offset)
}

// ListByProduct lista movimientos de un producto en un rango de fechas.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, orgID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE organization_id = $1 AND product_id = $2`
	args := []any{orgID, productID}
	return r.list(ctx, query, args, from, to, limit, offset)
}

func (r *StockMovementRepo) list(ctx context.Context, query string, args []any, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	pos := len(args) + 1
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, movement)
	}
	return list, rows.Err()
}

// SumByLine devuelve la suma de cantidades firmadas de los movimientos de la línea.
func (r *StockMovementRepo) SumByLine(ctx context.Context, orgID, productID string, loc entity.LocationKey) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements
		WHERE organization_id = $1 AND product_id = $2 AND location_type = $3 AND location_id = $4`
	var sum int64
	if err := r.q.QueryRow(ctx, query, orgID, productID, string(loc.Type), loc.ID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var reference *string
	if err := row.Scan(
		&m.ID, &m.OrganizationID, &m.ProductID, &m.LocationType, &m.LocationID,
		&m.Type, &m.Quantity, &m.RemainingQty, &m.PerformedBy, &reference,
		&m.Reason, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	if reference != nil {
		m.Reference = *reference
	}
	return &m, nil
}
