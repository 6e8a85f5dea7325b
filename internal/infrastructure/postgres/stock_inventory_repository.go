package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.StockInventoryRepository = (*StockInventoryRepo)(nil)

// StockInventoryRepo implementación de StockInventoryRepository sobre PostgreSQL.
type StockInventoryRepo struct {
	q Querier
}

// NewStockInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockInventoryRepository(q Querier) *StockInventoryRepo {
	return &StockInventoryRepo{q: q}
}

const inventoryColumns = `id, organization_id, product_id, warehouse_id, expected_qty, actual_qty, difference, status, scheduled_date, notes, created_by, completed_by, created_at, updated_at`

// Create persiste un conteo programado.
func (r *StockInventoryRepo) Create(ctx context.Context, inventory *entity.StockInventory) error {
	query := `
		INSERT INTO stock_inventories (` + inventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		inventory.ID, inventory.OrganizationID, inventory.ProductID, nullable(inventory.WarehouseID),
		inventory.ExpectedQty, inventory.ActualQty, inventory.Difference, string(inventory.Status),
		inventory.ScheduledDate, inventory.Notes, inventory.CreatedBy,
		nullable(inventory.CompletedBy), inventory.CreatedAt, inventory.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock inventory: %w", err)
	}
	return nil
}

// GetByID obtiene un conteo por ID.
func (r *StockInventoryRepo) GetByID(ctx context.Context, id string) (*entity.StockInventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM stock_inventories WHERE id = $1`
	inventory, err := scanInventory(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock inventory: %w", err)
	}
	return inventory, nil
}

// Update actualiza el resultado y estado del conteo.
func (r *StockInventoryRepo) Update(ctx context.Context, inventory *entity.StockInventory) error {
	query := `
		UPDATE stock_inventories
		SET actual_qty = $2, difference = $3, status = $4, notes = $5, completed_by = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		inventory.ID, inventory.ActualQty, inventory.Difference, string(inventory.Status),
		inventory.Notes, nullable(inventory.CompletedBy), inventory.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock inventory: %w", err)
	}
	return nil
}

// ListByOrganization lista conteos de la organización, opcionalmente por estado.
func (r *StockInventoryRepo) ListByOrganization(ctx context.Context, orgID string, status *entity.StockInventoryStatus, limit, offset int) ([]*entity.StockInventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM stock_inventories WHERE organization_id = $1`
	args := []any{orgID}
	pos := 2
	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, string(*status))
		pos++
	}
	query += fmt.Sprintf(" ORDER BY scheduled_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock inventories: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockInventory
	for rows.Next() {
		inventory, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock inventory: %w", err)
		}
		list = append(list, inventory)
	}
	return list, rows.Err()
}

func scanInventory(row pgx.Row) (*entity.StockInventory, error) {
	var inv entity.StockInventory
	var warehouseID, completedBy *string
	if err := row.Scan(
		&inv.ID, &inv.OrganizationID, &inv.ProductID, &warehouseID,
		&inv.ExpectedQty, &inv.ActualQty, &inv.Difference, &inv.Status,
		&inv.ScheduledDate, &inv.Notes, &inv.CreatedBy, &completedBy,
		&inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if warehouseID != nil {
		inv.WarehouseID = *warehouseID
	}
	if completedBy != nil {
		inv.CompletedBy = *completedBy
	}
	return &inv, nil
}
