package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL
// (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la orden con sus líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, order *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, organization_id, supplier_id, warehouse_id, status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.OrganizationID, order.SupplierID, order.WarehouseID,
		string(order.Status), order.Notes, order.CreatedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for _, item := range order.Items {
		itemQuery := `
			INSERT INTO purchase_order_items (id, order_id, product_id, quantity, received_qty, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)`
		_, err := r.q.Exec(ctx, itemQuery,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.ReceivedQty, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate bloquea la cabecera (SELECT FOR UPDATE) y devuelve la orden
// con sus líneas; serializa recepciones concurrentes sobre la misma orden.
func (r *PurchaseOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, true)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, organization_id, supplier_id, warehouse_id, status, notes, created_by, created_at, updated_at
		FROM purchase_orders WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var o entity.PurchaseOrder
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.OrganizationID, &o.SupplierID, &o.WarehouseID, &o.Status,
		&o.Notes, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *PurchaseOrderRepo) listItems(ctx context.Context, orderID string) ([]*entity.PurchaseOrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, received_qty, unit_price
		FROM purchase_order_items WHERE order_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	var items []*entity.PurchaseOrderItem
	for rows.Next() {
		var item entity.PurchaseOrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.Quantity, &item.ReceivedQty, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// UpdateStatus actualiza el estado de la orden.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, id string, status entity.PurchaseOrderStatus) error {
	query := `UPDATE purchase_orders SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	return nil
}

// UpdateItemReceived actualiza la cantidad recibida de una línea.
func (r *PurchaseOrderRepo) UpdateItemReceived(ctx context.Context, itemID string, receivedQty int64) error {
	query := `UPDATE purchase_order_items SET received_qty = $2 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, itemID, receivedQty)
	if err != nil {
		return fmt.Errorf("update received qty: %w", err)
	}
	return nil
}

// ListByOrganization lista órdenes de la organización, opcionalmente por estado.
func (r *PurchaseOrderRepo) ListByOrganization(ctx context.Context, orgID string, status *entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT id, organization_id, supplier_id, warehouse_id, status, notes, created_by, created_at, updated_at
		FROM purchase_orders WHERE organization_id = $1`
	args := []any{orgID}
	pos := 2
	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, string(*status))
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var o entity.PurchaseOrder
		if err := rows.Scan(&o.ID, &o.OrganizationID, &o.SupplierID, &o.WarehouseID, &o.Status,
			&o.Notes, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		items, err := r.listItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return list, nil
}
