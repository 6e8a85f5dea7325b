package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.StockRequestRepository = (*StockRequestRepo)(nil)

// StockRequestRepo implementación de StockRequestRepository sobre PostgreSQL.
type StockRequestRepo struct {
	q Querier
}

// NewStockRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRequestRepository(q Querier) *StockRequestRepo {
	return &StockRequestRepo{q: q}
}

const requestColumns = `id, organization_id, product_id, type, quantity, status, urgency, from_type, from_id, to_type, to_id, reason, requested_by, approved_by, created_at, updated_at`

// Create persiste una solicitud nueva.
func (r *StockRequestRepo) Create(ctx context.Context, request *entity.StockRequest) error {
	query := `
		INSERT INTO stock_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		request.ID, request.OrganizationID, request.ProductID, string(request.Type),
		request.Quantity, string(request.Status), string(request.Urgency),
		string(request.FromType), request.FromID, string(request.ToType), request.ToID,
		request.Reason, request.RequestedBy, nullable(request.ApprovedBy),
		request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *StockRequestRepo) GetByID(ctx context.Context, id string) (*entity.StockRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM stock_requests WHERE id = $1`
	request, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock request: %w", err)
	}
	return request, nil
}

// Update actualiza estado, aprobador y timestamps de la solicitud.
func (r *StockRequestRepo) Update(ctx context.Context, request *entity.StockRequest) error {
	query := `
		UPDATE stock_requests
		SET status = $2, approved_by = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		request.ID, string(request.Status), nullable(request.ApprovedBy), request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock request: %w", err)
	}
	return nil
}

// ListByOrganization lista solicitudes de la organización, opcionalmente por estado.
func (r *StockRequestRepo) ListByOrganization(ctx context.Context, orgID string, status *entity.StockRequestStatus, limit, offset int) ([]*entity.StockRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM stock_requests WHERE organization_id = $1`
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
		return nil, fmt.Errorf("list stock requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock request: %w", err)
		}
		list = append(list, request)
	}
	return list, rows.Err()
}

func scanRequest(row pgx.Row) (*entity.StockRequest, error) {
	var req entity.StockRequest
	var approvedBy *string
	if err := row.Scan(
		&req.ID, &req.OrganizationID, &req.ProductID, &req.Type, &req.Quantity,
		&req.Status, &req.Urgency, &req.FromType, &req.FromID, &req.ToType, &req.ToID,
		&req.Reason, &req.RequestedBy, &approvedBy, &req.CreatedAt, &req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if approvedBy != nil {
		req.ApprovedBy = *approvedBy
	}
	return &req, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
