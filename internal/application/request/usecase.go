package request

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-ledger/internal/application/transfer"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// UseCase maneja el flujo de solicitudes de stock iniciadas por empleados.
// La aprobación ejecuta inmediatamente el transfer; aprobación y ejecución
// están desacopladas para que un faltante de stock no pierda la solicitud en
// silencio: si el transfer falla la solicitud queda APPROVED y el error se
// propaga al caller.
type UseCase struct {
	requestRepo    repository.StockRequestRepository
	membershipRepo repository.MembershipRepository
	coordinator    *transfer.Coordinator
}

// NewUseCase construye el caso de uso de solicitudes.
func NewUseCase(
	requestRepo repository.StockRequestRepository,
	membershipRepo repository.MembershipRepository,
	coordinator *transfer.Coordinator,
) *UseCase {
	return &UseCase{
		requestRepo:    requestRepo,
		membershipRepo: membershipRepo,
		coordinator:    coordinator,
	}
}

// CreateInput entrada para crear una solicitud.
// Para IN el destino debe ser el stock personal del solicitante y el origen una
// bodega; para OUT al revés; para TRANSFER el par es arbitrario.
type CreateInput struct {
	OrganizationID string
	ProductID      string
	Type           entity.StockRequestType
	Quantity       int64
	Urgency        entity.UrgencyLevel
	From           entity.LocationKey
	To             entity.LocationKey
	Reason         string
	RequestedBy    string
}

// Create crea una solicitud en estado PENDING.
func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*entity.StockRequest, error) {
	if input.OrganizationID == "" || input.ProductID == "" || input.RequestedBy == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.Type.Valid() || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.Urgency == "" {
		input.Urgency = entity.UrgencyNormal
	}
	if !input.Urgency.Valid() {
		return nil, domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.RequestIN:
		if input.From.Type != entity.LocationWarehouse || input.To.Type != entity.LocationEmployee {
			return nil, domain.ErrInvalidInput
		}
	case entity.RequestOUT:
		if input.From.Type != entity.LocationEmployee || input.To.Type != entity.LocationWarehouse {
			return nil, domain.ErrInvalidInput
		}
	case entity.RequestTRANSFER:
		if !input.From.Type.Valid() || !input.To.Type.Valid() {
			return nil, domain.ErrInvalidInput
		}
	}
	if input.From.ID == "" || input.To.ID == "" || input.From.Equal(input.To) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	req := &entity.StockRequest{
		ID:             uuid.New().String(),
		OrganizationID: input.OrganizationID,
		ProductID:      input.ProductID,
		Type:           input.Type,
		Quantity:       input.Quantity,
		Status:         entity.RequestPending,
		Urgency:        input.Urgency,
		FromType:       input.From.Type,
		FromID:         input.From.ID,
		ToType:         input.To.Type,
		ToID:           input.To.ID,
		Reason:         input.Reason,
		RequestedBy:    input.RequestedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Approve aprueba una solicitud PENDING y ejecuta el transfer subyacente.
// Requiere que el aprobador tenga el permiso manage_stock en la organización.
// Si el transfer falla (p.ej. stock insuficiente) la solicitud queda APPROVED,
// no COMPLETED, y el error se devuelve junto con la solicitud.
func (uc *UseCase) Approve(ctx context.Context, orgID, requestID, approverID string) (*entity.StockRequest, error) {
	if err := uc.authorize(ctx, approverID, orgID); err != nil {
		return nil, err
	}
	req, err := uc.load(ctx, orgID, requestID)
	if err != nil {
		return nil, err
	}
	// APPROVED se admite para reintentar la ejecución de un transfer que falló
	// en una aprobación anterior.
	if req.Status != entity.RequestPending && req.Status != entity.RequestApproved {
		return nil, domain.ErrInvalidTransition
	}

	if req.Status == entity.RequestPending {
		req.Status = entity.RequestApproved
		req.ApprovedBy = approverID
		req.UpdatedAt = time.Now()
		if err := uc.requestRepo.Update(ctx, req); err != nil {
			return nil, err
		}
	}

	_, err = uc.coordinator.Transfer(ctx, transfer.Input{
		OrganizationID: orgID,
		ProductID:      req.ProductID,
		From:           entity.LocationKey{Type: req.FromType, ID: req.FromID},
		To:             entity.LocationKey{Type: req.ToType, ID: req.ToID},
		Quantity:       req.Quantity,
		Reason:         req.Reason,
		PerformedBy:    approverID,
		// Referencia determinista: un reintento de aprobación nunca vuelve a
		// ejecutar un transfer que ya se aplicó.
		Reference: transferReference(req),
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateReference):
		// El transfer ya se ejecutó en una aprobación anterior cuyo cierre
		// falló; solo falta marcar la solicitud COMPLETED.
	case err != nil:
		// La aprobación ya quedó registrada; el faltante se informa al caller
		// para que la ejecución pueda reintentarse después.
		return req, err
	}

	req.Status = entity.RequestCompleted
	req.UpdatedAt = time.Now()
	if err := uc.requestRepo.Update(ctx, req); err != nil {
		return req, err
	}
	return req, nil
}

// Reject rechaza una solicitud PENDING. Las solicitudes no reservan cantidad al
// crearse, así que no hay nada que liberar.
func (uc *UseCase) Reject(ctx context.Context, orgID, requestID, approverID string) (*entity.StockRequest, error) {
	if err := uc.authorize(ctx, approverID, orgID); err != nil {
		return nil, err
	}
	req, err := uc.load(ctx, orgID, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != entity.RequestPending {
		return nil, domain.ErrInvalidTransition
	}
	req.Status = entity.RequestRejected
	req.ApprovedBy = approverID
	req.UpdatedAt = time.Now()
	if err := uc.requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// ListByOrganization lista solicitudes de la organización, opcionalmente por estado.
func (uc *UseCase) ListByOrganization(ctx context.Context, orgID string, status *entity.StockRequestStatus, limit, offset int) ([]*entity.StockRequest, error) {
	return uc.requestRepo.ListByOrganization(ctx, orgID, status, limit, offset)
}

func (uc *UseCase) authorize(ctx context.Context, userID, orgID string) error {
	membership, err := uc.membershipRepo.Resolve(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if !membership.Has(entity.PermManageStock) {
		return domain.ErrForbidden
	}
	return nil
}

// transferReference liga los movimientos del transfer a la solicitud que los
// originó y sirve de llave de idempotencia para los reintentos de aprobación.
func transferReference(req *entity.StockRequest) string {
	return "solicitud " + req.ID
}

func (uc *UseCase) load(ctx context.Context, orgID, requestID string) (*entity.StockRequest, error) {
	req, err := uc.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if req.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return req, nil
}
