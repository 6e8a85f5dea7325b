package request_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/application/request"
	"github.com/tu-usuario/stock-ledger/internal/application/transfer"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/memory"
)

const (
	orgID       = "00000000-0000-0000-0000-00000000000a"
	productID   = "00000000-0000-0000-0000-000000000001"
	bodegaID    = "00000000-0000-0000-0000-000000000010"
	empleadoID  = "00000000-0000-0000-0000-000000000020"
	aprobadorID = "00000000-0000-0000-0000-000000000098"
	empleadoU   = "00000000-0000-0000-0000-000000000099"
)

var (
	bodega   = entity.LocationKey{Type: entity.LocationWarehouse, ID: bodegaID}
	empleado = entity.LocationKey{Type: entity.LocationEmployee, ID: empleadoID}
)

func newRequestUC(t *testing.T) (*request.UseCase, *ledger.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: productID, OrganizationID: orgID, SKU: "SKU-001", Name: "Tornillo 3/4"})
	store.AddLocation(entity.Location{ID: bodegaID, OrganizationID: orgID, Type: entity.LocationWarehouse, Name: "Bodega Central"})
	store.AddLocation(entity.Location{ID: empleadoID, OrganizationID: orgID, Type: entity.LocationEmployee, Name: "Stock Técnico 1"})
	store.AddMembership(entity.Membership{
		UserID:         aprobadorID,
		OrganizationID: orgID,
		Active:         true,
		Permissions:    map[string]bool{entity.PermManageStock: true},
	})
	store.AddMembership(entity.Membership{
		UserID:         empleadoU,
		OrganizationID: orgID,
		Active:         true,
		Permissions:    map[string]bool{entity.PermViewReports: true},
	})
	svc := ledger.NewService(
		store, store.Lines(), store.MovementLog(), store.Products(), store.Locations(),
		time.Millisecond,
	)
	coordinator := transfer.NewCoordinator(store, svc)
	return request.NewUseCase(store.Requests(), store.Memberships(), coordinator), svc, store
}

func createRequest(t *testing.T, uc *request.UseCase, qty int64) *entity.StockRequest {
	t.Helper()
	req, err := uc.Create(context.Background(), request.CreateInput{
		OrganizationID: orgID,
		ProductID:      productID,
		Type:           entity.RequestIN,
		Quantity:       qty,
		From:           bodega,
		To:             empleado,
		Reason:         "herramienta para instalación",
		RequestedBy:    empleadoU,
	})
	require.NoError(t, err)
	require.Equal(t, entity.RequestPending, req.Status)
	return req
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_SolicitudPendienteConUrgenciaPorDefecto(t *testing.T) {
	uc, svc, _ := newRequestUC(t)

	req := createRequest(t, uc, 3)

	assert.Equal(t, entity.UrgencyNormal, req.Urgency)
	assert.Equal(t, entity.RequestPending, req.Status)

	// Crear la solicitud no reserva ni mueve cantidad.
	line, err := svc.GetQuantity(context.Background(), orgID, productID, bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(0), line.ReservedQuantity)
}

func TestCreate_TipoINExigeBodegaHaciaEmpleado(t *testing.T) {
	uc, _, _ := newRequestUC(t)

	_, err := uc.Create(context.Background(), request.CreateInput{
		OrganizationID: orgID,
		ProductID:      productID,
		Type:           entity.RequestIN,
		Quantity:       1,
		From:           empleado,
		To:             bodega,
		RequestedBy:    empleadoU,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "IN va de bodega a stock personal")
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve
// ──────────────────────────────────────────────────────────────────────────────

// Aprobación exitosa: ejecuta el transfer y la solicitud termina COMPLETED.
func TestApprove_EjecutaElTransferYCompleta(t *testing.T) {
	uc, svc, store := newRequestUC(t)
	ctx := context.Background()
	store.SeedLine(entity.StockLine{
		OrganizationID: orgID, ProductID: productID,
		LocationType: bodega.Type, LocationID: bodega.ID, Quantity: 10,
	})
	req := createRequest(t, uc, 3)

	approved, err := uc.Approve(ctx, orgID, req.ID, aprobadorID)
	require.NoError(t, err)

	assert.Equal(t, entity.RequestCompleted, approved.Status)
	assert.Equal(t, aprobadorID, approved.ApprovedBy)

	from, err := svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err)
	to, err := svc.GetQuantity(ctx, orgID, productID, empleado)
	require.NoError(t, err)
	assert.Equal(t, int64(7), from.Quantity)
	assert.Equal(t, int64(3), to.Quantity)
}

// Si el transfer falla por stock insuficiente, la aprobación queda registrada
// (APPROVED, no COMPLETED) y el error llega al caller.
func TestApprove_StockInsuficiente_QuedaAprobadaSinEjecutar(t *testing.T) {
	uc, svc, store := newRequestUC(t)
	ctx := context.Background()
	store.SeedLine(entity.StockLine{
		OrganizationID: orgID, ProductID: productID,
		LocationType: bodega.Type, LocationID: bodega.ID, Quantity: 1,
	})
	req := createRequest(t, uc, 5)

	returned, err := uc.Approve(ctx, orgID, req.ID, aprobadorID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	require.NotNil(t, returned)
	assert.Equal(t, entity.RequestApproved, returned.Status)

	// Nada se movió.
	from, err2 := svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err2)
	assert.Equal(t, int64(1), from.Quantity)

	persisted, err2 := store.Requests().GetByID(ctx, req.ID)
	require.NoError(t, err2)
	assert.Equal(t, entity.RequestApproved, persisted.Status, "la aprobación persiste aunque falle la ejecución")
}

// Una solicitud APPROVED con el transfer pendiente puede reintentarse cuando
// vuelve a haber stock.
func TestApprove_ReintentoTrasReponerStock(t *testing.T) {
	uc, svc, store := newRequestUC(t)
	ctx := context.Background()
	req := createRequest(t, uc, 5)

	_, err := uc.Approve(ctx, orgID, req.ID, aprobadorID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	store.SeedLine(entity.StockLine{
		OrganizationID: orgID, ProductID: productID,
		LocationType: bodega.Type, LocationID: bodega.ID, Quantity: 8,
	})

	retried, err := uc.Approve(ctx, orgID, req.ID, aprobadorID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestCompleted, retried.Status)

	to, err := svc.GetQuantity(ctx, orgID, productID, empleado)
	require.NoError(t, err)
	assert.Equal(t, int64(5), to.Quantity)
}

// updateFallaRepo envuelve el repositorio de solicitudes y falla el Update
// número failOn (contando desde 1); los demás pasan al repositorio real.
type updateFallaRepo struct {
	repository.StockRequestRepository
	updates int
	failOn  int
}

var errAlmacenamiento = errors.New("almacenamiento de solicitudes no disponible")

func (r *updateFallaRepo) Update(ctx context.Context, req *entity.StockRequest) error {
	r.updates++
	if r.updates == r.failOn {
		return errAlmacenamiento
	}
	return r.StockRequestRepository.Update(ctx, req)
}

// Si el transfer se ejecuta pero la escritura de COMPLETED falla, la solicitud
// queda APPROVED con el stock ya movido. El reintento de aprobación no debe
// volver a ejecutar el transfer: solo cerrar la solicitud.
func TestApprove_ReintentoTrasCierreFallido_NoDuplicaElTransfer(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: productID, OrganizationID: orgID, SKU: "SKU-001", Name: "Tornillo 3/4"})
	store.AddLocation(entity.Location{ID: bodegaID, OrganizationID: orgID, Type: entity.LocationWarehouse, Name: "Bodega Central"})
	store.AddLocation(entity.Location{ID: empleadoID, OrganizationID: orgID, Type: entity.LocationEmployee, Name: "Stock Técnico 1"})
	store.AddMembership(entity.Membership{
		UserID:         aprobadorID,
		OrganizationID: orgID,
		Active:         true,
		Permissions:    map[string]bool{entity.PermManageStock: true},
	})
	store.SeedLine(entity.StockLine{
		OrganizationID: orgID, ProductID: productID,
		LocationType: bodega.Type, LocationID: bodega.ID, Quantity: 20,
	})
	svc := ledger.NewService(
		store, store.Lines(), store.MovementLog(), store.Products(), store.Locations(),
		time.Millisecond,
	)
	coordinator := transfer.NewCoordinator(store, svc)
	// Update 1: PENDING -> APPROVED; Update 2: el cierre COMPLETED, que falla.
	reqRepo := &updateFallaRepo{StockRequestRepository: store.Requests(), failOn: 2}
	uc := request.NewUseCase(reqRepo, store.Memberships(), coordinator)

	req, err := uc.Create(ctx, request.CreateInput{
		OrganizationID: orgID,
		ProductID:      productID,
		Type:           entity.RequestIN,
		Quantity:       5,
		From:           bodega,
		To:             empleado,
		RequestedBy:    empleadoU,
	})
	require.NoError(t, err)

	_, err = uc.Approve(ctx, orgID, req.ID, aprobadorID)
	require.ErrorIs(t, err, errAlmacenamiento)

	// El transfer ya se aplicó y la solicitud quedó APPROVED.
	from, err := svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(15), from.Quantity)
	persisted, err := store.Requests().GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestApproved, persisted.Status)

	retried, err := uc.Approve(ctx, orgID, req.ID, aprobadorID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestCompleted, retried.Status)

	from, err = svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(15), from.Quantity,
		"una sola solicitud de 5 debe debitar la bodega una sola vez (20→15), no dos (20→10)")
	to, err := svc.GetQuantity(ctx, orgID, productID, empleado)
	require.NoError(t, err)
	assert.Equal(t, int64(5), to.Quantity)
	assert.Len(t, store.Movements(), 2, "solo el par débito/crédito original")
}

// Sin el permiso manage_stock no se puede aprobar, sin importar el estado.
func TestApprove_SinPermiso_Prohibido(t *testing.T) {
	uc, _, _ := newRequestUC(t)
	req := createRequest(t, uc, 1)

	_, err := uc.Approve(context.Background(), orgID, req.ID, empleadoU)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApprove_SolicitudRechazada_TransicionInvalida(t *testing.T) {
	uc, _, _ := newRequestUC(t)
	ctx := context.Background()
	req := createRequest(t, uc, 1)

	_, err := uc.Reject(ctx, orgID, req.ID, aprobadorID)
	require.NoError(t, err)

	_, err = uc.Approve(ctx, orgID, req.ID, aprobadorID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reject
// ──────────────────────────────────────────────────────────────────────────────

func TestReject_SoloPendientes(t *testing.T) {
	uc, _, store := newRequestUC(t)
	ctx := context.Background()
	store.SeedLine(entity.StockLine{
		OrganizationID: orgID, ProductID: productID,
		LocationType: bodega.Type, LocationID: bodega.ID, Quantity: 10,
	})
	req := createRequest(t, uc, 2)

	_, err := uc.Approve(ctx, orgID, req.ID, aprobadorID)
	require.NoError(t, err)

	_, err = uc.Reject(ctx, orgID, req.ID, aprobadorID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "una solicitud completada no puede rechazarse")
}

func TestReject_SinPermiso_Prohibido(t *testing.T) {
	uc, _, _ := newRequestUC(t)
	req := createRequest(t, uc, 1)

	_, err := uc.Reject(context.Background(), orgID, req.ID, empleadoU)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
