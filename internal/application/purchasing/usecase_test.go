package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/application/purchasing"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/memory"
)

const (
	orgID      = "00000000-0000-0000-0000-00000000000a"
	productID  = "00000000-0000-0000-0000-000000000001"
	bodegaID   = "00000000-0000-0000-0000-000000000010"
	supplierID = "00000000-0000-0000-0000-000000000050"
	usuarioID  = "00000000-0000-0000-0000-000000000099"
)

var bodega = entity.LocationKey{Type: entity.LocationWarehouse, ID: bodegaID}

func newPurchasing(t *testing.T) (*purchasing.UseCase, *ledger.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: productID, OrganizationID: orgID, SKU: "SKU-001", Name: "Tornillo 3/4"})
	store.AddLocation(entity.Location{ID: bodegaID, OrganizationID: orgID, Type: entity.LocationWarehouse, Name: "Bodega Central"})
	svc := ledger.NewService(
		store, store.Lines(), store.MovementLog(), store.Products(), store.Locations(),
		time.Millisecond,
	)
	uc := purchasing.NewUseCase(store, store.Orders(), store.Products(), store.Locations(), svc)
	return uc, svc, store
}

// createOrder crea una orden DRAFT con una línea de 10 unidades y la lleva al
// estado pedido.
func createOrder(t *testing.T, uc *purchasing.UseCase, status entity.PurchaseOrderStatus) *entity.PurchaseOrder {
	t.Helper()
	ctx := context.Background()
	order, err := uc.Create(ctx, purchasing.CreateInput{
		OrganizationID: orgID,
		SupplierID:     supplierID,
		WarehouseID:    bodegaID,
		Lines: []purchasing.LineInput{
			{ProductID: productID, Quantity: 10, UnitPrice: decimal.NewFromFloat(2.50)},
		},
		CreatedBy: usuarioID,
	})
	require.NoError(t, err)
	require.Equal(t, entity.POStatusDraft, order.Status)

	if status == entity.POStatusDraft {
		return order
	}
	order, err = uc.Send(ctx, orgID, order.ID)
	require.NoError(t, err)
	if status == entity.POStatusSent {
		return order
	}
	order, err = uc.Confirm(ctx, orgID, order.ID)
	require.NoError(t, err)
	require.Equal(t, status, order.Status)
	return order
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_OrdenEnDraftConTotal(t *testing.T) {
	uc, _, _ := newPurchasing(t)

	order := createOrder(t, uc, entity.POStatusDraft)

	assert.Equal(t, entity.POStatusDraft, order.Status)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Total().Equal(decimal.NewFromFloat(25.00)), "total = 10 x 2.50")
}

func TestCreate_BodegaDeOtroTipo_LocationMismatch(t *testing.T) {
	uc, _, store := newPurchasing(t)
	tiendaID := "00000000-0000-0000-0000-000000000011"
	store.AddLocation(entity.Location{ID: tiendaID, OrganizationID: orgID, Type: entity.LocationStore, Name: "Tienda"})

	_, err := uc.Create(context.Background(), purchasing.CreateInput{
		OrganizationID: orgID,
		SupplierID:     supplierID,
		WarehouseID:    tiendaID,
		Lines:          []purchasing.LineInput{{ProductID: productID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrLocationMismatch, "las órdenes solo reciben en bodegas")
}

// La máquina de estados solo admite DRAFT -> SENT -> CONFIRMED -> RECEIVED,
// con CANCELLED desde cualquier estado no terminal.
func TestTransiciones_SaltosInvalidosRechazados(t *testing.T) {
	uc, _, _ := newPurchasing(t)
	ctx := context.Background()

	order := createOrder(t, uc, entity.POStatusDraft)

	// DRAFT no puede confirmarse directo.
	_, err := uc.Confirm(ctx, orgID, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// DRAFT -> SENT -> CONFIRMED sí.
	_, err = uc.Send(ctx, orgID, order.ID)
	require.NoError(t, err)
	_, err = uc.Confirm(ctx, orgID, order.ID)
	require.NoError(t, err)

	// CONFIRMED no puede reenviarse.
	_, err = uc.Send(ctx, orgID, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel_DesdeEstadoNoTerminal(t *testing.T) {
	uc, _, _ := newPurchasing(t)
	ctx := context.Background()

	order := createOrder(t, uc, entity.POStatusSent)
	cancelled, err := uc.Cancel(ctx, orgID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusCancelled, cancelled.Status)

	// Cancelada es terminal.
	_, err = uc.Send(ctx, orgID, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestGetByID_OrdenDeOtraOrganizacion_Prohibida(t *testing.T) {
	uc, _, _ := newPurchasing(t)
	order := createOrder(t, uc, entity.POStatusDraft)

	_, err := uc.GetByID(context.Background(), "otra-org", order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepciones
// ──────────────────────────────────────────────────────────────────────────────

// Recepción parcial: el stock entra a la bodega, la línea registra lo recibido
// y la orden sigue abierta; al completar el resto pasa a RECEIVED.
func TestReceiveItems_ParcialYLuegoCompleta(t *testing.T) {
	uc, svc, _ := newPurchasing(t)
	ctx := context.Background()
	order := createOrder(t, uc, entity.POStatusConfirmed)
	itemID := order.Items[0].ID

	order, err := uc.ReceiveItems(ctx, orgID, order.ID, []purchasing.Receipt{
		{ItemID: itemID, ReceivedQty: 6, Reference: "recepcion-001"},
	}, usuarioID)
	require.NoError(t, err)

	assert.Equal(t, entity.POStatusConfirmed, order.Status, "parcial: la orden sigue abierta")
	assert.True(t, order.PartiallyReceived())
	assert.Equal(t, int64(6), order.Items[0].ReceivedQty)

	line, err := svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(6), line.Quantity, "lo recibido entra a la bodega")

	order, err = uc.ReceiveItems(ctx, orgID, order.ID, []purchasing.Receipt{
		{ItemID: itemID, ReceivedQty: 4, Reference: "recepcion-002"},
	}, usuarioID)
	require.NoError(t, err)

	assert.Equal(t, entity.POStatusReceived, order.Status, "todo recibido: la orden cierra")
	line, err = svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(10), line.Quantity)
}

// Sobre-recepción: recibir más de lo ordenado (acumulado) se rechaza sin tocar
// el stock.
func TestReceiveItems_SobreRecepcion_Rechazada(t *testing.T) {
	uc, svc, store := newPurchasing(t)
	ctx := context.Background()
	order := createOrder(t, uc, entity.POStatusSent)
	itemID := order.Items[0].ID

	_, err := uc.ReceiveItems(ctx, orgID, order.ID, []purchasing.Receipt{
		{ItemID: itemID, ReceivedQty: 7, Reference: "recepcion-001"},
	}, usuarioID)
	require.NoError(t, err)

	_, err = uc.ReceiveItems(ctx, orgID, order.ID, []purchasing.Receipt{
		{ItemID: itemID, ReceivedQty: 5, Reference: "recepcion-002"},
	}, usuarioID)
	assert.ErrorIs(t, err, domain.ErrOverReceipt, "7 + 5 excede las 10 ordenadas")

	line, err := svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(7), line.Quantity, "el intento rechazado no entra al stock")
	assert.Len(t, store.Movements(), 1)
}

// Idempotencia: reprocesar el mismo receipt (misma referencia) devuelve error
// de duplicado y no vuelve a ingresar stock.
func TestReceiveItems_ReferenciaRepetida_NoDuplicaStock(t *testing.T) {
	uc, svc, store := newPurchasing(t)
	ctx := context.Background()
	order := createOrder(t, uc, entity.POStatusSent)
	itemID := order.Items[0].ID

	receipt := []purchasing.Receipt{{ItemID: itemID, ReceivedQty: 4, Reference: "recepcion-001"}}
	_, err := uc.ReceiveItems(ctx, orgID, order.ID, receipt, usuarioID)
	require.NoError(t, err)

	_, err = uc.ReceiveItems(ctx, orgID, order.ID, receipt, usuarioID)
	assert.ErrorIs(t, err, domain.ErrDuplicateReference)

	line, err := svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(4), line.Quantity)
	assert.Len(t, store.Movements(), 1)

	fresh, err := uc.GetByID(ctx, orgID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), fresh.Items[0].ReceivedQty, "lo recibido tampoco se duplica")
}

// Las recepciones solo proceden con la orden SENT o CONFIRMED.
func TestReceiveItems_OrdenEnDraft_Rechazada(t *testing.T) {
	uc, _, _ := newPurchasing(t)
	order := createOrder(t, uc, entity.POStatusDraft)

	_, err := uc.ReceiveItems(context.Background(), orgID, order.ID, []purchasing.Receipt{
		{ItemID: order.Items[0].ID, ReceivedQty: 1, Reference: "recepcion-001"},
	}, usuarioID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Toda recepción lleva referencia; sin ella no hay idempotencia posible.
func TestReceiveItems_SinReferencia_EsInvalida(t *testing.T) {
	uc, _, _ := newPurchasing(t)
	order := createOrder(t, uc, entity.POStatusSent)

	_, err := uc.ReceiveItems(context.Background(), orgID, order.ID, []purchasing.Receipt{
		{ItemID: order.Items[0].ID, ReceivedQty: 1, Reference: ""},
	}, usuarioID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Si un receipt del lote falla, ninguno del lote queda aplicado.
func TestReceiveItems_LoteAtomico(t *testing.T) {
	uc, svc, store := newPurchasing(t)
	ctx := context.Background()
	order := createOrder(t, uc, entity.POStatusSent)
	itemID := order.Items[0].ID

	_, err := uc.ReceiveItems(ctx, orgID, order.ID, []purchasing.Receipt{
		{ItemID: itemID, ReceivedQty: 6, Reference: "recepcion-001"},
		{ItemID: itemID, ReceivedQty: 6, Reference: "recepcion-002"}, // excede lo ordenado
	}, usuarioID)
	assert.ErrorIs(t, err, domain.ErrOverReceipt)

	line, err := svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(0), line.Quantity, "el primer receipt del lote también se revierte")
	assert.Empty(t, store.Movements())

	fresh, err := uc.GetByID(ctx, orgID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fresh.Items[0].ReceivedQty)
}
