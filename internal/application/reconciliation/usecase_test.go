package reconciliation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/application/reconciliation"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/memory"
)

const (
	orgID     = "00000000-0000-0000-0000-00000000000a"
	productID = "00000000-0000-0000-0000-000000000001"
	bodegaID  = "00000000-0000-0000-0000-000000000010"
	usuarioID = "00000000-0000-0000-0000-000000000099"
)

var bodega = entity.LocationKey{Type: entity.LocationWarehouse, ID: bodegaID}

func newReconciliation(t *testing.T) (*reconciliation.UseCase, *ledger.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: productID, OrganizationID: orgID, SKU: "SKU-001", Name: "Tornillo 3/4"})
	store.AddLocation(entity.Location{ID: bodegaID, OrganizationID: orgID, Type: entity.LocationWarehouse, Name: "Bodega Central"})
	svc := ledger.NewService(
		store, store.Lines(), store.MovementLog(), store.Products(), store.Locations(),
		time.Millisecond,
	)
	return reconciliation.NewUseCase(store, store.Inventories(), svc), svc, store
}

func schedule(t *testing.T, uc *reconciliation.UseCase, expected int64) *entity.StockInventory {
	t.Helper()
	inv, err := uc.Schedule(context.Background(), reconciliation.ScheduleInput{
		OrganizationID: orgID,
		ProductID:      productID,
		WarehouseID:    bodegaID,
		ExpectedQty:    expected,
		ScheduledDate:  time.Now().Add(24 * time.Hour),
		CreatedBy:      usuarioID,
	})
	require.NoError(t, err)
	require.Equal(t, entity.InventoryPending, inv.Status)
	return inv
}

// Conteo con faltante: esperado 10, contado 7. Se publica un movimiento
// ADJUSTMENT de -3 y la línea queda en 7.
func TestComplete_FaltantePublicaAjusteNegativo(t *testing.T) {
	uc, svc, store := newReconciliation(t)
	ctx := context.Background()
	store.SeedLine(entity.StockLine{
		OrganizationID: orgID, ProductID: productID,
		LocationType: bodega.Type, LocationID: bodega.ID, Quantity: 10,
	})
	inv := schedule(t, uc, 10)

	done, err := uc.Complete(ctx, orgID, inv.ID, 7, "faltan 3 en estantería", usuarioID)
	require.NoError(t, err)

	assert.Equal(t, entity.InventoryCompleted, done.Status)
	assert.Equal(t, int64(7), done.ActualQty)
	assert.Equal(t, int64(-3), done.Difference)

	line, err := svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(7), line.Quantity, "la línea queda en lo contado")

	movements := store.Movements()
	require.Len(t, movements, 1)
	assert.Equal(t, entity.MovementADJUSTMENT, movements[0].Type)
	assert.Equal(t, int64(-3), movements[0].Quantity)
	assert.Equal(t, "inventario "+inv.ID, movements[0].Reference)
}

// Conteo con sobrante: el ajuste es positivo.
func TestComplete_SobrantePublicaAjustePositivo(t *testing.T) {
	uc, svc, _ := newReconciliation(t)
	ctx := context.Background()
	inv := schedule(t, uc, 0)

	done, err := uc.Complete(ctx, orgID, inv.ID, 4, "aparecieron 4 sin registrar", usuarioID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), done.Difference)

	line, err := svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(4), line.Quantity)
}

// Diferencia cero: el conteo cierra COMPLETED sin publicar ningún movimiento.
func TestComplete_SinDiferencia_NoGeneraMovimiento(t *testing.T) {
	uc, _, store := newReconciliation(t)
	ctx := context.Background()
	store.SeedLine(entity.StockLine{
		OrganizationID: orgID, ProductID: productID,
		LocationType: bodega.Type, LocationID: bodega.ID, Quantity: 10,
	})
	inv := schedule(t, uc, 10)

	done, err := uc.Complete(ctx, orgID, inv.ID, 10, "", usuarioID)
	require.NoError(t, err)

	assert.Equal(t, entity.InventoryCompleted, done.Status)
	assert.Equal(t, int64(0), done.Difference)
	assert.Empty(t, store.Movements(), "diferencia cero no toca el ledger")
}

func TestComplete_ConteoYaCompletado_TransicionInvalida(t *testing.T) {
	uc, _, _ := newReconciliation(t)
	ctx := context.Background()
	inv := schedule(t, uc, 0)

	_, err := uc.Complete(ctx, orgID, inv.ID, 0, "", usuarioID)
	require.NoError(t, err)

	_, err = uc.Complete(ctx, orgID, inv.ID, 5, "", usuarioID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Un conteo sin bodega puede programarse, pero no completarse con diferencia:
// no habría dónde publicar el ajuste.
func TestComplete_DiferenciaSinBodega_EsInvalida(t *testing.T) {
	uc, _, _ := newReconciliation(t)
	ctx := context.Background()
	inv, err := uc.Schedule(ctx, reconciliation.ScheduleInput{
		OrganizationID: orgID,
		ProductID:      productID,
		ExpectedQty:    10,
		ScheduledDate:  time.Now(),
		CreatedBy:      usuarioID,
	})
	require.NoError(t, err)

	_, err = uc.Complete(ctx, orgID, inv.ID, 7, "", usuarioID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sin diferencia sí cierra.
	done, err := uc.Complete(ctx, orgID, inv.ID, 10, "", usuarioID)
	require.NoError(t, err)
	assert.Equal(t, entity.InventoryCompleted, done.Status)
}

func TestCancel_SoloPendientes(t *testing.T) {
	uc, _, _ := newReconciliation(t)
	ctx := context.Background()

	inv := schedule(t, uc, 5)
	cancelled, err := uc.Cancel(ctx, orgID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InventoryCancelled, cancelled.Status)

	_, err = uc.Cancel(ctx, orgID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = uc.Complete(ctx, orgID, inv.ID, 5, "", usuarioID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "un conteo cancelado no puede completarse")
}

func TestSchedule_BodegaAjena_Rechazada(t *testing.T) {
	uc, _, store := newReconciliation(t)
	ajenaID := "00000000-0000-0000-0000-0000000000ee"
	store.AddLocation(entity.Location{ID: ajenaID, OrganizationID: "otra-org", Type: entity.LocationWarehouse, Name: "Bodega Ajena"})

	_, err := uc.Schedule(context.Background(), reconciliation.ScheduleInput{
		OrganizationID: orgID,
		ProductID:      productID,
		WarehouseID:    ajenaID,
		ExpectedQty:    1,
		ScheduledDate:  time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrLocationMismatch)
}
