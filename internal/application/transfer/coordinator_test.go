package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/application/transfer"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/memory"
)

const (
	orgID     = "00000000-0000-0000-0000-00000000000a"
	productID = "00000000-0000-0000-0000-000000000001"
	bodegaID  = "00000000-0000-0000-0000-000000000010"
	tiendaID  = "00000000-0000-0000-0000-000000000011"
	usuarioID = "00000000-0000-0000-0000-000000000099"
)

var (
	bodega = entity.LocationKey{Type: entity.LocationWarehouse, ID: bodegaID}
	tienda = entity.LocationKey{Type: entity.LocationStore, ID: tiendaID}
)

func newCoordinator(t *testing.T) (*transfer.Coordinator, *ledger.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: productID, OrganizationID: orgID, SKU: "SKU-001", Name: "Tornillo 3/4"})
	store.AddLocation(entity.Location{ID: bodegaID, OrganizationID: orgID, Type: entity.LocationWarehouse, Name: "Bodega Central"})
	store.AddLocation(entity.Location{ID: tiendaID, OrganizationID: orgID, Type: entity.LocationStore, Name: "Tienda Norte"})
	svc := ledger.NewService(
		store, store.Lines(), store.MovementLog(), store.Products(), store.Locations(),
		time.Millisecond,
	)
	return transfer.NewCoordinator(store, svc), svc, store
}

func seedLine(store *memory.Store, loc entity.LocationKey, qty int64) {
	store.SeedLine(entity.StockLine{
		OrganizationID: orgID,
		ProductID:      productID,
		LocationType:   loc.Type,
		LocationID:     loc.ID,
		Quantity:       qty,
	})
}

// Escenario básico: A tiene 10, B tiene 0; transferir 4 deja A=6 y B=4, con dos
// movimientos TRANSFER ligados por la misma referencia.
func TestTransfer_MueveCantidadEntreUbicaciones(t *testing.T) {
	coordinator, svc, store := newCoordinator(t)
	seedLine(store, bodega, 10)
	ctx := context.Background()

	result, err := coordinator.Transfer(ctx, transfer.Input{
		OrganizationID: orgID,
		ProductID:      productID,
		From:           bodega,
		To:             tienda,
		Quantity:       4,
		PerformedBy:    usuarioID,
	})
	require.NoError(t, err)

	from, err := svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err)
	to, err := svc.GetQuantity(ctx, orgID, productID, tienda)
	require.NoError(t, err)
	assert.Equal(t, int64(6), from.Quantity)
	assert.Equal(t, int64(4), to.Quantity)

	// El par queda ligado: misma referencia, tipos TRANSFER, deltas opuestos.
	require.NotNil(t, result.FromMovement)
	require.NotNil(t, result.ToMovement)
	assert.NotEmpty(t, result.FromMovement.Reference)
	assert.Equal(t, result.FromMovement.Reference, result.ToMovement.Reference)
	assert.Equal(t, entity.MovementTRANSFER, result.FromMovement.Type)
	assert.Equal(t, entity.MovementTRANSFER, result.ToMovement.Type)
	assert.Equal(t, int64(-4), result.FromMovement.Quantity)
	assert.Equal(t, int64(4), result.ToMovement.Quantity)
}

// Atomicidad: si el débito falla por stock insuficiente, el destino no recibe
// nada y el log queda intacto.
func TestTransfer_StockInsuficiente_NoDejaEfectosParciales(t *testing.T) {
	coordinator, svc, store := newCoordinator(t)
	seedLine(store, bodega, 3)
	seedLine(store, tienda, 7)
	ctx := context.Background()

	_, err := coordinator.Transfer(ctx, transfer.Input{
		OrganizationID: orgID,
		ProductID:      productID,
		From:           bodega,
		To:             tienda,
		Quantity:       5,
		PerformedBy:    usuarioID,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	from, err := svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err)
	to, err := svc.GetQuantity(ctx, orgID, productID, tienda)
	require.NoError(t, err)
	assert.Equal(t, int64(3), from.Quantity, "el origen no debe cambiar")
	assert.Equal(t, int64(7), to.Quantity, "el destino no debe cambiar")
	assert.Empty(t, store.Movements(), "no debe quedar ningún movimiento del intento")
}

// La cantidad transferida puede vaciar el origen pero nunca dejarlo negativo.
func TestTransfer_VaciaElOrigenExacto(t *testing.T) {
	coordinator, svc, store := newCoordinator(t)
	seedLine(store, bodega, 5)
	ctx := context.Background()

	_, err := coordinator.Transfer(ctx, transfer.Input{
		OrganizationID: orgID,
		ProductID:      productID,
		From:           bodega,
		To:             tienda,
		Quantity:       5,
		PerformedBy:    usuarioID,
	})
	require.NoError(t, err)

	from, err := svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(0), from.Quantity)
}

func TestTransfer_MismaUbicacion_EsInvalido(t *testing.T) {
	coordinator, _, store := newCoordinator(t)
	seedLine(store, bodega, 10)

	_, err := coordinator.Transfer(context.Background(), transfer.Input{
		OrganizationID: orgID,
		ProductID:      productID,
		From:           bodega,
		To:             bodega,
		Quantity:       1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransfer_CantidadNoPositiva_EsInvalida(t *testing.T) {
	coordinator, _, _ := newCoordinator(t)

	for _, qty := range []int64{0, -3} {
		_, err := coordinator.Transfer(context.Background(), transfer.Input{
			OrganizationID: orgID,
			ProductID:      productID,
			From:           bodega,
			To:             tienda,
			Quantity:       qty,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad %d", qty)
	}
}

// Un destino de otra organización se rechaza en el borde.
func TestTransfer_UbicacionAjena_Rechazada(t *testing.T) {
	coordinator, _, store := newCoordinator(t)
	ajenaID := "00000000-0000-0000-0000-0000000000ee"
	store.AddLocation(entity.Location{
		ID:             ajenaID,
		OrganizationID: "otra-org",
		Type:           entity.LocationStore,
		Name:           "Tienda Ajena",
	})
	seedLine(store, bodega, 10)

	_, err := coordinator.Transfer(context.Background(), transfer.Input{
		OrganizationID: orgID,
		ProductID:      productID,
		From:           bodega,
		To:             entity.LocationKey{Type: entity.LocationStore, ID: ajenaID},
		Quantity:       1,
	})
	assert.ErrorIs(t, err, domain.ErrLocationMismatch)
}

// La referencia provista por el caller se propaga a ambos movimientos y se
// preserva la suma total del producto a través de las ubicaciones.
func TestTransfer_ConservaLaCantidadTotal(t *testing.T) {
	coordinator, _, store := newCoordinator(t)
	seedLine(store, bodega, 12)
	seedLine(store, tienda, 8)
	ctx := context.Background()

	_, err := coordinator.Transfer(ctx, transfer.Input{
		OrganizationID: orgID,
		ProductID:      productID,
		From:           bodega,
		To:             tienda,
		Quantity:       9,
		Reference:      "traslado-042",
	})
	require.NoError(t, err)

	var total int64
	lines, err := store.Lines().ListByOrganization(ctx, orgID, nil, 100, 0)
	require.NoError(t, err)
	for _, line := range lines {
		total += line.Quantity
	}
	assert.Equal(t, int64(20), total, "transferir nunca crea ni destruye cantidad")

	for _, m := range store.Movements() {
		assert.Equal(t, "traslado-042", m.Reference)
	}
}

// Una referencia del caller es llave de idempotencia: repetir el mismo transfer
// se rechaza con ErrDuplicateReference y el stock no se toca de nuevo.
func TestTransfer_ReferenciaRepetida_NoSeAplicaDosVeces(t *testing.T) {
	coordinator, svc, store := newCoordinator(t)
	seedLine(store, bodega, 10)
	ctx := context.Background()

	input := transfer.Input{
		OrganizationID: orgID,
		ProductID:      productID,
		From:           bodega,
		To:             tienda,
		Quantity:       4,
		PerformedBy:    usuarioID,
		Reference:      "traslado-007",
	}
	_, err := coordinator.Transfer(ctx, input)
	require.NoError(t, err)

	_, err = coordinator.Transfer(ctx, input)
	assert.ErrorIs(t, err, domain.ErrDuplicateReference)

	from, err := svc.GetQuantity(ctx, orgID, productID, bodega)
	require.NoError(t, err)
	to, err := svc.GetQuantity(ctx, orgID, productID, tienda)
	require.NoError(t, err)
	assert.Equal(t, int64(6), from.Quantity)
	assert.Equal(t, int64(4), to.Quantity)
	assert.Len(t, store.Movements(), 2, "el reintento no agrega movimientos")
}
