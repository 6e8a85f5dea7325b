package reporting_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/reporting"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/memory"
)

const (
	orgID    = "00000000-0000-0000-0000-00000000000a"
	bodegaID = "00000000-0000-0000-0000-000000000010"
)

var bodega = entity.LocationKey{Type: entity.LocationWarehouse, ID: bodegaID}

func newReporting(t *testing.T) (*reporting.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddLocation(entity.Location{ID: bodegaID, OrganizationID: orgID, Type: entity.LocationWarehouse, Name: "Bodega Central"})
	return reporting.NewUseCase(store.Lines(), store.Reports()), store
}

func addProduct(store *memory.Store, id, sku string, minStock int64, unitPrice string) {
	price, _ := decimal.NewFromString(unitPrice)
	store.AddProduct(entity.Product{
		ID:             id,
		OrganizationID: orgID,
		SKU:            sku,
		Name:           "Producto " + sku,
		MinStock:       minStock,
		UnitPrice:      price,
	})
}

func seedQty(store *memory.Store, productID string, qty int64) {
	store.SeedLine(entity.StockLine{
		OrganizationID: orgID,
		ProductID:      productID,
		LocationType:   bodega.Type,
		LocationID:     bodega.ID,
		Quantity:       qty,
	})
}

// Valorización: cantidad × precio unitario con redondeo a 2 decimales por línea
// y en el total.
func TestValuation_RedondeaADosDecimales(t *testing.T) {
	uc, store := newReporting(t)
	addProduct(store, "p1", "SKU-001", 0, "3.333")
	addProduct(store, "p2", "SKU-002", 0, "1.005")
	seedQty(store, "p1", 3)
	seedQty(store, "p2", 2)

	report, err := uc.Valuation(context.Background(), orgID, nil)
	require.NoError(t, err)
	require.Len(t, report.Lines, 2)

	// 3 x 3.333 = 9.999 -> 10.00 ; 2 x 1.005 = 2.01
	assert.True(t, report.Lines[0].Value.Equal(decimal.NewFromFloat(10.00)), "valor línea 1: %s", report.Lines[0].Value)
	assert.True(t, report.Lines[1].Value.Equal(decimal.NewFromFloat(2.01)), "valor línea 2: %s", report.Lines[1].Value)
	assert.True(t, report.TotalValue.Equal(decimal.NewFromFloat(12.01)), "total: %s", report.TotalValue)
}

// Las líneas sin cantidad no aparecen en la valorización.
func TestValuation_IgnoraLineasVacias(t *testing.T) {
	uc, store := newReporting(t)
	addProduct(store, "p1", "SKU-001", 0, "5.00")
	seedQty(store, "p1", 0)

	report, err := uc.Valuation(context.Background(), orgID, nil)
	require.NoError(t, err)
	assert.Empty(t, report.Lines)
	assert.True(t, report.TotalValue.IsZero())
}

// Alertas: por debajo del umbral es LOW_STOCK; sin existencias, OUT_OF_STOCK.
// El orden es de más crítico a menos crítico.
func TestLowStockAlerts_SeveridadYOrden(t *testing.T) {
	uc, store := newReporting(t)
	addProduct(store, "p1", "SKU-001", 10, "1.00") // 4 de 10 -> 40% LOW_STOCK
	addProduct(store, "p2", "SKU-002", 5, "1.00")  // 0 de 5 -> OUT_OF_STOCK
	addProduct(store, "p3", "SKU-003", 8, "1.00")  // 8 de 8 -> sin alerta
	seedQty(store, "p1", 4)
	seedQty(store, "p2", 0)
	seedQty(store, "p3", 8)

	alerts, err := uc.LowStockAlerts(context.Background(), orgID, nil)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	assert.Equal(t, "SKU-002", alerts[0].SKU, "el agotado va primero")
	assert.Equal(t, dto.AlertOutOfStock, alerts[0].Severity)
	assert.True(t, alerts[0].PercentageLeft.IsZero())

	assert.Equal(t, "SKU-001", alerts[1].SKU)
	assert.Equal(t, dto.AlertLowStock, alerts[1].Severity)
	assert.True(t, alerts[1].PercentageLeft.Equal(decimal.NewFromInt(40)), "porcentaje: %s", alerts[1].PercentageLeft)
}

func TestStockSnapshot_FiltraPorUbicacion(t *testing.T) {
	uc, store := newReporting(t)
	addProduct(store, "p1", "SKU-001", 0, "1.00")
	seedQty(store, "p1", 6)
	otra := entity.LocationKey{Type: entity.LocationStore, ID: "00000000-0000-0000-0000-000000000011"}
	store.SeedLine(entity.StockLine{
		OrganizationID: orgID, ProductID: "p1",
		LocationType: otra.Type, LocationID: otra.ID, Quantity: 2,
	})

	lines, err := uc.StockSnapshot(context.Background(), orgID, &bodega, 50, 0)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(6), lines[0].Quantity)
}
