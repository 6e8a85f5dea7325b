package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/memory"
)

// La iteración de mapas en Go es aleatoria; los listados deben ordenar antes de
// paginar para que dos llamadas consecutivas vean las mismas páginas.
func TestListByOrganization_PaginacionEstable(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Requests().Create(ctx, &entity.StockRequest{
			ID:             fmt.Sprintf("solicitud-%d", i),
			OrganizationID: "org-1",
			Status:         entity.RequestPending,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}))
	}

	var ids []string
	for offset := 0; offset < 5; offset += 2 {
		page, err := store.Requests().ListByOrganization(ctx, "org-1", nil, 2, offset)
		require.NoError(t, err)
		for _, req := range page {
			ids = append(ids, req.ID)
		}
	}

	// Más reciente primero, sin huecos ni solapes entre páginas.
	assert.Equal(t, []string{"solicitud-4", "solicitud-3", "solicitud-2", "solicitud-1", "solicitud-0"}, ids)

	primera, err := store.Requests().ListByOrganization(ctx, "org-1", nil, 2, 0)
	require.NoError(t, err)
	repetida, err := store.Requests().ListByOrganization(ctx, "org-1", nil, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, primera, repetida, "la misma consulta devuelve la misma página")
}

func TestListByOrganization_LineasConOrdenDeterminista(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed := func(productID string, loc entity.LocationKey, qty int64) {
		store.SeedLine(entity.StockLine{
			OrganizationID: "org-1", ProductID: productID,
			LocationType: loc.Type, LocationID: loc.ID, Quantity: qty,
		})
	}
	bodega := entity.LocationKey{Type: entity.LocationWarehouse, ID: "b-1"}
	tienda := entity.LocationKey{Type: entity.LocationStore, ID: "t-1"}
	seed("producto-2", bodega, 3)
	seed("producto-1", bodega, 1)
	seed("producto-1", tienda, 2)

	lines, err := store.Lines().ListByOrganization(ctx, "org-1", nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "producto-1", lines[0].ProductID)
	assert.Equal(t, entity.LocationStore, lines[0].LocationType, "mismo producto: desempata por clave de ubicación")
	assert.Equal(t, "producto-1", lines[1].ProductID)
	assert.Equal(t, entity.LocationWarehouse, lines[1].LocationType)
	assert.Equal(t, "producto-2", lines[2].ProductID)
}
