package memory

import (
	"context"
	"sort"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// Reports devuelve el repositorio de consultas de reportes.
func (s *Store) Reports() repository.ReportRepository { return &reportRepo{s} }

type reportRepo struct{ s *Store }

func (r *reportRepo) StockValuation(_ context.Context, orgID string, loc *entity.LocationKey) ([]repository.ValuationRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []repository.ValuationRow
	for _, line := range r.s.lines {
		if line.OrganizationID != orgID || line.Quantity <= 0 {
			continue
		}
		if loc != nil && !line.Key().Equal(*loc) {
			continue
		}
		product, ok := r.s.products[line.ProductID]
		if !ok {
			continue
		}
		rows = append(rows, repository.ValuationRow{
			ProductID:    line.ProductID,
			SKU:          product.SKU,
			ProductName:  product.Name,
			LocationType: line.LocationType,
			LocationID:   line.LocationID,
			Quantity:     line.Quantity,
			UnitPrice:    product.UnitPrice,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SKU < rows[j].SKU })
	return rows, nil
}

func (r *reportRepo) LowStock(_ context.Context, orgID string, loc *entity.LocationKey) ([]repository.LowStockRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []repository.LowStockRow
	for _, product := range r.s.products {
		if product.OrganizationID != orgID || product.MinStock <= 0 {
			continue
		}
		var qty int64
		locType, locID := "", ""
		for _, line := range r.s.lines {
			if line.OrganizationID != orgID || line.ProductID != product.ID {
				continue
			}
			if loc != nil {
				if !line.Key().Equal(*loc) {
					continue
				}
				locType, locID = string(line.LocationType), line.LocationID
			}
			qty += line.Quantity
		}
		if loc != nil {
			locType, locID = string(loc.Type), loc.ID
		}
		if qty >= product.MinStock {
			continue
		}
		rows = append(rows, repository.LowStockRow{
			ProductID:    product.ID,
			SKU:          product.SKU,
			ProductName:  product.Name,
			LocationType: entity.LocationType(locType),
			LocationID:   locID,
			Quantity:     qty,
			MinStock:     product.MinStock,
			MaxStock:     product.MaxStock,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SKU < rows[j].SKU })
	return rows, nil
}
