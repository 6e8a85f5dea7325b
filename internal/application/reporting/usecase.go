package reporting

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// UseCase proyecciones de solo lectura sobre el ledger: snapshot de líneas,
// valorización y alertas de stock bajo. Nunca muta cantidades.
//
// Regla de redondeo única para todos los campos derivados: Round(2), aplicada
// solo aquí, nunca dentro del ledger.
type UseCase struct {
	lineRepo   repository.StockLineRepository
	reportRepo repository.ReportRepository
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(lineRepo repository.StockLineRepository, reportRepo repository.ReportRepository) *UseCase {
	return &UseCase{lineRepo: lineRepo, reportRepo: reportRepo}
}

// StockSnapshot devuelve el estado actual de las líneas de la organización,
// opcionalmente filtrado por ubicación.
func (uc *UseCase) StockSnapshot(ctx context.Context, orgID string, loc *entity.LocationKey, limit, offset int) ([]*entity.StockLine, error) {
	return uc.lineRepo.ListByOrganization(ctx, orgID, loc, limit, offset)
}

// Valuation devuelve la valorización del stock: cantidad × precio unitario por
// línea, más el total de la organización.
func (uc *UseCase) Valuation(ctx context.Context, orgID string, loc *entity.LocationKey) (*dto.ValuationReport, error) {
	rows, err := uc.reportRepo.StockValuation(ctx, orgID, loc)
	if err != nil {
		return nil, err
	}

	report := &dto.ValuationReport{Lines: make([]dto.ValuationLine, 0, len(rows))}
	total := decimal.Zero
	for _, row := range rows {
		value := decimal.NewFromInt(row.Quantity).Mul(row.UnitPrice).Round(2)
		total = total.Add(value)
		report.Lines = append(report.Lines, dto.ValuationLine{
			ProductID:    row.ProductID,
			SKU:          row.SKU,
			ProductName:  row.ProductName,
			LocationType: string(row.LocationType),
			LocationID:   row.LocationID,
			Quantity:     row.Quantity,
			UnitPrice:    row.UnitPrice,
			Value:        value,
		})
	}
	report.TotalValue = total.Round(2)
	return report, nil
}

// LowStockAlerts devuelve los productos agotados o por debajo de su umbral
// mínimo, con el porcentaje restante respecto al umbral (una sola regla de
// redondeo para todos los consumidores). Ordena los más críticos primero.
func (uc *UseCase) LowStockAlerts(ctx context.Context, orgID string, loc *entity.LocationKey) ([]dto.StockAlert, error) {
	rows, err := uc.reportRepo.LowStock(ctx, orgID, loc)
	if err != nil {
		return nil, err
	}

	hundred := decimal.NewFromInt(100)
	alerts := make([]dto.StockAlert, 0, len(rows))
	for _, row := range rows {
		var percentageLeft decimal.Decimal
		if row.MinStock > 0 {
			percentageLeft = decimal.NewFromInt(row.Quantity).
				Div(decimal.NewFromInt(row.MinStock)).
				Mul(hundred).Round(2)
		}
		severity := dto.AlertLowStock
		if row.Quantity <= 0 {
			severity = dto.AlertOutOfStock
		}
		alerts = append(alerts, dto.StockAlert{
			ProductID:      row.ProductID,
			SKU:            row.SKU,
			ProductName:    row.ProductName,
			LocationType:   string(row.LocationType),
			LocationID:     row.LocationID,
			Quantity:       row.Quantity,
			MinStock:       row.MinStock,
			MaxStock:       row.MaxStock,
			PercentageLeft: percentageLeft,
			Severity:       severity,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].PercentageLeft.LessThan(alerts[j].PercentageLeft)
	})
	return alerts, nil
}
