package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/reporting"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ReportHandler maneja las proyecciones de solo lectura sobre el ledger (protegido).
type ReportHandler struct {
	uc *reporting.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reporting.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockSnapshot godoc
// @Summary      Snapshot de líneas de stock de la organización
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        location_type  query  string  false  "Filtrar por tipo de ubicación"
// @Param        location_id    query  string  false  "Filtrar por ubicación"
// @Success      200  {array}   dto.StockLineResponse
// @Router       /api/reports/stock [get]
func (h *ReportHandler) StockSnapshot(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	loc := optionalLocation(c)
	limit, offset := pagination(c)
	lines, err := h.uc.StockSnapshot(c.Context(), orgID, loc, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockLineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, toStockLineResponse(line))
	}
	return c.JSON(fiber.Map{"total": len(out), "lines": out})
}

// Valuation godoc
// @Summary      Valorización del stock (cantidad × precio unitario)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        location_type  query  string  false  "Filtrar por tipo de ubicación"
// @Param        location_id    query  string  false  "Filtrar por ubicación"
// @Success      200  {object}  dto.ValuationReport
// @Router       /api/reports/valuation [get]
func (h *ReportHandler) Valuation(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	report, err := h.uc.Valuation(c.Context(), orgID, optionalLocation(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// Alerts godoc
// @Summary      Alertas de stock bajo o agotado
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        location_type  query  string  false  "Filtrar por tipo de ubicación"
// @Param        location_id    query  string  false  "Filtrar por ubicación"
// @Success      200  {array}   dto.StockAlert
// @Router       /api/reports/alerts [get]
func (h *ReportHandler) Alerts(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	alerts, err := h.uc.LowStockAlerts(c.Context(), orgID, optionalLocation(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(alerts), "alerts": alerts})
}

// optionalLocation arma el filtro de ubicación si ambos query params vienen.
func optionalLocation(c *fiber.Ctx) *entity.LocationKey {
	loc, ok := locationFromQuery(c)
	if !ok {
		return nil
	}
	return &loc
}
