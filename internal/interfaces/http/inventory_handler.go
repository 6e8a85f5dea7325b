package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/reconciliation"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de conteos físicos (protegido).
type InventoryHandler struct {
	uc *reconciliation.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *reconciliation.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Schedule godoc
// @Summary      Programar conteo físico (PENDING)
// @Tags         inventories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScheduleInventoryRequest  true  "product_id, expected_qty, scheduled_date"
// @Success      201  {object}  dto.StockInventoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventories [post]
func (h *InventoryHandler) Schedule(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	userID := GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ScheduleInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inventory, err := h.uc.Schedule(c.Context(), reconciliation.ScheduleInput{
		OrganizationID: orgID,
		ProductID:      in.ProductID,
		WarehouseID:    in.WarehouseID,
		ExpectedQty:    in.ExpectedQty,
		ScheduledDate:  in.ScheduledDate,
		CreatedBy:      userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockInventoryResponse(inventory))
}

// List godoc
// @Summary      Listar conteos físicos
// @Tags         inventories
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING | COMPLETED | CANCELLED"
// @Success      200  {array}   dto.StockInventoryResponse
// @Router       /api/inventories [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var status *entity.StockInventoryStatus
	if raw := c.Query("status"); raw != "" {
		s := entity.StockInventoryStatus(raw)
		if !s.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status inválido"})
		}
		status = &s
	}
	limit, offset := pagination(c)
	inventories, err := h.uc.ListByOrganization(c.Context(), orgID, status, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockInventoryResponse, 0, len(inventories))
	for _, inv := range inventories {
		out = append(out, toStockInventoryResponse(inv))
	}
	return c.JSON(fiber.Map{"total": len(out), "inventories": out})
}

// Complete godoc
// @Summary      Completar conteo con la cantidad observada
// @Description  Si hay diferencia contra lo esperado se registra un movimiento
//
//	ADJUSTMENT que corrige la línea; si no, el conteo cierra sin movimiento.
//
// @Tags         inventories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "Conteo (UUID)"
// @Param        body  body  dto.CompleteInventoryRequest  true  "actual_qty"
// @Success      200  {object}  dto.StockInventoryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/complete [post]
func (h *InventoryHandler) Complete(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	userID := GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CompleteInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inventory, err := h.uc.Complete(c.Context(), orgID, c.Params("id"), in.ActualQty, in.Notes, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockInventoryResponse(inventory))
}

// Cancel godoc
// @Summary      Cancelar conteo (PENDING -> CANCELLED)
// @Tags         inventories
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Conteo (UUID)"
// @Success      200  {object}  dto.StockInventoryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/cancel [post]
func (h *InventoryHandler) Cancel(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	inventory, err := h.uc.Cancel(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockInventoryResponse(inventory))
}

func toStockInventoryResponse(inv *entity.StockInventory) dto.StockInventoryResponse {
	return dto.StockInventoryResponse{
		ID:            inv.ID,
		ProductID:     inv.ProductID,
		WarehouseID:   inv.WarehouseID,
		ExpectedQty:   inv.ExpectedQty,
		ActualQty:     inv.ActualQty,
		Difference:    inv.Difference,
		Status:        string(inv.Status),
		ScheduledDate: inv.ScheduledDate,
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}
