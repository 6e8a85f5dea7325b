package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/purchasing"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// PurchaseOrderHandler maneja las peticiones HTTP de órdenes de compra (protegido).
type PurchaseOrderHandler struct {
	uc *purchasing.UseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *purchasing.UseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra (DRAFT)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "supplier_id, warehouse_id, lines"
// @Success      201  {object}  dto.PurchaseOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	userID := GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]purchasing.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, purchasing.LineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	order, err := h.uc.Create(c.Context(), purchasing.CreateInput{
		OrganizationID: orgID,
		SupplierID:     in.SupplierID,
		WarehouseID:    in.WarehouseID,
		Lines:          lines,
		Notes:          in.Notes,
		CreatedBy:      userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseOrderResponse(order))
}

// GetByID godoc
// @Summary      Consultar orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Orden (UUID)"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	order, err := h.uc.GetByID(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseOrderResponse(order))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "DRAFT | SENT | CONFIRMED | RECEIVED | CANCELLED"
// @Success      200  {array}   dto.PurchaseOrderResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var status *entity.PurchaseOrderStatus
	if raw := c.Query("status"); raw != "" {
		s := entity.PurchaseOrderStatus(raw)
		if !s.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status inválido"})
		}
		status = &s
	}
	limit, offset := pagination(c)
	orders, err := h.uc.ListByOrganization(c.Context(), orgID, status, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toPurchaseOrderResponse(order))
	}
	return c.JSON(fiber.Map{"total": len(out), "orders": out})
}

// Send godoc
// @Summary      Enviar orden al proveedor (DRAFT -> SENT)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Orden (UUID)"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/send [post]
func (h *PurchaseOrderHandler) Send(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Send)
}

// Confirm godoc
// @Summary      Confirmar orden (SENT -> CONFIRMED)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Orden (UUID)"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/confirm [post]
func (h *PurchaseOrderHandler) Confirm(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Confirm)
}

// Cancel godoc
// @Summary      Cancelar orden (no terminal -> CANCELLED)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Orden (UUID)"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Cancel)
}

// ReceiveItems godoc
// @Summary      Registrar recepción de mercadería
// @Description  Cada recepción lleva una referencia única; repetirla devuelve 409
//
//	sin duplicar el ingreso de stock.
//
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "Orden (UUID)"
// @Param        body  body  dto.ReceiveItemsRequest  true  "receipts"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receipts [post]
func (h *PurchaseOrderHandler) ReceiveItems(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	userID := GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReceiveItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	receipts := make([]purchasing.Receipt, 0, len(in.Receipts))
	for _, r := range in.Receipts {
		receipts = append(receipts, purchasing.Receipt{
			ItemID:      r.ItemID,
			ReceivedQty: r.ReceivedQty,
			Reference:   r.Reference,
		})
	}
	order, err := h.uc.ReceiveItems(c.Context(), orgID, c.Params("id"), receipts, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseOrderResponse(order))
}

func (h *PurchaseOrderHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, orgID, orderID string) (*entity.PurchaseOrder, error)) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	order, err := fn(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseOrderResponse(order))
}

func toPurchaseOrderResponse(order *entity.PurchaseOrder) dto.PurchaseOrderResponse {
	items := make([]dto.PurchaseOrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.PurchaseOrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			ReceivedQty: item.ReceivedQty,
			UnitPrice:   item.UnitPrice,
		})
	}
	return dto.PurchaseOrderResponse{
		ID:                order.ID,
		SupplierID:        order.SupplierID,
		WarehouseID:       order.WarehouseID,
		Status:            string(order.Status),
		PartiallyReceived: order.PartiallyReceived(),
		Total:             order.Total(),
		Notes:             order.Notes,
		Items:             items,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}
