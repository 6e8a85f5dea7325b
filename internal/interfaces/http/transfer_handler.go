package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/transfer"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// TransferHandler maneja las peticiones HTTP de transfers entre ubicaciones (protegido).
type TransferHandler struct {
	coordinator *transfer.Coordinator
}

// NewTransferHandler construye el handler.
func NewTransferHandler(coordinator *transfer.Coordinator) *TransferHandler {
	return &TransferHandler{coordinator: coordinator}
}

// Create godoc
// @Summary      Transferir stock entre dos ubicaciones
// @Description  Débito en origen y crédito en destino en una sola transacción,
//
//	ligados por una referencia compartida.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from, to, quantity"
// @Success      201  {object}  dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	userID := GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.coordinator.Transfer(c.Context(), transfer.Input{
		OrganizationID: orgID,
		ProductID:      in.ProductID,
		From:           entity.LocationKey{Type: entity.LocationType(in.FromType), ID: in.FromID},
		To:             entity.LocationKey{Type: entity.LocationType(in.ToType), ID: in.ToID},
		Quantity:       in.Quantity,
		Reason:         in.Reason,
		PerformedBy:    userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		Reference:    result.FromMovement.Reference,
		FromMovement: toMovementResponse(result.FromMovement),
		ToMovement:   toMovementResponse(result.ToMovement),
	})
}
