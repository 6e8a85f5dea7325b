package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/request"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// StockRequestHandler maneja las peticiones HTTP de solicitudes de stock (protegido).
type StockRequestHandler struct {
	uc *request.UseCase
}

// NewStockRequestHandler construye el handler.
func NewStockRequestHandler(uc *request.UseCase) *StockRequestHandler {
	return &StockRequestHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de stock (PENDING)
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequestRequest  true  "product_id, type, quantity, from, to"
// @Success      201  {object}  dto.StockRequestResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-requests [post]
func (h *StockRequestHandler) Create(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	userID := GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateStockRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Create(c.Context(), request.CreateInput{
		OrganizationID: orgID,
		ProductID:      in.ProductID,
		Type:           entity.StockRequestType(in.Type),
		Quantity:       in.Quantity,
		Urgency:        entity.UrgencyLevel(in.Urgency),
		From:           entity.LocationKey{Type: entity.LocationType(in.FromType), ID: in.FromID},
		To:             entity.LocationKey{Type: entity.LocationType(in.ToType), ID: in.ToID},
		Reason:         in.Reason,
		RequestedBy:    userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockRequestResponse(req))
}

// List godoc
// @Summary      Listar solicitudes de stock
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING | APPROVED | REJECTED | COMPLETED"
// @Success      200  {array}   dto.StockRequestResponse
// @Router       /api/stock-requests [get]
func (h *StockRequestHandler) List(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var status *entity.StockRequestStatus
	if raw := c.Query("status"); raw != "" {
		s := entity.StockRequestStatus(raw)
		if !s.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status inválido"})
		}
		status = &s
	}
	limit, offset := pagination(c)
	requests, err := h.uc.ListByOrganization(c.Context(), orgID, status, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockRequestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toStockRequestResponse(req))
	}
	return c.JSON(fiber.Map{"total": len(out), "requests": out})
}

// Approve godoc
// @Summary      Aprobar y ejecutar una solicitud
// @Description  Requiere el permiso manage_stock. Si el transfer subyacente falla
//
//	la solicitud queda en APPROVED y el error se devuelve al cliente.
//
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Solicitud (UUID)"
// @Success      200  {object}  dto.StockRequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id}/approve [post]
func (h *StockRequestHandler) Approve(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	userID := GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	req, err := h.uc.Approve(c.Context(), orgID, c.Params("id"), userID)
	if err != nil {
		// Si el transfer subyacente falló la solicitud queda en APPROVED;
		// el cliente puede reintentar la aprobación más tarde.
		return respondError(c, err)
	}
	return c.JSON(toStockRequestResponse(req))
}

// Reject godoc
// @Summary      Rechazar una solicitud (PENDING -> REJECTED)
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Solicitud (UUID)"
// @Success      200  {object}  dto.StockRequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id}/reject [post]
func (h *StockRequestHandler) Reject(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	userID := GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	req, err := h.uc.Reject(c.Context(), orgID, c.Params("id"), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockRequestResponse(req))
}

func toStockRequestResponse(req *entity.StockRequest) dto.StockRequestResponse {
	return dto.StockRequestResponse{
		ID:          req.ID,
		ProductID:   req.ProductID,
		Type:        string(req.Type),
		Quantity:    req.Quantity,
		Status:      string(req.Status),
		Urgency:     string(req.Urgency),
		FromType:    string(req.FromType),
		FromID:      req.FromID,
		ToType:      string(req.ToType),
		ToID:        req.ToID,
		Reason:      req.Reason,
		RequestedBy: req.RequestedBy,
		ApprovedBy:  req.ApprovedBy,
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
	}
}
