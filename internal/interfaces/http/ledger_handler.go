package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// LedgerHandler maneja las peticiones HTTP del ledger de stock (protegido).
type LedgerHandler struct {
	svc            *ledger.Service
	membershipRepo repository.MembershipRepository
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(svc *ledger.Service, membershipRepo repository.MembershipRepository) *LedgerHandler {
	return &LedgerHandler{svc: svc, membershipRepo: membershipRepo}
}

// GetQuantity godoc
// @Summary      Consultar cantidad en una ubicación
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  true  "Producto (UUID)"
// @Param        location_type  query  string  true  "WAREHOUSE | STORE | EMPLOYEE"
// @Param        location_id    query  string  true  "Ubicación (UUID)"
// @Success      200  {object}  dto.StockLineResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/ledger/quantity [get]
func (h *LedgerHandler) GetQuantity(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	loc, ok := locationFromQuery(c)
	productID := c.Query("product_id")
	if !ok || productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, location_type y location_id son requeridos"})
	}
	line, err := h.svc.GetQuantity(c.Context(), orgID, productID, loc)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockLineResponse(line))
}

// ApplyMovement godoc
// @Summary      Registrar ajuste manual de stock
// @Description  Aplica un delta firmado sobre una línea. Requiere el permiso manage_stock.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "product_id, location, type, delta"
// @Success      201  {object}  dto.StockLineResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [post]
func (h *LedgerHandler) ApplyMovement(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	userID := GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ApplyMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.requireManageStock(c, userID, orgID); err != nil {
		return respondError(c, err)
	}
	line, err := h.svc.ApplyMovement(c.Context(), ledger.MovementInput{
		OrganizationID: orgID,
		ProductID:      in.ProductID,
		Location:       entity.LocationKey{Type: entity.LocationType(in.LocationType), ID: in.LocationID},
		Type:           entity.MovementType(in.Type),
		Delta:          in.Delta,
		PerformedBy:    userID,
		Reference:      in.Reference,
		Reason:         in.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockLineResponse(line))
}

// MovementHistory godoc
// @Summary      Historial de movimientos de una ubicación
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        location_type  query  string  true   "WAREHOUSE | STORE | EMPLOYEE"
// @Param        location_id    query  string  true   "Ubicación (UUID)"
// @Param        from           query  string  false  "Fecha inicial (RFC3339)"
// @Param        to             query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [get]
func (h *LedgerHandler) MovementHistory(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	loc, ok := locationFromQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_type y location_id son requeridos"})
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
	}
	limit, offset := pagination(c)
	movements, err := h.svc.MovementHistory(c.Context(), orgID, loc, from, to, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// ProductMovements godoc
// @Summary      Movimientos de un producto en todas sus ubicaciones
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "Producto (UUID)"
// @Param        from        query  string  false  "Fecha inicial (RFC3339)"
// @Param        to          query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements [get]
func (h *LedgerHandler) ProductMovements(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
	}
	limit, offset := pagination(c)
	movements, err := h.svc.ProductMovements(c.Context(), orgID, productID, from, to, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// Reserve godoc
// @Summary      Reservar cantidad en una ubicación
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservationRequest  true  "product_id, location, amount"
// @Success      200  {object}  dto.StockLineResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ledger/reservations [post]
func (h *LedgerHandler) Reserve(c *fiber.Ctx) error {
	return h.reservation(c, false)
}

// Release godoc
// @Summary      Liberar una reserva
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservationRequest  true  "product_id, location, amount"
// @Success      200  {object}  dto.StockLineResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ledger/reservations [delete]
func (h *LedgerHandler) Release(c *fiber.Ctx) error {
	return h.reservation(c, true)
}

func (h *LedgerHandler) reservation(c *fiber.Ctx, release bool) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	loc := entity.LocationKey{Type: entity.LocationType(in.LocationType), ID: in.LocationID}
	var (
		line *entity.StockLine
		err  error
	)
	if release {
		line, err = h.svc.Release(c.Context(), orgID, in.ProductID, loc, in.Amount)
	} else {
		line, err = h.svc.Reserve(c.Context(), orgID, in.ProductID, loc, in.Amount)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockLineResponse(line))
}

func (h *LedgerHandler) requireManageStock(c *fiber.Ctx, userID, orgID string) error {
	membership, err := h.membershipRepo.Resolve(c.Context(), userID, orgID)
	if err != nil {
		return err
	}
	if !membership.Has(entity.PermManageStock) {
		return domain.ErrForbidden
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers compartidos por los handlers
// ──────────────────────────────────────────────────────────────────────────────

func locationFromQuery(c *fiber.Ctx) (entity.LocationKey, bool) {
	loc := entity.LocationKey{
		Type: entity.LocationType(c.Query("location_type")),
		ID:   c.Query("location_id"),
	}
	if !loc.Type.Valid() || loc.ID == "" {
		return entity.LocationKey{}, false
	}
	return loc, true
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit", "50"))
	offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func toStockLineResponse(line *entity.StockLine) dto.StockLineResponse {
	return dto.StockLineResponse{
		ProductID:        line.ProductID,
		LocationType:     string(line.LocationType),
		LocationID:       line.LocationID,
		Quantity:         line.Quantity,
		ReservedQuantity: line.ReservedQuantity,
		Available:        line.Available(),
		UpdatedAt:        line.UpdatedAt,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		LocationType: string(m.LocationType),
		LocationID:   m.LocationID,
		Type:         string(m.Type),
		Quantity:     m.Quantity,
		RemainingQty: m.RemainingQty,
		PerformedBy:  m.PerformedBy,
		Reference:    m.Reference,
		Reason:       m.Reason,
		CreatedAt:    m.CreatedAt,
	}
}
