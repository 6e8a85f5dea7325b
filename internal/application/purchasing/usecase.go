package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// UseCase maneja el ciclo de vida de órdenes de compra:
// DRAFT → SENT → CONFIRMED → RECEIVED, con CANCELLED desde cualquier estado no
// terminal. La recepción alimenta el ledger con movimientos IN en la bodega de
// la orden.
type UseCase struct {
	txRunner     TxRunner
	orderRepo    repository.PurchaseOrderRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	ledger       *ledger.Service
}

// NewUseCase construye el caso de uso de compras.
func NewUseCase(
	txRunner TxRunner,
	orderRepo repository.PurchaseOrderRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	ledgerSvc *ledger.Service,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		ledger:       ledgerSvc,
	}
}

// LineInput línea de una orden nueva.
type LineInput struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// CreateInput entrada para crear una orden en estado DRAFT.
type CreateInput struct {
	OrganizationID string
	SupplierID     string
	WarehouseID    string
	Lines          []LineInput
	Notes          string
	CreatedBy      string
}

// Create crea una orden de compra en DRAFT con sus líneas.
func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*entity.PurchaseOrder, error) {
	if input.OrganizationID == "" || input.SupplierID == "" || input.WarehouseID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.locationRepo.GetByID(ctx, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	if warehouse.OrganizationID != input.OrganizationID || warehouse.Type != entity.LocationWarehouse {
		return nil, domain.ErrLocationMismatch
	}

	now := time.Now()
	order := &entity.PurchaseOrder{
		ID:             uuid.New().String(),
		OrganizationID: input.OrganizationID,
		SupplierID:     input.SupplierID,
		WarehouseID:    input.WarehouseID,
		Status:         entity.POStatusDraft,
		Notes:          input.Notes,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 || line.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.OrganizationID != input.OrganizationID {
			return nil, domain.ErrForbidden
		}
		order.Items = append(order.Items, &entity.PurchaseOrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Send marca la orden como enviada al proveedor.
func (uc *UseCase) Send(ctx context.Context, orgID, orderID string) (*entity.PurchaseOrder, error) {
	return uc.transition(ctx, orgID, orderID, entity.POStatusSent)
}

// Confirm marca la orden como confirmada por el proveedor.
func (uc *UseCase) Confirm(ctx context.Context, orgID, orderID string) (*entity.PurchaseOrder, error) {
	return uc.transition(ctx, orgID, orderID, entity.POStatusConfirmed)
}

// Cancel cancela la orden (solo desde DRAFT/SENT/CONFIRMED).
func (uc *UseCase) Cancel(ctx context.Context, orgID, orderID string) (*entity.PurchaseOrder, error) {
	return uc.transition(ctx, orgID, orderID, entity.POStatusCancelled)
}

func (uc *UseCase) transition(ctx context.Context, orgID, orderID string, next entity.PurchaseOrderStatus) (*entity.PurchaseOrder, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}
	if err := uc.orderRepo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}
	order.Status = next
	order.UpdatedAt = time.Now()
	return order, nil
}

// Receipt recepción de una línea. La referencia identifica el registro de
// recepción y garantiza la idempotencia: una misma referencia nunca se aplica
// dos veces.
type Receipt struct {
	ItemID      string
	ReceivedQty int64
	Reference   string
}

// ReceiveItems registra recepciones contra la orden: por cada receipt valida
// que no exceda lo ordenado, aplica un movimiento IN en la bodega de la orden y
// actualiza la cantidad recibida de la línea, todo en una sola transacción.
// Al final recalcula el estado de la orden (RECEIVED cuando todas las líneas
// están completas; una recepción parcial mantiene SENT/CONFIRMED).
func (uc *UseCase) ReceiveItems(ctx context.Context, orgID, orderID string, receipts []Receipt, receivedBy string) (*entity.PurchaseOrder, error) {
	if len(receipts) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, receipt := range receipts {
		if receipt.ItemID == "" || receipt.ReceivedQty <= 0 || receipt.Reference == "" {
			return nil, domain.ErrInvalidInput
		}
	}

	var result *entity.PurchaseOrder
	err := uc.txRunner.RunPurchasing(ctx, func(
		lineRepo repository.StockLineRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		// Bloquea la cabecera de la orden: dos recepciones concurrentes sobre la
		// misma orden se serializan aquí.
		order, err := orderRepo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.OrganizationID != orgID {
			return domain.ErrForbidden
		}
		if order.Status != entity.POStatusSent && order.Status != entity.POStatusConfirmed {
			return domain.ErrInvalidTransition
		}

		itemsByID := make(map[string]*entity.PurchaseOrderItem, len(order.Items))
		for _, item := range order.Items {
			itemsByID[item.ID] = item
		}

		now := time.Now()
		warehouse := entity.LocationKey{Type: entity.LocationWarehouse, ID: order.WarehouseID}
		for _, receipt := range receipts {
			item, ok := itemsByID[receipt.ItemID]
			if !ok {
				return domain.ErrNotFound
			}
			if item.ReceivedQty+receipt.ReceivedQty > item.Quantity {
				return domain.ErrOverReceipt
			}
			// Idempotencia: la referencia del receipt no debe existir ya en el log.
			exists, err := movRepo.ExistsByReference(ctx, orgID, receipt.Reference)
			if err != nil {
				return err
			}
			if exists {
				return domain.ErrDuplicateReference
			}
			_, _, err = uc.ledger.ApplyMovementInTx(ctx, lineRepo, movRepo, ledger.MovementInput{
				OrganizationID: orgID,
				ProductID:      item.ProductID,
				Location:       warehouse,
				Type:           entity.MovementIN,
				Delta:          receipt.ReceivedQty,
				PerformedBy:    receivedBy,
				Reference:      receipt.Reference,
				Reason:         "recepción orden de compra " + order.ID,
			}, now)
			if err != nil {
				return err
			}
			item.ReceivedQty += receipt.ReceivedQty
			if err := orderRepo.UpdateItemReceived(ctx, item.ID, item.ReceivedQty); err != nil {
				return err
			}
		}

		if order.FullyReceived() {
			if err := orderRepo.UpdateStatus(ctx, order.ID, entity.POStatusReceived); err != nil {
				return err
			}
			order.Status = entity.POStatusReceived
		}
		order.UpdatedAt = now
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID devuelve la orden con sus líneas (org-scoped).
func (uc *UseCase) GetByID(ctx context.Context, orgID, orderID string) (*entity.PurchaseOrder, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// ListByOrganization lista las órdenes de la organización, opcionalmente por estado.
func (uc *UseCase) ListByOrganization(ctx context.Context, orgID string, status *entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	return uc.orderRepo.ListByOrganization(ctx, orgID, status, limit, offset)
}
