package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// UseCase maneja los conteos físicos programados. Al completar un conteo, la
// varianza entre cantidad esperada y contada se cierra con un único movimiento
// ADJUSTMENT en la bodega del conteo; la referencia "inventario <id>" lo liga
// al conteo que lo originó.
type UseCase struct {
	txRunner      TxRunner
	inventoryRepo repository.StockInventoryRepository
	ledger        *ledger.Service
}

// NewUseCase construye el caso de uso de conciliación.
func NewUseCase(txRunner TxRunner, inventoryRepo repository.StockInventoryRepository, ledgerSvc *ledger.Service) *UseCase {
	return &UseCase{txRunner: txRunner, inventoryRepo: inventoryRepo, ledger: ledgerSvc}
}

// ScheduleInput entrada para programar un conteo.
type ScheduleInput struct {
	OrganizationID string
	ProductID      string
	WarehouseID    string // opcional
	ExpectedQty    int64
	ScheduledDate  time.Time
	CreatedBy      string
}

// Schedule programa un conteo físico en estado PENDING.
func (uc *UseCase) Schedule(ctx context.Context, input ScheduleInput) (*entity.StockInventory, error) {
	if input.OrganizationID == "" || input.ProductID == "" || input.ExpectedQty < 0 {
		return nil, domain.ErrInvalidInput
	}
	locs := []entity.LocationKey{}
	if input.WarehouseID != "" {
		locs = append(locs, entity.LocationKey{Type: entity.LocationWarehouse, ID: input.WarehouseID})
	}
	if err := uc.ledger.ValidateOwnership(ctx, input.OrganizationID, input.ProductID, locs...); err != nil {
		return nil, err
	}

	now := time.Now()
	inventory := &entity.StockInventory{
		ID:             uuid.New().String(),
		OrganizationID: input.OrganizationID,
		ProductID:      input.ProductID,
		WarehouseID:    input.WarehouseID,
		ExpectedQty:    input.ExpectedQty,
		Status:         entity.InventoryPending,
		ScheduledDate:  input.ScheduledDate,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.inventoryRepo.Create(ctx, inventory); err != nil {
		return nil, err
	}
	return inventory, nil
}

// Complete cierra un conteo PENDING: calcula la diferencia (contado - esperado),
// publica un movimiento ADJUSTMENT por esa diferencia si no es cero, y marca el
// conteo COMPLETED. Diferencia cero es una conciliación válida sin movimiento.
func (uc *UseCase) Complete(ctx context.Context, orgID, inventoryID string, actualQty int64, notes, completedBy string) (*entity.StockInventory, error) {
	if actualQty < 0 {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.StockInventory
	err := uc.txRunner.RunReconciliation(ctx, func(
		lineRepo repository.StockLineRepository,
		movRepo repository.StockMovementRepository,
		inventoryRepo repository.StockInventoryRepository,
	) error {
		inventory, err := inventoryRepo.GetByID(ctx, inventoryID)
		if err != nil {
			return err
		}
		if inventory == nil {
			return domain.ErrNotFound
		}
		if inventory.OrganizationID != orgID {
			return domain.ErrForbidden
		}
		if inventory.Status != entity.InventoryPending {
			return domain.ErrInvalidTransition
		}

		difference := actualQty - inventory.ExpectedQty
		if difference != 0 {
			if inventory.WarehouseID == "" {
				// Sin bodega asignada no hay dónde publicar el ajuste.
				return domain.ErrInvalidInput
			}
			now := time.Now()
			_, _, err := uc.ledger.ApplyMovementInTx(ctx, lineRepo, movRepo, ledger.MovementInput{
				OrganizationID: orgID,
				ProductID:      inventory.ProductID,
				Location:       entity.LocationKey{Type: entity.LocationWarehouse, ID: inventory.WarehouseID},
				Type:           entity.MovementADJUSTMENT,
				Delta:          difference,
				PerformedBy:    completedBy,
				Reference:      "inventario " + inventory.ID,
				Reason:         notes,
			}, now)
			if err != nil {
				return err
			}
		}

		inventory.ActualQty = actualQty
		inventory.Difference = difference
		inventory.Status = entity.InventoryCompleted
		inventory.Notes = notes
		inventory.CompletedBy = completedBy
		inventory.UpdatedAt = time.Now()
		if err := inventoryRepo.Update(ctx, inventory); err != nil {
			return err
		}
		result = inventory
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel cancela un conteo; solo es válido mientras está PENDING.
func (uc *UseCase) Cancel(ctx context.Context, orgID, inventoryID string) (*entity.StockInventory, error) {
	inventory, err := uc.inventoryRepo.GetByID(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if inventory == nil {
		return nil, domain.ErrNotFound
	}
	if inventory.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	if inventory.Status != entity.InventoryPending {
		return nil, domain.ErrInvalidTransition
	}
	inventory.Status = entity.InventoryCancelled
	inventory.UpdatedAt = time.Now()
	if err := uc.inventoryRepo.Update(ctx, inventory); err != nil {
		return nil, err
	}
	return inventory, nil
}

// ListByOrganization lista conteos de la organización, opcionalmente por estado.
func (uc *UseCase) ListByOrganization(ctx context.Context, orgID string, status *entity.StockInventoryStatus, limit, offset int) ([]*entity.StockInventory, error) {
	return uc.inventoryRepo.ListByOrganization(ctx, orgID, status, limit, offset)
}
