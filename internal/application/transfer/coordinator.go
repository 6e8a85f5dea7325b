package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// Coordinator orquesta el movimiento de cantidad entre dos ubicaciones como una
// unidad atómica: débito en origen y crédito en destino en la misma transacción,
// ligados por una referencia compartida. Sin débito en origen no hay crédito en
// destino; esa es la propiedad central de corrección del subsistema.
type Coordinator struct {
	txRunner ledger.TxRunner
	ledger   *ledger.Service
}

// NewCoordinator construye el coordinador de transfers.
func NewCoordinator(txRunner ledger.TxRunner, ledgerSvc *ledger.Service) *Coordinator {
	return &Coordinator{txRunner: txRunner, ledger: ledgerSvc}
}

// Input entrada para un transfer.
type Input struct {
	OrganizationID string
	ProductID      string
	From           entity.LocationKey
	To             entity.LocationKey
	Quantity       int64 // > 0
	Reason         string
	PerformedBy    string
	// Reference opcional; si está vacío se genera una. Los dos movimientos del
	// par la comparten. Una referencia provista por el caller es además llave de
	// idempotencia: si ya existe un movimiento con ella, el transfer se rechaza
	// con ErrDuplicateReference en lugar de aplicarse de nuevo.
	Reference string
}

// Result los dos movimientos ligados del transfer.
type Result struct {
	FromMovement *entity.StockMovement
	ToMovement   *entity.StockMovement
}

// Transfer mueve cantidad de una ubicación a otra. Precondiciones: cantidad
// positiva, origen y destino distintos, ambos de la misma organización.
func (c *Coordinator) Transfer(ctx context.Context, input Input) (*Result, error) {
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if !input.From.Type.Valid() || !input.To.Type.Valid() || input.From.ID == "" || input.To.ID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.From.Equal(input.To) {
		return nil, domain.ErrInvalidInput
	}
	// Los transfers entre organizaciones se rechazan: ambas ubicaciones deben
	// pertenecer a la organización del caller.
	if err := c.ledger.ValidateOwnership(ctx, input.OrganizationID, input.ProductID, input.From, input.To); err != nil {
		return nil, err
	}

	reference := input.Reference
	if reference == "" {
		reference = uuid.New().String()
	}
	now := time.Now()

	var result Result
	err := c.txRunner.Run(ctx, func(
		lineRepo repository.StockLineRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// Adquiere los dos locks de fila en orden determinista por clave compuesta,
		// para que dos transfers concurrentes sobre el mismo par en direcciones
		// opuestas no se bloqueen mutuamente.
		first, second := input.From, input.To
		if second.Less(first) {
			first, second = second, first
		}
		if _, err := lineRepo.GetForUpdate(ctx, input.OrganizationID, input.ProductID, first); err != nil {
			return err
		}
		if _, err := lineRepo.GetForUpdate(ctx, input.OrganizationID, input.ProductID, second); err != nil {
			return err
		}

		// Con referencia del caller, el chequeo va dentro de la transacción y con
		// los locks tomados: un reintento de un transfer ya ejecutado no debe
		// volver a mover stock.
		if input.Reference != "" {
			exists, err := movRepo.ExistsByReference(ctx, input.OrganizationID, reference)
			if err != nil {
				return err
			}
			if exists {
				return domain.ErrDuplicateReference
			}
		}

		// Débito primero: si falla por stock insuficiente, el crédito no se intenta.
		_, outMov, err := c.ledger.ApplyMovementInTx(ctx, lineRepo, movRepo, ledger.MovementInput{
			OrganizationID: input.OrganizationID,
			ProductID:      input.ProductID,
			Location:       input.From,
			Type:           entity.MovementTRANSFER,
			Delta:          -input.Quantity,
			PerformedBy:    input.PerformedBy,
			Reference:      reference,
			Reason:         input.Reason,
		}, now)
		if err != nil {
			return err
		}
		_, inMov, err := c.ledger.ApplyMovementInTx(ctx, lineRepo, movRepo, ledger.MovementInput{
			OrganizationID: input.OrganizationID,
			ProductID:      input.ProductID,
			Location:       input.To,
			Type:           entity.MovementTRANSFER,
			Delta:          input.Quantity,
			PerformedBy:    input.PerformedBy,
			Reference:      reference,
			Reason:         input.Reason,
		}, now)
		if err != nil {
			return err
		}
		result = Result{FromMovement: outMov, ToMovement: inMov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
