package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// Service es el motor del ledger: único escritor de StockLine y StockMovement.
// Todos los demás componentes (transfers, órdenes de compra, solicitudes,
// conciliaciones) mutan cantidades exclusivamente a través de él.
type Service struct {
	txRunner     TxRunner
	lineRepo     repository.StockLineRepository
	movRepo      repository.StockMovementRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	readBackoff  time.Duration
}

// NewService construye el motor del ledger. lineRepo y movRepo son los
// adaptadores de solo lectura (atados al pool); las escrituras pasan por txRunner.
func NewService(
	txRunner TxRunner,
	lineRepo repository.StockLineRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	readBackoff time.Duration,
) *Service {
	if readBackoff <= 0 {
		readBackoff = 150 * time.Millisecond
	}
	return &Service{
		txRunner:     txRunner,
		lineRepo:     lineRepo,
		movRepo:      movRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		readBackoff:  readBackoff,
	}
}

// MovementInput entrada para aplicar un movimiento al ledger.
type MovementInput struct {
	OrganizationID string
	ProductID      string
	Location       entity.LocationKey
	Type           entity.MovementType
	Delta          int64 // firmado: positivo entrada, negativo salida
	PerformedBy    string
	Reference      string
	Reason         string
}

// GetQuantity devuelve cantidad y reserva actuales de (producto, ubicación).
// Devuelve el estado cero si la línea aún no existe. Lectura sin locks, con un
// reintento interno ante fallas transitorias.
func (s *Service) GetQuantity(ctx context.Context, orgID, productID string, loc entity.LocationKey) (*entity.StockLine, error) {
	var line *entity.StockLine
	err := s.retryRead(ctx, func() error {
		var err error
		line, err = s.lineRepo.Get(ctx, orgID, productID, loc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// MovementHistory devuelve los movimientos de una ubicación en un rango de fechas.
func (s *Service) MovementHistory(ctx context.Context, orgID string, loc entity.LocationKey, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var movements []*entity.StockMovement
	err := s.retryRead(ctx, func() error {
		var err error
		movements, err = s.movRepo.ListByLocation(ctx, orgID, loc, from, to, limit, offset)
		return err
	})
	return movements, err
}

// ProductMovements devuelve los movimientos de un producto a través de todas
// sus ubicaciones, en un rango de fechas.
func (s *Service) ProductMovements(ctx context.Context, orgID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var movements []*entity.StockMovement
	err := s.retryRead(ctx, func() error {
		var err error
		movements, err = s.movRepo.ListByProduct(ctx, orgID, productID, from, to, limit, offset)
		return err
	})
	return movements, err
}

// ApplyMovement aplica un movimiento de forma atómica: bloquea la fila de la
// línea (SELECT FOR UPDATE), valida, actualiza la cantidad y agrega un registro
// al log en la misma transacción. Si cualquiera de las dos escrituras falla,
// ambas se revierten: nunca hay aplicación parcial observable.
func (s *Service) ApplyMovement(ctx context.Context, input MovementInput) (*entity.StockLine, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	if err := s.ValidateOwnership(ctx, input.OrganizationID, input.ProductID, input.Location); err != nil {
		return nil, err
	}

	var result *entity.StockLine
	err := s.txRunner.Run(ctx, func(
		lineRepo repository.StockLineRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if input.Reference != "" {
			exists, err := movRepo.ExistsByReference(ctx, input.OrganizationID, input.Reference)
			if err != nil {
				return err
			}
			if exists {
				return domain.ErrDuplicateReference
			}
		}
		line, _, err := s.ApplyMovementInTx(ctx, lineRepo, movRepo, input, time.Now())
		if err != nil {
			return err
		}
		result = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyMovementInTx aplica un movimiento usando los repositorios provistos
// (misma transacción del caller). El caller ya validó pertenencia de producto y
// ubicación, y es dueño de la referencia (un transfer comparte la suya entre
// sus dos registros).
func (s *Service) ApplyMovementInTx(
	ctx context.Context,
	lineRepo repository.StockLineRepository,
	movRepo repository.StockMovementRepository,
	input MovementInput,
	now time.Time,
) (*entity.StockLine, *entity.StockMovement, error) {
	// Bloquea la fila (SELECT FOR UPDATE); dos débitos concurrentes contra la
	// misma línea no pueden pasar ambos la validación con una lectura obsoleta.
	line, err := lineRepo.GetForUpdate(ctx, input.OrganizationID, input.ProductID, input.Location)
	if err != nil {
		return nil, nil, err
	}
	if input.Delta < 0 && line.Available()+input.Delta < 0 {
		// La salida se valida contra lo disponible (cantidad - reservada), de modo
		// que tras aplicar se conserva 0 <= reservada <= cantidad.
		return nil, nil, domain.ErrInsufficientStock
	}

	line.Quantity += input.Delta
	line.UpdatedAt = now
	if err := lineRepo.Upsert(ctx, line); err != nil {
		return nil, nil, err
	}

	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		OrganizationID: input.OrganizationID,
		ProductID:      input.ProductID,
		LocationType:   input.Location.Type,
		LocationID:     input.Location.ID,
		Type:           input.Type,
		Quantity:       input.Delta,
		RemainingQty:   line.Quantity,
		PerformedBy:    input.PerformedBy,
		Reference:      input.Reference,
		Reason:         input.Reason,
		CreatedAt:      now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, nil, err
	}
	return line, mov, nil
}

// Reserve aparta cantidad de una línea (reduce disponibilidad sin reducir la
// cantidad en mano). Falla con ErrInsufficientStock si se intenta reservar más
// de lo disponible.
func (s *Service) Reserve(ctx context.Context, orgID, productID string, loc entity.LocationKey, amount int64) (*entity.StockLine, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.adjustReservation(ctx, orgID, productID, loc, amount)
}

// Release libera cantidad previamente reservada. Falla con ErrInvalidInput si
// se intenta liberar más de lo reservado.
func (s *Service) Release(ctx context.Context, orgID, productID string, loc entity.LocationKey, amount int64) (*entity.StockLine, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.adjustReservation(ctx, orgID, productID, loc, -amount)
}

func (s *Service) adjustReservation(ctx context.Context, orgID, productID string, loc entity.LocationKey, delta int64) (*entity.StockLine, error) {
	if err := s.ValidateOwnership(ctx, orgID, productID, loc); err != nil {
		return nil, err
	}
	var result *entity.StockLine
	err := s.txRunner.Run(ctx, func(
		lineRepo repository.StockLineRepository,
		_ repository.StockMovementRepository,
	) error {
		line, err := lineRepo.GetForUpdate(ctx, orgID, productID, loc)
		if err != nil {
			return err
		}
		if delta > 0 && line.Available() < delta {
			return domain.ErrInsufficientStock
		}
		if delta < 0 && line.ReservedQuantity+delta < 0 {
			return domain.ErrInvalidInput
		}
		line.ReservedQuantity += delta
		line.UpdatedAt = time.Now()
		if err := lineRepo.Upsert(ctx, line); err != nil {
			return err
		}
		result = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ValidateOwnership verifica que el producto y todas las ubicaciones existan y
// pertenezcan a la organización. Las referencias cruzadas entre organizaciones
// se rechazan aquí, en el borde, nunca se filtran en silencio.
func (s *Service) ValidateOwnership(ctx context.Context, orgID, productID string, locs ...entity.LocationKey) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.OrganizationID != orgID {
		return domain.ErrForbidden
	}
	for _, loc := range locs {
		location, err := s.locationRepo.GetByID(ctx, loc.ID)
		if err != nil {
			return err
		}
		if location == nil {
			return domain.ErrNotFound
		}
		if location.OrganizationID != orgID || location.Type != loc.Type {
			return domain.ErrLocationMismatch
		}
	}
	return nil
}

func (s *Service) validateInput(input MovementInput) error {
	if input.OrganizationID == "" || input.ProductID == "" || input.Location.ID == "" {
		return domain.ErrInvalidInput
	}
	if !input.Type.Valid() || !input.Location.Type.Valid() {
		return domain.ErrInvalidInput
	}
	if input.Delta == 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

// retryRead reintenta una sola vez, con backoff corto, las lecturas que fallan
// por causas transitorias. Las escrituras nunca se reintentan automáticamente
// (riesgo de doble aplicación); esa decisión queda en el caller.
func (s *Service) retryRead(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || domain.IsDomain(err) {
		return err
	}
	select {
	case <-time.After(s.readBackoff):
	case <-ctx.Done():
		return ctx.Err()
	}
	return fn()
}
