// Package memory implementa los puertos del ledger sobre mapas en memoria,
// protegidos con mutex. Respaldado solo para desarrollo y tests: las
// "transacciones" se serializan con un snapshot que se restaura si el callback
// falla, reproduciendo la atomicidad de la implementación PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

type lineKey struct {
	orgID     string
	productID string
	locType   entity.LocationType
	locID     string
}

type membershipKey struct {
	userID string
	orgID  string
}

// Store almacén en memoria de todos los agregados del ledger.
type Store struct {
	mu   sync.Mutex // protege los mapas
	txMu sync.Mutex // serializa transacciones

	lines       map[lineKey]entity.StockLine
	movements   []entity.StockMovement
	locations   map[string]entity.Location
	products    map[string]entity.Product
	orders      map[string]entity.PurchaseOrder
	requests    map[string]entity.StockRequest
	inventories map[string]entity.StockInventory
	memberships map[membershipKey]entity.Membership
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		lines:       make(map[lineKey]entity.StockLine),
		locations:   make(map[string]entity.Location),
		products:    make(map[string]entity.Product),
		orders:      make(map[string]entity.PurchaseOrder),
		requests:    make(map[string]entity.StockRequest),
		inventories: make(map[string]entity.StockInventory),
		memberships: make(map[membershipKey]entity.Membership),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Seeding (para tests y modo demo)
// ──────────────────────────────────────────────────────────────────────────────

// AddLocation registra una ubicación.
func (s *Store) AddLocation(location entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[location.ID] = location
}

// AddProduct registra un producto del catálogo.
func (s *Store) AddProduct(product entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = product
}

// AddMembership registra una membresía.
func (s *Store) AddMembership(membership entity.Membership) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships[membershipKey{membership.UserID, membership.OrganizationID}] = membership
}

// SeedLine fija directamente una línea de stock (solo seeding: el código de
// producción muta líneas únicamente a través del ledger).
func (s *Store) SeedLine(line entity.StockLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[keyOf(&line)] = line
}

// Movements devuelve una copia del log de movimientos (inspección en tests).
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StockMovement, len(s.movements))
	copy(out, s.movements)
	return out
}

func keyOf(line *entity.StockLine) lineKey {
	return lineKey{line.OrganizationID, line.ProductID, line.LocationType, line.LocationID}
}

// ──────────────────────────────────────────────────────────────────────────────
// Accesores de repositorios
// ──────────────────────────────────────────────────────────────────────────────

// Lines devuelve el repositorio de líneas de stock.
func (s *Store) Lines() repository.StockLineRepository { return &lineRepo{s} }

// MovementLog devuelve el repositorio de movimientos.
func (s *Store) MovementLog() repository.StockMovementRepository { return &movementRepo{s} }

// Locations devuelve el repositorio de ubicaciones.
func (s *Store) Locations() repository.LocationRepository { return &locationRepo{s} }

// Products devuelve el repositorio del catálogo.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s} }

// Orders devuelve el repositorio de órdenes de compra.
func (s *Store) Orders() repository.PurchaseOrderRepository { return &orderRepo{s} }

// Requests devuelve el repositorio de solicitudes.
func (s *Store) Requests() repository.StockRequestRepository { return &requestRepo{s} }

// Inventories devuelve el repositorio de conteos físicos.
func (s *Store) Inventories() repository.StockInventoryRepository { return &inventoryRepo{s} }

// Memberships devuelve el resolutor de membresías.
func (s *Store) Memberships() repository.MembershipRepository { return &membershipRepo{s} }

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner: snapshot + restore
// ──────────────────────────────────────────────────────────────────────────────

// Run ejecuta fn como una transacción: serializa contra otras transacciones y
// restaura el estado previo si fn devuelve error.
func (s *Store) Run(ctx context.Context, fn func(
	lineRepo repository.StockLineRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return s.transactional(ctx, func() error {
		return fn(s.Lines(), s.MovementLog())
	})
}

// RunPurchasing igual que Run, con el repositorio de órdenes de compra.
func (s *Store) RunPurchasing(ctx context.Context, fn func(
	lineRepo repository.StockLineRepository,
	movRepo repository.StockMovementRepository,
	orderRepo repository.PurchaseOrderRepository,
) error) error {
	return s.transactional(ctx, func() error {
		return fn(s.Lines(), s.MovementLog(), s.Orders())
	})
}

// RunReconciliation igual que Run, con el repositorio de conteos.
func (s *Store) RunReconciliation(ctx context.Context, fn func(
	lineRepo repository.StockLineRepository,
	movRepo repository.StockMovementRepository,
	inventoryRepo repository.StockInventoryRepository,
) error) error {
	return s.transactional(ctx, func() error {
		return fn(s.Lines(), s.MovementLog(), s.Inventories())
	})
}

func (s *Store) transactional(ctx context.Context, fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.snapshot()
	if err := fn(); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type storeSnapshot struct {
	lines       map[lineKey]entity.StockLine
	movements   []entity.StockMovement
	orders      map[string]entity.PurchaseOrder
	inventories map[string]entity.StockInventory
}

func (s *Store) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := storeSnapshot{
		lines:       make(map[lineKey]entity.StockLine, len(s.lines)),
		movements:   make([]entity.StockMovement, len(s.movements)),
		orders:      make(map[string]entity.PurchaseOrder, len(s.orders)),
		inventories: make(map[string]entity.StockInventory, len(s.inventories)),
	}
	for k, v := range s.lines {
		snap.lines[k] = v
	}
	copy(snap.movements, s.movements)
	for k, v := range s.orders {
		snap.orders[k] = cloneOrder(v)
	}
	for k, v := range s.inventories {
		snap.inventories[k] = v
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = snap.lines
	s.movements = snap.movements
	s.orders = snap.orders
	s.inventories = snap.inventories
}

func cloneOrder(order entity.PurchaseOrder) entity.PurchaseOrder {
	clone := order
	clone.Items = make([]*entity.PurchaseOrderItem, len(order.Items))
	for i, item := range order.Items {
		copied := *item
		clone.Items[i] = &copied
	}
	return clone
}

// ──────────────────────────────────────────────────────────────────────────────
// Adaptadores de repositorio
// ──────────────────────────────────────────────────────────────────────────────

type lineRepo struct{ s *Store }

func (r *lineRepo) Get(_ context.Context, orgID, productID string, loc entity.LocationKey) (*entity.StockLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := lineKey{orgID, productID, loc.Type, loc.ID}
	if line, ok := r.s.lines[key]; ok {
		copied := line
		return &copied, nil
	}
	return &entity.StockLine{
		OrganizationID: orgID,
		ProductID:      productID,
		LocationType:   loc.Type,
		LocationID:     loc.ID,
	}, nil
}

// GetForUpdate equivale a Get: las transacciones ya se serializan con txMu.
func (r *lineRepo) GetForUpdate(ctx context.Context, orgID, productID string, loc entity.LocationKey) (*entity.StockLine, error) {
	return r.Get(ctx, orgID, productID, loc)
}

func (r *lineRepo) Upsert(_ context.Context, line *entity.StockLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lines[keyOf(line)] = *line
	return nil
}

func (r *lineRepo) ListByOrganization(_ context.Context, orgID string, loc *entity.LocationKey, limit, offset int) ([]*entity.StockLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockLine
	for _, line := range r.s.lines {
		if line.OrganizationID != orgID {
			continue
		}
		if loc != nil && !line.Key().Equal(*loc) {
			continue
		}
		copied := line
		list = append(list, &copied)
	}
	// Orden estable: la iteración de mapas es aleatoria y rompería la paginación.
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.Key().Less(b.Key())
	})
	return paginate(list, limit, offset), nil
}

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *movement)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			copied := m
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) ExistsByReference(_ context.Context, orgID, reference string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.OrganizationID == orgID && m.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (r *movementRepo) ListByLocation(_ context.Context, orgID string, loc entity.LocationKey, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.OrganizationID != orgID || m.LocationType != loc.Type || m.LocationID != loc.ID {
			continue
		}
		if !inRange(m.CreatedAt, from, to) {
			continue
		}
		copied := m
		list = append(list, &copied)
	}
	return paginate(list, limit, offset), nil
}

func (r *movementRepo) ListByProduct(_ context.Context, orgID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.OrganizationID != orgID || m.ProductID != productID {
			continue
		}
		if !inRange(m.CreatedAt, from, to) {
			continue
		}
		copied := m
		list = append(list, &copied)
	}
	return paginate(list, limit, offset), nil
}

func (r *movementRepo) SumByLine(_ context.Context, orgID, productID string, loc entity.LocationKey) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sum int64
	for _, m := range r.s.movements {
		if m.OrganizationID == orgID && m.ProductID == productID &&
			m.LocationType == loc.Type && m.LocationID == loc.ID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

type locationRepo struct{ s *Store }

func (r *locationRepo) Create(_ context.Context, location *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.locations[location.ID] = *location
	return nil
}

func (r *locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l, ok := r.s.locations[id]; ok {
		copied := l
		return &copied, nil
	}
	return nil, nil
}

func (r *locationRepo) ListByOrganization(_ context.Context, orgID string, limit, offset int) ([]*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Location
	for _, l := range r.s.locations {
		if l.OrganizationID == orgID {
			copied := l
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return paginate(list, limit, offset), nil
}

type productRepo struct{ s *Store }

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		copied := p
		return &copied, nil
	}
	return nil, nil
}

func (r *productRepo) ListByOrganization(_ context.Context, orgID string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.s.products {
		if p.OrganizationID == orgID {
			copied := p
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return paginate(list, limit, offset), nil
}

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(_ context.Context, order *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orders[id]; ok {
		clone := cloneOrder(o)
		return &clone, nil
	}
	return nil, nil
}

func (r *orderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) UpdateStatus(_ context.Context, id string, status entity.PurchaseOrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orders[id]; ok {
		o.Status = status
		o.UpdatedAt = time.Now()
		r.s.orders[id] = o
	}
	return nil
}

func (r *orderRepo) UpdateItemReceived(_ context.Context, itemID string, receivedQty int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, o := range r.s.orders {
		for _, item := range o.Items {
			if item.ID == itemID {
				item.ReceivedQty = receivedQty
				r.s.orders[id] = o
				return nil
			}
		}
	}
	return nil
}

func (r *orderRepo) ListByOrganization(_ context.Context, orgID string, status *entity.PurchaseOrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.PurchaseOrder
	for _, o := range r.s.orders {
		if o.OrganizationID != orgID {
			continue
		}
		if status != nil && o.Status != *status {
			continue
		}
		clone := cloneOrder(o)
		list = append(list, &clone)
	}
	sortByCreation(list, func(o *entity.PurchaseOrder) (time.Time, string) { return o.CreatedAt, o.ID })
	return paginate(list, limit, offset), nil
}

type requestRepo struct{ s *Store }

func (r *requestRepo) Create(_ context.Context, request *entity.StockRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.requests[request.ID] = *request
	return nil
}

func (r *requestRepo) GetByID(_ context.Context, id string) (*entity.StockRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if req, ok := r.s.requests[id]; ok {
		copied := req
		return &copied, nil
	}
	return nil, nil
}

func (r *requestRepo) Update(_ context.Context, request *entity.StockRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.requests[request.ID] = *request
	return nil
}

func (r *requestRepo) ListByOrganization(_ context.Context, orgID string, status *entity.StockRequestStatus, limit, offset int) ([]*entity.StockRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockRequest
	for _, req := range r.s.requests {
		if req.OrganizationID != orgID {
			continue
		}
		if status != nil && req.Status != *status {
			continue
		}
		copied := req
		list = append(list, &copied)
	}
	sortByCreation(list, func(req *entity.StockRequest) (time.Time, string) { return req.CreatedAt, req.ID })
	return paginate(list, limit, offset), nil
}

type inventoryRepo struct{ s *Store }

func (r *inventoryRepo) Create(_ context.Context, inventory *entity.StockInventory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.inventories[inventory.ID] = *inventory
	return nil
}

func (r *inventoryRepo) GetByID(_ context.Context, id string) (*entity.StockInventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if inv, ok := r.s.inventories[id]; ok {
		copied := inv
		return &copied, nil
	}
	return nil, nil
}

func (r *inventoryRepo) Update(_ context.Context, inventory *entity.StockInventory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.inventories[inventory.ID] = *inventory
	return nil
}

func (r *inventoryRepo) ListByOrganization(_ context.Context, orgID string, status *entity.StockInventoryStatus, limit, offset int) ([]*entity.StockInventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockInventory
	for _, inv := range r.s.inventories {
		if inv.OrganizationID != orgID {
			continue
		}
		if status != nil && inv.Status != *status {
			continue
		}
		copied := inv
		list = append(list, &copied)
	}
	sortByCreation(list, func(inv *entity.StockInventory) (time.Time, string) { return inv.ScheduledDate, inv.ID })
	return paginate(list, limit, offset), nil
}

type membershipRepo struct{ s *Store }

func (r *membershipRepo) Resolve(_ context.Context, userID, orgID string) (*entity.Membership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.memberships[membershipKey{userID, orgID}]; ok {
		copied := m
		return &copied, nil
	}
	return &entity.Membership{UserID: userID, OrganizationID: orgID}, nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// sortByCreation ordena más reciente primero, con el id como desempate, para
// que la paginación sea estable como en los adaptadores PostgreSQL.
func sortByCreation[T any](list []*T, key func(*T) (time.Time, string)) {
	sort.Slice(list, func(i, j int) bool {
		ti, idi := key(list[i])
		tj, idj := key(list[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi < idj
	})
}

func paginate[T any](list []*T, limit, offset int) []*T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
