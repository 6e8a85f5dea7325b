package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/application/purchasing"
	"github.com/tu-usuario/stock-ledger/internal/application/reconciliation"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner, purchasing.TxRunner and reconciliation.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ purchasing.TxRunner = (*TxRunner)(nil)
var _ reconciliation.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, acotada por
// un timeout: las mutaciones que esperan un lock de fila no bloquean
// indefinidamente, expiran y se reportan como ErrLedgerUnavailable (reintentable).
type TxRunner struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTxRunner construye el runner con el pool y el timeout de transacción.
func NewTxRunner(pool *pgxpool.Pool, timeout time.Duration) *TxRunner {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TxRunner{pool: pool, timeout: timeout}
}

// Run inicia una transacción, ejecuta fn con los repos del ledger atados a la
// tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	lineRepo repository.StockLineRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewStockLineRepository(q), NewStockMovementRepository(q))
	})
}

// RunPurchasing inicia una transacción con los repos del ledger y de órdenes de
// compra (para ReceiveItems).
func (r *TxRunner) RunPurchasing(ctx context.Context, fn func(
	lineRepo repository.StockLineRepository,
	movRepo repository.StockMovementRepository,
	orderRepo repository.PurchaseOrderRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewStockLineRepository(q), NewStockMovementRepository(q), NewPurchaseOrderRepository(q))
	})
}

// RunReconciliation inicia una transacción con los repos del ledger y de
// conteos físicos (para Complete).
func (r *TxRunner) RunReconciliation(ctx context.Context, fn func(
	lineRepo repository.StockLineRepository,
	movRepo repository.StockMovementRepository,
	inventoryRepo repository.StockInventoryRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewStockLineRepository(q), NewStockMovementRepository(q), NewStockInventoryRepository(q))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(q Querier) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrLedgerUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		if domain.IsDomain(err) {
			return err
		}
		// Falla de infraestructura a mitad de transacción: todo quedó revertido.
		// No se reintenta automáticamente (riesgo de doble aplicación).
		return fmt.Errorf("%w: %v", domain.ErrLedgerUnavailable, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrLedgerUnavailable, err)
	}
	return nil
}
