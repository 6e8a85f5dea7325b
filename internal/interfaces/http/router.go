package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/application/purchasing"
	"github.com/tu-usuario/stock-ledger/internal/application/reconciliation"
	"github.com/tu-usuario/stock-ledger/internal/application/reporting"
	"github.com/tu-usuario/stock-ledger/internal/application/request"
	"github.com/tu-usuario/stock-ledger/internal/application/transfer"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger         *ledger.Service
	Transfers      *transfer.Coordinator
	Purchasing     *purchasing.UseCase
	Requests       *request.UseCase
	Reconciliation *reconciliation.UseCase
	Reporting      *reporting.UseCase
	Memberships    repository.MembershipRepository
	JWTSecret      string
}

// Router registra las rutas de la API. Todas las rutas del ledger requieren
// Bearer Token; el scope de organización sale del token, nunca del request.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Ledger (consulta, ajustes manuales, reservas)
	ledgerGroup := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.Ledger, deps.Memberships)
	ledgerGroup.Get("/quantity", ledgerHandler.GetQuantity)
	ledgerGroup.Get("/movements", ledgerHandler.MovementHistory)
	ledgerGroup.Post("/movements", ledgerHandler.ApplyMovement)
	ledgerGroup.Post("/reservations", ledgerHandler.Reserve)
	ledgerGroup.Delete("/reservations", ledgerHandler.Release)

	// Transfers entre ubicaciones
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.Transfers)
	transfers.Post("/", transferHandler.Create)

	// Órdenes de compra
	orders := protected.Group("/purchase-orders")
	orderHandler := NewPurchaseOrderHandler(deps.Purchasing)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/send", orderHandler.Send)
	orders.Post("/:id/confirm", orderHandler.Confirm)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	orders.Post("/:id/receipts", orderHandler.ReceiveItems)

	// Solicitudes de stock
	requests := protected.Group("/stock-requests")
	requestHandler := NewStockRequestHandler(deps.Requests)
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Post("/:id/approve", requestHandler.Approve)
	requests.Post("/:id/reject", requestHandler.Reject)

	// Conteos físicos
	inventories := protected.Group("/inventories")
	inventoryHandler := NewInventoryHandler(deps.Reconciliation)
	inventories.Post("/", inventoryHandler.Schedule)
	inventories.Get("/", inventoryHandler.List)
	inventories.Post("/:id/complete", inventoryHandler.Complete)
	inventories.Post("/:id/cancel", inventoryHandler.Cancel)

	// Reportes de solo lectura
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.Reporting)
	reports.Get("/stock", reportHandler.StockSnapshot)
	reports.Get("/movements", ledgerHandler.ProductMovements)
	reports.Get("/valuation", reportHandler.Valuation)
	reports.Get("/alerts", reportHandler.Alerts)
}
