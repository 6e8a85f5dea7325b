package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/application/purchasing"
	"github.com/tu-usuario/stock-ledger/internal/application/reconciliation"
	"github.com/tu-usuario/stock-ledger/internal/application/reporting"
	"github.com/tu-usuario/stock-ledger/internal/application/request"
	"github.com/tu-usuario/stock-ledger/internal/application/transfer"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/stock-ledger/internal/interfaces/http"
	"github.com/tu-usuario/stock-ledger/pkg/config"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios de lectura atados al pool; las escrituras corren dentro de
	// TxRunner con repos atados a la transacción.
	lineRepo := postgres.NewStockLineRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	requestRepo := postgres.NewStockRequestRepository(pool)
	inventoryRepo := postgres.NewStockInventoryRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)

	txRunner := postgres.NewTxRunner(pool, cfg.Ledger.TxTimeout())

	ledgerSvc := ledger.NewService(
		txRunner, lineRepo, movementRepo, productRepo, locationRepo,
		cfg.Ledger.ReadRetryBackoff(),
	)
	transferCoordinator := transfer.NewCoordinator(txRunner, ledgerSvc)
	purchasingUC := purchasing.NewUseCase(txRunner, orderRepo, productRepo, locationRepo, ledgerSvc)
	requestUC := request.NewUseCase(requestRepo, membershipRepo, transferCoordinator)
	reconciliationUC := reconciliation.NewUseCase(txRunner, inventoryRepo, ledgerSvc)
	reportingUC := reporting.NewUseCase(lineRepo, reportRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:         ledgerSvc,
		Transfers:      transferCoordinator,
		Purchasing:     purchasingUC,
		Requests:       requestUC,
		Reconciliation: reconciliationUC,
		Reporting:      reportingUC,
		Memberships:    membershipRepo,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
