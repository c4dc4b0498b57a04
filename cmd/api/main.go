package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Comedor-api/internal/application/inventory"
	"github.com/jhoicas/Comedor-api/internal/domain/repository"
	"github.com/jhoicas/Comedor-api/internal/infrastructure/excel"
	"github.com/jhoicas/Comedor-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comedor-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Comedor-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Comedor-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Comedor-api/internal/interfaces/http"
	"github.com/jhoicas/Comedor-api/pkg/config"
	"github.com/jhoicas/Comedor-api/pkg/logger"
)

// storage repositorios de lectura y TxRunner del driver elegido.
type storage struct {
	txRunner    inventory.TxRunner
	lots        repository.LotRepository
	movements   repository.StockMovementRepository
	audits      repository.StockAuditRepository
	ingredients repository.IngredientRepository
	menuItems   repository.MenuItemRepository
	transient   func(error) bool
	close       func()
}

func openStorage(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*storage, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn().Msg("driver memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			txRunner:    memory.NewTxRunner(store),
			lots:        memory.NewLotRepository(store),
			movements:   memory.NewStockMovementRepository(store),
			audits:      memory.NewStockAuditRepository(store),
			ingredients: memory.NewIngredientRepository(store),
			menuItems:   memory.NewMenuItemRepository(store),
			close:       func() {},
		}, nil
	}

	if cfg.AutoMigrate {
		if err := postgres.Migrate(cfg.ConnectionString()); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &storage{
		txRunner:    postgres.NewTxRunner(pool),
		lots:        postgres.NewLotRepository(pool),
		movements:   postgres.NewStockMovementRepository(pool),
		audits:      postgres.NewStockAuditRepository(pool),
		ingredients: postgres.NewIngredientRepository(pool),
		menuItems:   postgres.NewMenuItemRepository(pool),
		transient:   postgres.IsTransientError,
		close:       pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStorage(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	var observer inventory.LedgerObserver
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		m := metrics.NewLedgerMetrics()
		observer, metricsHandler = m, m.Handler()
	}

	var publisher inventory.StockEventPublisher
	if cfg.Redis.Enabled {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer func() { _ = client.Close() }()
		publisher = infraredis.NewMovementPublisher(client, cfg.Redis.Channel)
		log.Info().Str("channel", cfg.Redis.Channel).Msg("publicación de movimientos habilitada")
	}

	ledger := inventory.NewRegisterMovementUseCase(st.txRunner, observer, publisher, log)
	auditUC := inventory.NewAuditUseCase(st.txRunner, ledger, st.audits, observer, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegisterMovement:  ledger,
		Audit:             auditUC,
		Costing:           inventory.NewCostingUseCase(st.menuItems, st.ingredients, st.lots),
		Waste:             inventory.NewWasteUseCase(st.txRunner, ledger),
		Production:        inventory.NewProductionUseCase(st.txRunner, ledger, log),
		History:           inventory.NewHistoryUseCase(st.movements, st.ingredients, st.menuItems),
		PurchaseReceipt:   inventory.NewPurchaseReceiptUseCase(st.txRunner, ledger),
		TicketConsumption: inventory.NewTicketConsumptionUseCase(st.txRunner, ledger),
		CountSheet:        inventory.NewCountSheetUseCase(st.ingredients, st.menuItems, st.lots, auditUC, excel.NewCountSheetCodec()),
		Retry:             httpRouter.NewTxRetrier(cfg.HTTP.MaxRetries, st.transient),
		JWTSecret:         cfg.JWT.Secret,
		ServiceName:       cfg.App.Name,
		Metrics:           metricsHandler,
		MetricsPath:       cfg.Metrics.Path,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
