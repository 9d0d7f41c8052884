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
	"github.com/jhoicas/Restaurante-api/docs"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/repository"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/lock"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Restaurante-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Restaurante-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Restaurante-api/internal/interfaces/http"
	"github.com/jhoicas/Restaurante-api/pkg/config"
	"github.com/jhoicas/Restaurante-api/pkg/logger"
)

// stores repositorios y runner del almacén elegido por LEDGER_STORE.
type stores struct {
	txRunner       inventory.TxRunner
	ingredientRepo repository.IngredientRepository
	entryRepo      repository.StockEntryRepository
	txRepo         repository.StockTransactionRepository
	recipeRepo     repository.RecipeRepository
	close          func()
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
		Str("store", cfg.Ledger.Store).
		Str("shortfall_policy", cfg.Ledger.ShortfallPolicy).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st := openStores(ctx, cfg, log)
	defer st.close()

	var locker inventory.Locker = lock.NewKeyedMutex()
	if cfg.Redis.Enabled() {
		rdb, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL(), log.Component("lock"))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("bloqueo de pedidos en Redis")
	}

	policy, err := inventory.ParseShortfallPolicy(cfg.Ledger.ShortfallPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de faltantes")
	}

	ledgerLog := log.Component("ledger")
	engine := inventory.NewDeductionEngine(st.txRunner, ledgerLog)
	checker := inventory.NewAvailabilityChecker(st.recipeRepo, st.ingredientRepo, st.entryRepo)
	entriesUC := inventory.NewStockEntryUseCase(st.txRunner, st.ingredientRepo, st.entryRepo, ledgerLog)
	levelsUC := inventory.NewStockLevelUseCase(st.ingredientRepo, st.entryRepo,
		infrapdf.NewMarotoPDFGenerator(), cfg.Ledger.LowStockThreshold)
	restockUC := inventory.NewReplenishmentUseCase(levelsUC, st.txRepo)
	ledgerUC := inventory.NewLedgerUseCase(st.txRunner, st.ingredientRepo, st.txRepo, cfg.Ledger.HistoryPageSize)
	fulfillmentUC := inventory.NewFulfillmentUseCase(
		st.txRunner, st.recipeRepo, st.txRepo, engine, checker, locker,
		inventory.FulfillmentOptions{Policy: policy, FanOut: cfg.Ledger.FanOut},
		log.Component("orders"),
	)

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
		Title:    docs.SwaggerInfo.Title,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Ledger.Store})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Entries:     entriesUC,
		Levels:      levelsUC,
		Engine:      engine,
		Ledger:      ledgerUC,
		Restock:     restockUC,
		Checker:     checker,
		Fulfillment: fulfillmentUC,
		JWTSecret:   cfg.JWT.Secret,
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

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	if cfg.Ledger.Store == config.StoreMemory {
		s := memory.NewDemoStore()
		ingRepo, entryRepo, txRepo, recipeRepo := s.Repositories()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return stores{
			txRunner:       memory.NewTxRunner(s),
			ingredientRepo: ingRepo,
			entryRepo:      entryRepo,
			txRepo:         txRepo,
			recipeRepo:     recipeRepo,
			close:          func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.Ledger.FanOut)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("scripts", applied).Msg("migraciones aplicadas")
	}
	return stores{
		txRunner:       postgres.NewTxRunner(pool),
		ingredientRepo: postgres.NewIngredientRepository(pool),
		entryRepo:      postgres.NewStockEntryRepository(pool),
		txRepo:         postgres.NewStockTransactionRepository(pool),
		recipeRepo:     postgres.NewRecipeRepository(pool),
		close:          pool.Close,
	}
}
