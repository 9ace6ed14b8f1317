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
	"github.com/shopspring/decimal"

	"github.com/vpmotos/vpmotos-api/internal/application/auth"
	"github.com/vpmotos/vpmotos-api/internal/application/inventory"
	"github.com/vpmotos/vpmotos-api/internal/application/sales"
	"github.com/vpmotos/vpmotos-api/internal/application/tenant"
	"github.com/vpmotos/vpmotos-api/internal/application/transfer"
	"github.com/vpmotos/vpmotos-api/internal/application/usecase"
	"github.com/vpmotos/vpmotos-api/internal/infrastructure/postgres"
	httpRouter "github.com/vpmotos/vpmotos-api/internal/interfaces/http"
	"github.com/vpmotos/vpmotos-api/pkg/config"
	"github.com/vpmotos/vpmotos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	// Tablas del schema compartido; los schemas por sucursal se materializan
	// al crear cada sucursal.
	if err := postgres.NewSchemaManager(pool).EnsureSharedTables(ctx); err != nil {
		log.Fatal().Err(err).Msg("tablas compartidas")
	}

	branchRepo := postgres.NewBranchRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	detailRepo := postgres.NewTransferDetailRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	paramRepo := postgres.NewParameterRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// El parámetro IVA_PERCENTAGE en base de datos tiene prioridad sobre el
	// valor de entorno; permite ajustar la tasa sin redesplegar.
	if p, err := paramRepo.Get("IVA_PERCENTAGE"); err != nil {
		log.Warn().Err(err).Msg("leyendo IVA_PERCENTAGE; se usa el valor de entorno")
	} else if p != nil {
		if vat, err := decimal.NewFromString(p.Value); err == nil {
			cfg.Business.VATPercent = vat
		}
	}

	branchUC := usecase.NewBranchUseCase(txRunner, branchRepo, eventRepo, log)
	productUC := usecase.NewProductUseCase(txRunner)
	inventoryUC := inventory.NewUseCase(txRunner)
	transferUC := transfer.NewUseCase(txRunner, branchRepo, transferRepo, detailRepo, eventRepo, log)
	salesUC := sales.NewUseCase(txRunner, eventRepo, cfg.Business.VATPercent, log)
	authUC := auth.NewUseCase(userRepo, branchRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	resolver := tenant.NewResolver(branchRepo, log)

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
		Title:    "VP Motos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		BranchUC:    branchUC,
		ProductUC:   productUC,
		InventoryUC: inventoryUC,
		TransferUC:  transferUC,
		SalesUC:     salesUC,
		Resolver:    resolver,
		JWTSecret:   cfg.JWT.Secret,
		VATPercent:  cfg.Business.VATPercent,
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
