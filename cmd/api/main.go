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
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/bodegas-api/docs"
	"github.com/jhoicas/bodegas-api/internal/application/inventory"
	"github.com/jhoicas/bodegas-api/internal/application/usecase"
	"github.com/jhoicas/bodegas-api/internal/domain/repository"
	"github.com/jhoicas/bodegas-api/internal/infrastructure/cassandra"
	"github.com/jhoicas/bodegas-api/internal/infrastructure/memory"
	"github.com/jhoicas/bodegas-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/bodegas-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/bodegas-api/internal/interfaces/http"
	"github.com/jhoicas/bodegas-api/pkg/config"
	"github.com/jhoicas/bodegas-api/pkg/logger"
	"github.com/jhoicas/bodegas-api/pkg/telemetry"
)

// @title        Bodegas API
// @version      1.0
// @description  Bodegas e inventario desnormalizado por ítem y por categoría.
// @BasePath     /
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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	tp, shutdownTracer, err := telemetry.Setup(ctx, cfg.App.Name, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Error().Err(err).Msg("cerrar trazas")
		}
	}()
	tracer := tp.Tracer(cfg.App.Name)

	warehouseRepo, inventoryRepo, closeStorage := openStorage(ctx, cfg, log)
	defer closeStorage()

	var guard inventory.IdempotencyGuard = memory.NewIdempotencyGuard()
	if cfg.Redis.Addr != "" {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		guard = infraredis.NewIdempotencyGuard(client)
	}

	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, tracer)
	inventoryUC := inventory.NewInventoryUseCase(inventoryRepo, warehouseRepo, guard, tracer, log, inventory.Options{
		MaxAttempts: cfg.Inventory.AdjustMaxAttempts,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bodegas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC: warehouseUC,
		InventoryUC: inventoryUC,
		Log:         log,
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

// openStorage abre el cliente compartido del motor configurado y crea el esquema si hace falta.
// La función devuelta cierra el cliente al apagar.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.WarehouseRepository, repository.InventoryRepository, func()) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema PostgreSQL")
		}
		return postgres.NewWarehouseRepository(pool), postgres.NewInventoryRepository(pool), pool.Close

	case config.DriverMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos no sobreviven a un reinicio")
		store := memory.NewStore()
		return store, store, func() {}

	default:
		session, err := cassandra.NewSession(ctx, cfg.Cassandra)
		if err != nil {
			log.Fatal().Err(err).Strs("hosts", cfg.Cassandra.Hosts).Msg("conexión a Cassandra")
		}
		return cassandra.NewWarehouseRepository(session), cassandra.NewInventoryRepository(session), session.Close
	}
}
