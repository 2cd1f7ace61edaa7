package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"

	"github.com/seedstoroots/tienda-api/docs"
	"github.com/seedstoroots/tienda-api/internal/application/analytics"
	"github.com/seedstoroots/tienda-api/internal/application/auth"
	"github.com/seedstoroots/tienda-api/internal/application/cart"
	"github.com/seedstoroots/tienda-api/internal/application/usecase"
	"github.com/seedstoroots/tienda-api/internal/domain/repository"
	"github.com/seedstoroots/tienda-api/internal/infrastructure/cache"
	"github.com/seedstoroots/tienda-api/internal/infrastructure/memory"
	infrapdf "github.com/seedstoroots/tienda-api/internal/infrastructure/pdf"
	"github.com/seedstoroots/tienda-api/internal/infrastructure/postgres"
	httpRouter "github.com/seedstoroots/tienda-api/internal/interfaces/http"
	"github.com/seedstoroots/tienda-api/pkg/config"
	"github.com/seedstoroots/tienda-api/pkg/jwt"
	"github.com/seedstoroots/tienda-api/pkg/logger"
	"github.com/seedstoroots/tienda-api/pkg/metrics"
)

// storage repositorios del backend elegido por STORAGE_DRIVER.
type storage struct {
	users    repository.UserRepository
	products repository.ProductRepository
	tx       cart.TxRunner
	ping     func(ctx context.Context) error
	close    func()
}

// @title                       Tienda API
// @version                     1.0
// @description                 Catálogo, cuentas y carrito de compras.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	// Los montos viajan como número JSON, no como string.
	decimal.MarshalJSONWithoutQuotes = true

	if err := run(context.Background(), cfg, log); err != nil {
		log.Fatal().Err(err).Msg("aplicación finalizada con error")
	}
	log.Info().Msg("aplicación detenida")
}

// run arma y levanta el servidor hasta recibir SIGINT/SIGTERM.
// Los recursos abiertos se cierran antes de devolver cualquier error.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("inicializar almacenamiento: %w", err)
	}
	defer store.close()

	m := metrics.New()

	tokens, err := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Lifetime(), cfg.JWT.Issuer)
	if err != nil {
		return fmt.Errorf("servicio de tokens: %w", err)
	}

	var productCache usecase.ProductCache
	if cfg.Cache.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			// Sin Redis el catálogo se lee directo de la base de datos.
			log.Warn().Err(err).Msg("redis no disponible, caché desactivada")
		} else {
			defer client.Close()
			productCache = cache.NewProductCache(cache.NewRedisKV(client), cfg.Cache.TTL(), log, m)
			log.Info().Dur("ttl", cfg.Cache.TTL()).Msg("caché de productos en redis")
		}
	}

	userUC := usecase.NewUserUseCase(store.users)
	productUC := usecase.NewProductUseCase(store.products, productCache)
	authUC := auth.NewAuthUseCase(store.users, userUC, tokens, m)
	cartUC := cart.NewUseCase(store.tx,
		cart.WithRecorder(m),
		cart.WithQuoteRenderer(infrapdf.NewQuoteGenerator(cfg.App.Name)),
	)
	statsUC := analytics.NewStatsUseCase(store.products, store.users)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		created, err := userUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("crear administrador inicial: %w", err)
		}
		if created {
			log.Info().Str("email", cfg.Admin.Email).Msg("administrador inicial creado")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions}, ","),
	}))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.HTTP.DocsEnabled {
		if _, err := os.Stat(docs.FilePath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: docs.FilePath,
				Path:     "docs",
				Title:    docs.SwaggerInfo.Title,
			}))
		} else {
			log.Warn().Str("file", docs.FilePath).Msg("swagger.json no encontrado, /docs desactivado")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		UserUC:    userUC,
		ProductUC: productUC,
		CartUC:    cartUC,
		StatsUC:   statsUC,
		Tokens:    tokens,
		Logger:    log,
		Metrics:   m,
		Storage:   cfg.Storage.Driver,
		Ping:      store.ping,
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
		return fmt.Errorf("apagado del servidor: %w", err)
	}
	return nil
}

// openStorage abre PostgreSQL (aplicando migraciones si DB_AUTO_MIGRATE) o el almacén en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		mem := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			users:    mem.Users(),
			products: mem.Products(),
			tx:       memory.NewTxRunner(mem),
			close:    func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		version, err := postgres.Migrate(cfg.DB.ConnectionString())
		if err != nil {
			return nil, err
		}
		log.Info().Uint("version", version).Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		users:    postgres.NewUserRepository(pool),
		products: postgres.NewProductRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		ping:     pool.Ping,
		close:    pool.Close,
	}, nil
}
