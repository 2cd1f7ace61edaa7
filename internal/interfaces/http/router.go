package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/seedstoroots/tienda-api/internal/application/analytics"
	"github.com/seedstoroots/tienda-api/internal/application/auth"
	"github.com/seedstoroots/tienda-api/internal/application/cart"
	"github.com/seedstoroots/tienda-api/internal/application/dto"
	"github.com/seedstoroots/tienda-api/internal/application/usecase"
	"github.com/seedstoroots/tienda-api/internal/domain/entity"
	"github.com/seedstoroots/tienda-api/pkg/logger"
	"github.com/seedstoroots/tienda-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	UserUC    *usecase.UserUseCase
	ProductUC *usecase.ProductUseCase
	CartUC    *cart.UseCase
	StatsUC   *analytics.StatsUseCase
	Tokens    TokenParser
	Logger    *logger.Logger
	Metrics   *metrics.Metrics // opcional
	Storage   string
	Ping      func(ctx context.Context) error // opcional, usado por /health
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	var observer HTTPObserver
	if deps.Metrics != nil {
		observer = deps.Metrics
	}
	app.Use(RequestLogger(log.Component("http"), observer))

	app.Get("/health", healthHandler(deps.Storage, deps.Ping))
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	authn := AuthMiddleware(deps.Tokens)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup := app.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", authHandler.Register)

	api := app.Group("/api")

	// Productos: lectura pública, escritura ADMIN
	productHandler := NewProductHandler(deps.ProductUC, log)
	products := api.Group("/productos")
	products.Get("/", productHandler.List)
	products.Get("/recientes", productHandler.Recent)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", authn, adminOnly, productHandler.Create)
	products.Put("/:id", authn, adminOnly, productHandler.Update)
	products.Delete("/:id", authn, adminOnly, productHandler.Delete)

	// Carrito (autenticado; el use case exige que sea el propio usuario)
	cartHandler := NewCartHandler(deps.CartUC, log)
	carts := api.Group("/carrito", authn)
	carts.Get("/:userId", cartHandler.Get)
	carts.Get("/:userId/cotizacion", cartHandler.Quote)
	carts.Post("/:userId/add", cartHandler.Add)
	carts.Put("/:userId/update", cartHandler.Update)
	carts.Delete("/:userId/remove/:productId", cartHandler.Remove)
	carts.Delete("/:userId/clear", cartHandler.Clear)

	// Usuarios (ADMIN)
	userHandler := NewUserHandler(deps.UserUC, log)
	users := api.Group("/usuarios", authn, adminOnly)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/email/:email", userHandler.GetByEmail)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Deactivate)

	// Estadísticas (ADMIN)
	statsHandler := NewStatsHandler(deps.StatsUC, log)
	api.Get("/estadisticas", authn, adminOnly, statsHandler.Summary)
}

// healthHandler godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
func healthHandler(storage string, ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ping != nil {
			if err := ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "degraded", Storage: storage})
			}
		}
		return c.JSON(dto.HealthResponse{Status: "ok", Storage: storage})
	}
}
