package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/TANADADaisuke/kinder-closet-app/docs"
	"github.com/TANADADaisuke/kinder-closet-app/internal/api/handler"
	"github.com/TANADADaisuke/kinder-closet-app/internal/api/middleware"
	"github.com/TANADADaisuke/kinder-closet-app/internal/auth"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/ports"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Clothes      ports.ClothesService
	Users        ports.UserService
	Reservations ports.ReservationService
	Verifier     *auth.Verifier

	// Health lists the dependencies pinged by the readiness check.
	Health  map[string]handler.Pinger
	Excited bool
	Logger  zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title                       Kinder Closet API
// @version                     1.0
// @description                 Clothing-reuse exchange: catalog, users and reservations.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// HTTP metrics get their own registry so routers can be built repeatedly.
	registry := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "closet",
		Subsystem:  "http",
		Registerer: registry,
	}))

	// --- Open routes ---
	health := handler.NewHealthHandler(deps.Excited, deps.Health)
	e.GET("/", health.Greeting)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{registry, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated routes ---
	authn := middleware.Auth(deps.Verifier)
	scoped := func(scopes ...domain.Scope) []echo.MiddlewareFunc {
		if len(scopes) == 0 {
			return []echo.MiddlewareFunc{authn}
		}
		return []echo.MiddlewareFunc{authn, middleware.RequireScope(scopes...)}
	}

	clothes := handler.NewClothesHandler(deps.Clothes)
	e.GET("/clothes", clothes.List, scoped(domain.ScopeGetClothes)...)
	e.POST("/clothes", clothes.Create, scoped(domain.ScopePostClothes)...)
	e.GET("/clothes/:id", clothes.Get, scoped(domain.ScopeGetClothes)...)
	e.PATCH("/clothes/:id", clothes.Update, scoped(domain.ScopePatchClothes)...)
	e.DELETE("/clothes/:id", clothes.Delete, scoped(domain.ScopeDeleteClothes)...)

	reservations := handler.NewReservationHandler(deps.Reservations)
	e.GET("/clothes/:id/reservations", reservations.Get,
		scoped(domain.ScopeGetReservations, domain.ScopeGetSelfReservations)...)
	e.POST("/clothes/:id/reservations", reservations.Reserve, scoped(domain.ScopePostReservations)...)
	e.DELETE("/clothes/:id/reservations", reservations.Cancel,
		scoped(domain.ScopeDeleteReservations, domain.ScopeDeleteSelfReservations)...)

	users := handler.NewUserHandler(deps.Users)
	e.GET("/users", users.List, scoped(domain.ScopeGetUsers)...)
	e.POST("/users", users.Create, scoped(domain.ScopePostUsers)...)
	e.GET("/users/me", users.Me, scoped()...)
	e.GET("/users/:id", users.Get, scoped(domain.ScopeGetUsers, domain.ScopeGetSelfReservations)...)
	e.PATCH("/users/:id", users.Update, scoped(domain.ScopePatchUsers)...)
	e.DELETE("/users/:id", users.Delete, scoped(domain.ScopeDeleteUsers)...)

	e.GET("/users/:id/reservations", reservations.ListForUser,
		scoped(domain.ScopeGetReservations, domain.ScopeGetSelfReservations)...)
	e.POST("/users/:id/reservations", reservations.BulkReserve, scoped(domain.ScopePostReservations)...)
	e.DELETE("/users/:id/reservations", reservations.BulkCancel,
		scoped(domain.ScopeDeleteReservations, domain.ScopeDeleteSelfReservations)...)

	return e
}
