package router

import (
	"net/http"

	"github.com/VishSinh/vsc-be/internal/config"
	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/enum"
	"github.com/VishSinh/vsc-be/internal/handler"
	"github.com/VishSinh/vsc-be/internal/logger"
	mw "github.com/VishSinh/vsc-be/internal/middleware"
	"github.com/VishSinh/vsc-be/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Services bundles the domain services the HTTP layer talks to.
type Services struct {
	Orders     *service.OrderService
	Inventory  *service.InventoryService
	Production *service.ProductionService
	Billing    *service.BillingService
	Analytics  *service.AnalyticsService
}

// NewServices wires every service to the pool with sqlc-style store
// factories, the wall clock and the database audit log.
func NewServices(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, clock clockwork.Clock) *Services {
	audit := service.NewAuditLogger(queries)
	return &Services{
		Orders: service.NewOrderService(pool,
			func(db database.DBTX) service.OrderStore { return database.New(db) },
			clock, cfg.TaxPercentage, audit),
		Inventory: service.NewInventoryService(pool,
			func(db database.DBTX) service.CatalogStore { return database.New(db) },
			audit),
		Production: service.NewProductionService(pool,
			func(db database.DBTX) service.ProductionStore { return database.New(db) },
			clock, audit),
		Billing: service.NewBillingService(pool,
			func(db database.DBTX) service.BillStore { return database.New(db) },
			audit),
		Analytics: service.NewAnalyticsService(pool,
			func(db database.DBTX) service.AnalyticsStore { return database.New(db) },
			clock, cfg.LowStockThreshold, cfg.OutOfStockThreshold),
	}
}

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool) chi.Router {
	return NewWithServices(cfg, queries, NewServices(cfg, queries, pool, clockwork.NewRealClock()))
}

// NewWithServices is New with prebuilt services.
func NewWithServices(cfg *config.Config, queries *database.Queries, svc *Services) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(logger.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	managers := mw.RequireRole(enum.StaffRoleAdmin, enum.StaffRoleManager)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		customerHandler := handler.NewCustomerHandler(queries, svc.Orders)
		r.Route("/customers", customerHandler.RegisterRoutes)

		orderHandler := handler.NewOrderHandler(svc.Orders)
		r.Route("/orders", orderHandler.RegisterRoutes)

		billHandler := handler.NewBillHandler(svc.Billing)
		r.Route("/bills", billHandler.RegisterRoutes)

		// Cards: reads for everyone, catalog and stock changes for managers.
		cardHandler := handler.NewCardHandler(svc.Inventory)
		r.Route("/cards", func(r chi.Router) {
			cardHandler.RegisterRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(managers)
				cardHandler.RegisterManageRoutes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(managers)

			productionHandler := handler.NewProductionHandler(svc.Production)
			productionHandler.RegisterRoutes(r)

			providerHandler := handler.NewProviderHandler(queries)
			providerHandler.RegisterRoutes(r)

			reportsHandler := handler.NewReportsHandler(svc.Analytics)
			r.Route("/analytics", reportsHandler.RegisterRoutes)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.StaffRoleAdmin))
			staffHandler := handler.NewStaffHandler(queries)
			r.Route("/staff", staffHandler.RegisterRoutes)

			auditHandler := handler.NewAuditHandler(queries)
			r.Route("/audit-logs", auditHandler.RegisterRoutes)
		})
	})

	log.Info().Msg("router initialized")
	return r
}
