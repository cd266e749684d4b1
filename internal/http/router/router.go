package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fabrikk-as/console-api/internal/auth"
	"github.com/fabrikk-as/console-api/internal/config"
	"github.com/fabrikk-as/console-api/internal/database"
	"github.com/fabrikk-as/console-api/internal/http/handler"
	"github.com/fabrikk-as/console-api/internal/http/middleware"

	_ "github.com/fabrikk-as/console-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	db                *gorm.DB
	authMiddleware    *auth.Middleware
	rateLimiter       *middleware.RateLimiter
	customerHandler   *handler.CustomerHandler
	quotationHandler  *handler.QuotationHandler
	salesOrderHandler *handler.SalesOrderHandler
	projectHandler    *handler.ProjectHandler
	workOrderHandler  *handler.WorkOrderHandler
	invoiceHandler    *handler.InvoiceHandler
	contractorHandler *handler.ContractorHandler
	fileHandler       *handler.FileHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	customerHandler *handler.CustomerHandler,
	quotationHandler *handler.QuotationHandler,
	salesOrderHandler *handler.SalesOrderHandler,
	projectHandler *handler.ProjectHandler,
	workOrderHandler *handler.WorkOrderHandler,
	invoiceHandler *handler.InvoiceHandler,
	contractorHandler *handler.ContractorHandler,
	fileHandler *handler.FileHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		logger:            logger,
		db:                db,
		authMiddleware:    authMiddleware,
		rateLimiter:       rateLimiter,
		customerHandler:   customerHandler,
		quotationHandler:  quotationHandler,
		salesOrderHandler: salesOrderHandler,
		projectHandler:    projectHandler,
		workOrderHandler:  workOrderHandler,
		invoiceHandler:    invoiceHandler,
		contractorHandler: contractorHandler,
		fileHandler:       fileHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Customers
			r.Route("/customers", func(r chi.Router) {
				r.Get("/", rt.customerHandler.List)
				r.Post("/", rt.customerHandler.Create)
				r.Get("/search", rt.customerHandler.Search)
				r.Get("/{id}", rt.customerHandler.GetByID)
				r.Put("/{id}", rt.customerHandler.Update)
			})

			// Quotations
			r.Route("/quotations", func(r chi.Router) {
				r.Get("/", rt.quotationHandler.List)
				r.Post("/", rt.quotationHandler.Create)
				r.Get("/{id}", rt.quotationHandler.GetByID)
				r.Put("/{id}", rt.quotationHandler.Update)
				r.Delete("/{id}", rt.quotationHandler.Delete)

				// Lifecycle endpoints
				r.Post("/{id}/issue", rt.quotationHandler.Issue)
				r.Post("/{id}/accept", rt.quotationHandler.Accept)
				r.Post("/{id}/reject", rt.quotationHandler.Reject)
			})

			// Sales orders
			r.Route("/sales-orders", func(r chi.Router) {
				r.Get("/", rt.salesOrderHandler.List)
				r.Post("/", rt.salesOrderHandler.Create)
				r.Get("/{id}", rt.salesOrderHandler.GetByID)
				r.Put("/{id}", rt.salesOrderHandler.Update)

				// Lifecycle endpoints
				r.Post("/{id}/submit", rt.salesOrderHandler.Submit)
				r.Post("/{id}/start", rt.salesOrderHandler.Start)
				r.Post("/{id}/cancel", rt.salesOrderHandler.Cancel)
				r.Post("/{id}/complete", rt.salesOrderHandler.Complete)

				r.Get("/{id}/project", rt.salesOrderHandler.GetProject)
			})

			// Projects
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", rt.projectHandler.List)
				r.Get("/{id}", rt.projectHandler.GetByID)
				r.Put("/{id}", rt.projectHandler.Update)
				r.Post("/{id}/transition", rt.projectHandler.Transition)
				r.Post("/{id}/sign-delivery-note", rt.projectHandler.SignDeliveryNote)
			})

			// Work orders
			r.Route("/work-orders", func(r chi.Router) {
				r.Get("/", rt.workOrderHandler.List)
				r.Post("/", rt.workOrderHandler.Create)
				r.Get("/{id}", rt.workOrderHandler.GetByID)
				r.Put("/{id}", rt.workOrderHandler.Update)
				r.Post("/{id}/transition", rt.workOrderHandler.Transition)
			})

			// Invoices
			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", rt.invoiceHandler.List)
				r.Post("/", rt.invoiceHandler.Create)
				r.Get("/{id}", rt.invoiceHandler.GetByID)
				r.Post("/{id}/payments", rt.invoiceHandler.RecordPayment)
			})

			// Contractors
			r.Route("/contractors", func(r chi.Router) {
				r.Get("/", rt.contractorHandler.List)
				r.Post("/", rt.contractorHandler.Create)
				r.Get("/{id}", rt.contractorHandler.GetByID)
			})

			// Contractor assignments
			r.Route("/contractor-assignments", func(r chi.Router) {
				r.Get("/", rt.contractorHandler.ListAssignments)
				r.Post("/", rt.contractorHandler.CreateAssignment)
				r.Get("/{id}", rt.contractorHandler.GetAssignment)
				r.Post("/{id}/payments", rt.contractorHandler.RecordPayment)
			})

			// Files
			r.Route("/files", func(r chi.Router) {
				r.Get("/", rt.fileHandler.ListForDocument)
				r.Post("/upload", rt.fileHandler.Upload)
				r.Get("/{id}", rt.fileHandler.GetByID)
				r.Get("/{id}/download", rt.fileHandler.Download)
				r.Delete("/{id}", rt.fileHandler.Delete)
			})
		})
	})

	return r
}
