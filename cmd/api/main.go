package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fabrikk-as/console-api/docs"
	"github.com/fabrikk-as/console-api/internal/auth"
	"github.com/fabrikk-as/console-api/internal/config"
	"github.com/fabrikk-as/console-api/internal/database"
	"github.com/fabrikk-as/console-api/internal/erp"
	"github.com/fabrikk-as/console-api/internal/http/handler"
	"github.com/fabrikk-as/console-api/internal/http/middleware"
	"github.com/fabrikk-as/console-api/internal/http/router"
	"github.com/fabrikk-as/console-api/internal/jobs"
	"github.com/fabrikk-as/console-api/internal/logger"
	"github.com/fabrikk-as/console-api/internal/repository"
	"github.com/fabrikk-as/console-api/internal/service"
	"github.com/fabrikk-as/console-api/internal/storage"
	"github.com/fabrikk-as/console-api/internal/workflow"
)

// @title Fabrikk Console API
// @version 1.0
// @description Business console API for fabrication and installation jobs: quotations, sales orders, projects, work orders, invoicing and contractor settlement

// @contact.name API Support
// @contact.email support@fabrikk.no

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "console-staging.fabrikk.no"
	case "production":
		docs.SwaggerInfo.Host = "console-api.fabrikk.no"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// ERP connection is optional and read-only; the app continues without it
	var erpClient *erp.Client
	if cfg.Erp.Enabled {
		erpClient, err = erp.NewClient(&cfg.Erp, log)
		if err != nil {
			log.Warn("ERP connection failed, continuing without it", zap.Error(err))
		} else if erpClient != nil {
			log.Info("ERP connected",
				zap.Int("max_open_conns", cfg.Erp.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.Erp.QueryTimeout),
			)
		}
	} else {
		log.Info("ERP not configured, skipping")
	}

	// The workflow orchestrator holds every document-write rule: line
	// calculation, the payment ledger, status machines and linkage checks.
	orch := workflow.NewOrchestrator(workflow.Config{
		SellerName:            cfg.Billing.SellerName,
		SellerTaxNumber:       cfg.Billing.SellerTaxNumber,
		DefaultTaxRatePercent: decimal.NewFromFloat(cfg.Billing.DefaultTaxRatePercent),
		DueDateOffsetDays:     cfg.Billing.DueDateOffsetDays,
	})

	// Repositories
	customerRepo := repository.NewCustomerRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	salesOrderRepo := repository.NewSalesOrderRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	workOrderRepo := repository.NewWorkOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	contractorRepo := repository.NewContractorRepository(db)
	fileRepo := repository.NewFileRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)

	// Services
	numberSequenceService := service.NewNumberSequenceService(numberSequenceRepo, log)
	customerService := service.NewCustomerService(customerRepo, log)
	quotationService := service.NewQuotationService(db, quotationRepo, customerRepo, orch, numberSequenceService, log)
	salesOrderService := service.NewSalesOrderService(db, salesOrderRepo, customerRepo, fileRepo, orch, numberSequenceService, log)
	projectService := service.NewProjectService(projectRepo, orch, log)
	workOrderService := service.NewWorkOrderService(db, workOrderRepo, projectRepo, orch, numberSequenceService, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo, salesOrderRepo, orch, numberSequenceService, log)
	contractorService := service.NewContractorService(db, contractorRepo, projectRepo, orch, log)
	fileService := service.NewFileService(fileRepo, fileStorage, cfg.Storage.MaxUploadSizeMB, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	customerHandler := handler.NewCustomerHandler(customerService, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, log)
	salesOrderHandler := handler.NewSalesOrderHandler(salesOrderService, projectService, log)
	projectHandler := handler.NewProjectHandler(projectService, log)
	workOrderHandler := handler.NewWorkOrderHandler(workOrderService, log)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, log)
	contractorHandler := handler.NewContractorHandler(contractorService, log)
	fileHandler := handler.NewFileHandler(fileService, cfg.Storage.MaxUploadSizeMB, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		customerHandler,
		quotationHandler,
		salesOrderHandler,
		projectHandler,
		workOrderHandler,
		invoiceHandler,
		contractorHandler,
		fileHandler,
	)

	// Background jobs: the overdue sweep owns the overdue payment status,
	// and the ERP sync pulls paid remittances into the invoice ledger.
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterOverdueSweepJob(
			scheduler,
			invoiceService,
			log,
			cfg.Jobs.OverdueSweepSchedule,
			5*time.Minute,
		); err != nil {
			log.Error("Failed to register overdue sweep job", zap.Error(err))
		}

		if erpClient != nil && erpClient.IsEnabled() {
			if err := jobs.RegisterErpSyncJob(
				scheduler,
				erpClient,
				invoiceService,
				log,
				cfg.Jobs.ErpSyncSchedule,
				time.Duration(cfg.Erp.QueryTimeout)*time.Second,
			); err != nil {
				log.Error("Failed to register ERP sync job", zap.Error(err))
			}
		}

		scheduler.Start()
		log.Info("Scheduler started", zap.Strings("jobs", scheduler.GetJobNames()))
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if erpClient != nil {
			if err := erpClient.Close(); err != nil {
				log.Warn("Error closing ERP connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
