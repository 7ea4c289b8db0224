package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"kkp-asta/internal/config"
	"kkp-asta/internal/handler"
	"kkp-asta/internal/metrics"
	"kkp-asta/internal/middleware"
	"kkp-asta/internal/repository"
	"kkp-asta/internal/service"
	"kkp-asta/internal/ws"
	"kkp-asta/pkg/database"
	"kkp-asta/pkg/jwt"
	"kkp-asta/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func main() {
	envFile := flag.String("env", "", "path to a .env file (defaults to ./.env when present)")
	flag.Parse()
	defer logger.Sync()

	// 1. Load Env
	path := *envFile
	if path == "" {
		if _, err := os.Stat(".env"); err == nil {
			path = ".env"
		} else {
			logger.Warn(".env file not found, relying on system env")
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal(err)
	}
	loc := cfg.Location()

	// 2. Transaction taxonomy is validated before anything touches storage
	taxonomy, err := config.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		logger.Fatal(err, "path", cfg.TaxonomyPath)
	}

	// 3. Setup Database
	db, err := database.Connect(database.Options{DSN: cfg.DSN(), Debug: cfg.DBDebug})
	if err != nil {
		logger.Fatal(err)
	}
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	if err := repository.AutoMigrate(db); err != nil {
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	// 5. Dependency Injection (Wiring Layers)
	m := metrics.New(prometheus.DefaultRegisterer)
	tokens := jwt.NewIssuer(cfg.JWTSecret, cfg.JWTTTL())

	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	itemRepo := repository.NewItemRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	typeRepo := repository.NewTransactionTypeRepo(db)

	txService := service.NewTransactionService(repository.NewLedgerRepo(db), txRepo, taxonomy, wsHub, m)
	reportService := service.NewReportService(repository.NewReportRepo(db), m)
	typeService := service.NewTransactionTypeService(typeRepo, taxonomy)
	userService := service.NewUserService(userRepo)

	if err := seed(ctx, cfg, typeService, userService); err != nil {
		logger.Fatal(err)
	}

	router := &handler.Router{
		Auth:            handler.NewAuthHandler(service.NewAuthService(userRepo, tokens)),
		Category:        handler.NewCategoryHandler(service.NewCategoryService(categoryRepo)),
		Item:            handler.NewItemHandler(service.NewItemService(itemRepo, categoryRepo, wsHub)),
		Transaction:     handler.NewTransactionHandler(txService, loc),
		TransactionType: handler.NewTransactionTypeHandler(typeService),
		Report:          handler.NewReportHandler(reportService, loc),
		Dashboard:       handler.NewDashboardHandler(service.NewDashboardService(txRepo, cfg.LowStockThreshold, loc)),
		User:            handler.NewUserHandler(userService),
		RequireAuth:     middleware.RequireAuth(userRepo, tokens),
		Hub:             wsHub,
		Metrics:         promhttp.Handler(),
		Ping:            pinger(db),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	// 7. Routes
	router.Mount(app)

	// 8. Graceful Shutdown
	go func() {
		logger.Info("http server listening", "port", cfg.HTTPPort, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			logger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("server exited")
}

// seed writes the transaction taxonomy and the bootstrap owner account.
func seed(ctx context.Context, cfg *config.Config, types service.TransactionTypeService, users service.UserService) error {
	if err := types.Sync(ctx); err != nil {
		return err
	}

	created, err := users.EnsureOwner(ctx, "Owner", cfg.OwnerEmail, cfg.OwnerPassword)
	if err != nil {
		return err
	}
	if created {
		logger.Info("owner account created", "email", cfg.OwnerEmail)
		if cfg.IsProduction() {
			logger.Warn("owner was created with the configured bootstrap password, change it after first login")
		}
	}
	return nil
}

func pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
