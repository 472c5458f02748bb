package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spendeeapp/spendee-go/internal/domain/auth"
	"github.com/spendeeapp/spendee-go/internal/domain/category"
	"github.com/spendeeapp/spendee-go/internal/domain/goal"
	"github.com/spendeeapp/spendee-go/internal/domain/limits"
	"github.com/spendeeapp/spendee-go/internal/domain/reports"
	"github.com/spendeeapp/spendee-go/internal/domain/statement"
	statementhandler "github.com/spendeeapp/spendee-go/internal/domain/statement/handler"
	statementservice "github.com/spendeeapp/spendee-go/internal/domain/statement/service"
	"github.com/spendeeapp/spendee-go/internal/domain/suggestions"
	"github.com/spendeeapp/spendee-go/internal/domain/transaction"
	"github.com/spendeeapp/spendee-go/pkg/config"
	"github.com/spendeeapp/spendee-go/pkg/cron"
	"github.com/spendeeapp/spendee-go/pkg/db"
	"github.com/spendeeapp/spendee-go/pkg/metrics"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	Config  *config.Config
	DB      *db.DB
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// Repositories
	AuthRepo         auth.Repository
	TransactionRepo  transaction.Repository
	CategoryRepo     category.Repository
	LimitRepo        *limits.PostgresRepository
	NotificationRepo limits.NotificationRepository
	GoalRepo         goal.Repository

	// Services
	TokenManager       *auth.TokenManager
	AuthService        *auth.Service
	TransactionService *transaction.Service
	CategoryService    *category.Service
	StatementService   *statementservice.Service
	LimitService       *limits.Service
	GoalService        *goal.Service
	ReportsService     *reports.Service

	// Handlers
	AuthHandler        *auth.Handler
	TransactionHandler *transaction.Handler
	CategoryHandler    *category.Handler
	StatementHandler   *statementhandler.Handler
	LimitHandler       *limits.Handler
	GoalHandler        *goal.Handler
	ReportsHandler     *reports.Handler
	SuggestionsHandler *suggestions.Handler

	Scheduler *cron.Scheduler
}

// InitDependencies initializes all application dependencies.
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}
	deps.initRepositories()
	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}
	deps.initHandlers()

	deps.Scheduler = cron.NewScheduler(deps.LimitService, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase connects the pool and runs migrations.
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}
	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

func (d *Dependencies) initRepositories() {
	d.AuthRepo = auth.NewPostgresRepository(d.DB.Pool)
	d.TransactionRepo = transaction.NewPostgresRepository(d.DB.Pool)
	d.CategoryRepo = category.NewPostgresRepository(d.DB.Pool)
	d.LimitRepo = limits.NewPostgresRepository(d.DB.Pool)
	d.NotificationRepo = limits.NewPostgresNotificationRepository(d.DB.Pool)
	d.GoalRepo = goal.NewPostgresRepository(d.DB.Pool)

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() error {
	jwtSecret := []byte(d.Config.Auth.JWTSecret)
	if len(jwtSecret) == 0 {
		return fmt.Errorf("jwt secret is required")
	}

	accessTTL := time.Duration(d.Config.Auth.AccessTokenTTL) * time.Minute
	d.TokenManager = auth.NewTokenManager(jwtSecret, accessTTL)
	d.AuthService = auth.NewService(d.AuthRepo, d.TokenManager, d.Logger)

	d.TransactionService = transaction.NewService(d.TransactionRepo)
	d.CategoryService = category.NewService(d.CategoryRepo)

	// Statement imports: PDF extraction plus the transaction store and the
	// category resolver for the default import category.
	d.StatementService = statementservice.NewService(
		statement.NewExtractor(),
		d.TransactionRepo,
		d.CategoryService,
		d.Logger,
	)

	d.LimitService = limits.NewService(d.LimitRepo, d.NotificationRepo, d.LimitRepo, d.CategoryRepo, d.Logger)
	d.GoalService = goal.NewService(d.GoalRepo)
	d.ReportsService = reports.NewService(d.TransactionRepo)

	d.Logger.Info("services initialized")
	return nil
}

func (d *Dependencies) initHandlers() {
	d.AuthHandler = auth.NewHandler(d.AuthService, d.Logger)
	d.TransactionHandler = transaction.NewHandler(d.TransactionService, d.Logger)
	d.CategoryHandler = category.NewHandler(d.CategoryService, d.Logger)
	d.StatementHandler = statementhandler.NewHandler(d.StatementService, d.Metrics, d.Config.Server.MaxUploadBytes, d.Logger)
	d.LimitHandler = limits.NewHandler(d.LimitService, d.Logger)
	d.GoalHandler = goal.NewHandler(d.GoalService, d.Logger)
	d.ReportsHandler = reports.NewHandler(d.ReportsService, d.Logger)
	d.SuggestionsHandler = suggestions.NewHandler(d.CategoryService, d.Logger)

	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources.
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
