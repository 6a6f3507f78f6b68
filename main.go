package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ryanuo/aug-calc/src/api"
	apicontrollers "github.com/ryanuo/aug-calc/src/api/controllers"
	apihandlers "github.com/ryanuo/aug-calc/src/api/handlers"
	"github.com/ryanuo/aug-calc/src/clients/gold"
	"github.com/ryanuo/aug-calc/src/config"
	"github.com/ryanuo/aug-calc/src/database"
	"github.com/ryanuo/aug-calc/src/notifications"
	"github.com/ryanuo/aug-calc/src/repositories"
	"github.com/ryanuo/aug-calc/src/services"
	"github.com/ryanuo/aug-calc/src/utils"
	aws_handler "github.com/ryanuo/aug-calc/src/utils/aws"
	redis_utils "github.com/ryanuo/aug-calc/src/utils/redis"
	"github.com/ryanuo/aug-calc/src/worker"
	workercontrollers "github.com/ryanuo/aug-calc/src/worker/controllers"
	workerhandlers "github.com/ryanuo/aug-calc/src/worker/handlers"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Println(err, "Error while loading .env")
	}

	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		log.Println(err, "Error while loading config")
		return
	}

	logger, err := utils.NewLoggerFromLevel(cfg.Logging.Level, cfg.Logging.File, cfg.Logging.JSONMode)
	if err != nil {
		log.Println(err, "Error while creating logger")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := run(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Couldn't run")
		return
	}

	select {
	case err := <-app.errC:
		logger.WithError(err).Error("Error while running")
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	app.shutdown(shutdownCtx)
}

type application struct {
	errC    chan error
	closers []func(ctx context.Context) error
}

func (a *application) onShutdown(closer func(ctx context.Context) error) {
	a.closers = append(a.closers, closer)
}

// shutdown runs the closers in reverse registration order.
func (a *application) shutdown(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Println(err, "Error during shutdown")
		}
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*application, error) {
	app := &application{errC: make(chan error, 1)}

	quotes, err := newQuoteService(ctx, cfg, logger, app)
	if err != nil {
		app.shutdown(ctx)
		return nil, err
	}

	var httpServer *http.Server
	switch cfg.Service.Type {
	case config.API:
		transactions, err := newTransactionRepository(ctx, cfg, logger, app)
		if err != nil {
			app.shutdown(ctx)
			return nil, err
		}
		notifier := notifications.NewNotifier(logger, cfg.Notifications.DefaultDuration)
		app.onShutdown(func(context.Context) error {
			notifier.Close()
			return nil
		})

		controller := apicontrollers.NewController(
			transactions,
			quotes,
			services.NewReportService(),
			notifier,
			cfg.Ledger.DefaultFeeRate,
			logger,
		)
		server := api.NewServer(apihandlers.NewHandler(controller, logger), cfg)
		httpServer = api.NewHTTPServer(server, cfg.Service.Port)
	case config.WORKER:
		controller := workercontrollers.NewController(quotes, logger)
		if err := controller.ScheduleRefresh(cfg.ExternalClients.Gold.RefreshCron); err != nil {
			app.shutdown(ctx)
			return nil, fmt.Errorf("scheduling gold refresh: %w", err)
		}
		app.onShutdown(func(context.Context) error {
			controller.Stop()
			return nil
		})
		server := worker.NewServer(workerhandlers.NewHandler(controller))
		httpServer = worker.NewHTTPServer(server, cfg.Service.Port)
	default:
		app.shutdown(ctx)
		return nil, fmt.Errorf("unknown service type %q", cfg.Service.Type)
	}
	app.onShutdown(httpServer.Shutdown)

	go func() {
		logger.WithFields(logrus.Fields{
			"type": cfg.Service.Type,
			"port": cfg.Service.Port,
		}).Info("Starting server")

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.errC <- err
		}
	}()
	return app, nil
}

func newQuoteService(ctx context.Context, cfg *config.Config, logger *logrus.Logger, app *application) (*services.QuoteService, error) {
	var shared utils.CacheHandlerI
	if cfg.Databases.Redis.Enabled {
		handler, err := redis_utils.NewRedisHandler(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		app.onShutdown(func(context.Context) error { return handler.Close() })
		shared = handler
	}
	client := gold.NewClient(cfg, logger)
	return services.NewQuoteService(client, shared, cfg.ExternalClients.Gold.CacheTTL, logger), nil
}

func newTransactionRepository(ctx context.Context, cfg *config.Config, logger *logrus.Logger, app *application) (repositories.TransactionRepository, error) {
	var secrets database.SecretReader
	if cfg.Databases.SQL.PasswordSecretID != "" {
		handler, err := aws_handler.NewAWSHandler(cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		secrets = handler.SecretManager
	}

	driver := cfg.Databases.SQL.Driver
	logger.WithField("driver", driver).Info("Opening transaction store")
	switch driver {
	case config.DriverMemory, "":
		return repositories.NewMemoryTransactionRepository(), nil
	case config.DriverPostgres:
		pool, err := database.SetupDB(ctx, cfg, secrets)
		if err != nil {
			return nil, err
		}
		app.onShutdown(func(context.Context) error {
			pool.Close()
			return nil
		})
		return repositories.NewTransactionRepository(pool), nil
	case config.DriverSQLite, config.DriverMySQL:
		db, err := database.OpenGorm(ctx, cfg, secrets)
		if err != nil {
			return nil, err
		}
		app.onShutdown(func(context.Context) error { return database.CloseGorm(db) })
		return repositories.NewGormTransactionRepository(db)
	default:
		return nil, fmt.Errorf("unknown sql driver %q", driver)
	}
}
