package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aqualink/cmd"
	httpadapter "aqualink/internal/adapters/in/http"
	"aqualink/internal/adapters/out/postgres"

	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := newLogger(configs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(postgresdriver.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(ctx, gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	document, err := httpadapter.LoadOpenAPI(ctx)
	if err != nil {
		log.Fatalf("Error loading API description: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, logger)
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Error("closing connections", "error", closeErr)
		}
	}()

	jobManager := app.JobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting background jobs: %v", err)
	}

	startWebServer(ctx, app, document, configs.HTTPPort, logger)

	jobManager.StopAll()
	logger.Info("stopped")
}

func newLogger(configs cmd.Config) *slog.Logger {
	level, _ := configs.SlogLevel()
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// startWebServer serves until ctx is canceled, then drains in-flight requests.
func startWebServer(ctx context.Context, app *cmd.CompositionRoot, document []byte, port string, logger *slog.Logger) {
	e := httpadapter.NewRouter(app.Server(), app.RouterOptions(document))

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
}
