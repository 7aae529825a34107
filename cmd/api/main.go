package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application Layer
	appService "sportreminder/internal/application/service"
	"sportreminder/internal/domain/repository"

	// Infrastructure Layer
	"sportreminder/internal/infrastructure/database/jsonfile"
	"sportreminder/internal/infrastructure/database/sqlite"
	"sportreminder/internal/infrastructure/scheduler"

	// Interfaces Layer
	"sportreminder/internal/interfaces/api/handler"
	"sportreminder/internal/interfaces/api/router"

	// Packages
	"sportreminder/internal/pkg/clock"
	"sportreminder/internal/pkg/config"
	appLogger "sportreminder/internal/pkg/logger"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
)

func gracefulShutdown(
	apiServer *http.Server,
	schedulerService appService.SchedulerService,
	repo repository.ReminderRepository,
	timeout time.Duration,
	done chan bool,
) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")

	// Stop taking HTTP requests before the store goes away
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	if schedulerService != nil {
		log.Println("Stopping scheduler...")
		schedulerService.Stop()
		log.Println("Scheduler stopped.")
	}

	log.Println("Closing reminder store...")
	if err := repo.Close(); err != nil {
		log.Printf("Error closing reminder store: %v", err)
	} else {
		log.Println("Reminder store closed.")
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func openRepository(cfg *config.Config, appLog appLogger.Logger) (repository.ReminderRepository, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		db, err := sqlite.NewDB(cfg.Store.Path, cfg.Log.Level == "DEBUG", appLog)
		if err != nil {
			return nil, err
		}
		return sqlite.NewReminderRepository(db, appLog), nil
	default:
		return jsonfile.NewReminderRepository(cfg.Store.Path, appLog)
	}
}

func main() {
	defaultConfig := os.Getenv("REMINDER_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	configPath := flag.String("config", defaultConfig, "path to the YAML config file (optional)")
	flag.Parse()

	// --- Configuration ---
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Initialization ---
	appLog := appLogger.New(cfg.Log.Level)
	appLog.Info(fmt.Sprintf("Logger initialized at level %s.", cfg.Log.Level))

	// --- Infrastructure ---
	repo, err := openRepository(cfg, appLog)
	if err != nil {
		appLog.Error(fmt.Sprintf("Failed to open %s store at %s", cfg.Store.Driver, cfg.Store.Path), err)
		os.Exit(1)
	}
	appLog.Info(fmt.Sprintf("Reminder store initialized (%s: %s).", cfg.Store.Driver, cfg.Store.Path))

	clk := clock.System{}
	store := appService.NewTaskStore(repo, appLog)
	store.Load(context.Background())

	// --- Application Services ---
	reminderSvc := appService.NewReminderService(store, clk, appLog, cfg.Snooze.DefaultMinutes)
	feed := appService.NewAlertFeed()
	appLog.Info("Application services initialized.")

	// --- Scheduler ---
	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	var schedulerSvc appService.SchedulerService
	if cfg.Scheduler.Enabled {
		cronScheduler := scheduler.NewScheduler(appLog)
		schedulerSvc = appService.NewSchedulerService(cronScheduler, reminderSvc, feed, clk, cfg.Scheduler.Interval, appLog)
		if err := schedulerSvc.Start(runCtx); err != nil {
			// Log the error but continue starting the server; UI polls still raise alerts
			appLog.Error("Failed to start alert re-check scheduler", err)
			schedulerSvc = nil
		}
	} else {
		appLog.Warn("Scheduler disabled; alerts are only raised when the UI polls")
	}

	// --- API Handlers ---
	reminderHandler := handler.NewReminderHandler(reminderSvc, feed, clk, appLog)
	appLog.Info("API handlers initialized.")

	// --- Router ---
	routerCfg := &router.Config{
		ReminderHandler: reminderHandler,
		Logger:          appLog,
	}
	echoRouter := router.NewRouter(routerCfg)

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// --- Start Server & Shutdown Handling ---
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, schedulerSvc, repo, cfg.Server.ShutdownTimeout, done)

	appLog.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))
	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		appLog.Error("HTTP server ListenAndServe error", err)
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for graceful shutdown signal
	<-done
	appLog.Info("Graceful shutdown complete.")
}
