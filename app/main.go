package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/bill-comb/app/api"
	"github.com/lysyi3m/bill-comb/app/catalog"
	"github.com/lysyi3m/bill-comb/app/cfg"
	"github.com/lysyi3m/bill-comb/app/database"
	"github.com/lysyi3m/bill-comb/app/feed"
	"github.com/lysyi3m/bill-comb/app/filter"
	"github.com/lysyi3m/bill-comb/app/record"
	"github.com/lysyi3m/bill-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting Bill Comb", "version", appCfg.Version, "timezone", appCfg.Timezone)

	categories, err := loadCatalog(appCfg.CatalogFile)
	if err != nil {
		slog.Error("Failed to load catalog", "file", appCfg.CatalogFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Catalog loaded", "categories", categories.Len(), "tags", len(categories.Tags()))

	db, err := database.NewConnection(appCfg.DBDSN)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Debug("Database migrations applied", "version", version, "dirty", dirty)

	billRepo := database.NewBillRepository(db)

	source := feed.NewSource(appCfg.FeedsDir)
	loader := feed.NewLoader(source, record.NewParser(appCfg.Delimiter), feed.NewRSSConverter())
	sessions := filter.NewSessions(categories)

	scheduler := tasks.NewScheduler(source, loader, billRepo,
		time.Duration(appCfg.SchedulerInterval)*time.Second, appCfg.WorkerCount)
	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "feeds_dir", appCfg.FeedsDir)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(billRepo, sessions, source, scheduler, appCfg.BaseUrl)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	// Event streams stay open, so there is no WriteTimeout and they are
	// ended through the base context on shutdown.
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()

	httpServer := &http.Server{
		Addr:        ":" + appCfg.Port,
		Handler:     server,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	cancelStreams()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Bill Comb shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(handler))
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}
