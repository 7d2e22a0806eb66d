package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Schera-ole/perfboard/internal/audit"
	"github.com/Schera-ole/perfboard/internal/config"
	"github.com/Schera-ole/perfboard/internal/handler"
	"github.com/Schera-ole/perfboard/internal/migration"
	models "github.com/Schera-ole/perfboard/internal/model"
	"github.com/Schera-ole/perfboard/internal/repository"
	"github.com/Schera-ole/perfboard/internal/service"
)

func main() {
	serverConfig, err := config.NewServerConfig()
	if err != nil {
		log.Fatal("Failed to parse configuration: ", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	if err := run(serverConfig, logger); err != nil {
		logger.Fatalw("Server stopped", "error", err)
	}
}

func run(serverConfig *config.ServerConfig, logger *zap.SugaredLogger) error {
	ctx := context.Background()

	var storage repository.Repository
	if serverConfig.DatabaseDSN != "" {
		if err := migration.RunMigrations(ctx, serverConfig.DatabaseDSN, logger); err != nil {
			return err
		}
		dbStorage, err := repository.NewDBStorage(serverConfig.DatabaseDSN)
		if err != nil {
			return err
		}
		storage = dbStorage
	} else {
		storage = repository.NewMemStorage()
	}
	defer storage.Close()

	dashboardService := service.NewDashboardService(storage)

	if serverConfig.Restore && serverConfig.DatabaseDSN == "" {
		if err := dashboardService.RestoreSnapshot(ctx, serverConfig.FileStoragePath, logger); err != nil {
			logger.Errorw("Failed to restore snapshot", "error", err)
		}
	}

	// Audit fan-out: handlers publish to eventChan, the broadcaster copies
	// each event to every configured subscriber.
	eventChan := make(chan models.AuditEvent, 10)
	var subscribers []chan<- models.AuditEvent
	if serverConfig.AuditFile != "" {
		fileChan := make(chan models.AuditEvent, 10)
		subscribers = append(subscribers, fileChan)
		go audit.FileSubscriber(fileChan, *serverConfig, logger)
	}
	if serverConfig.AuditURL != "" {
		urlChan := make(chan models.AuditEvent, 10)
		subscribers = append(subscribers, urlChan)
		go audit.URLSubscriber(urlChan, *serverConfig, logger)
	}
	go audit.Broadcaster(eventChan, logger, subscribers...)

	auditLogger := audit.NewAuditLogger(eventChan, logger)

	router := handler.Router(storage, logger, serverConfig, dashboardService, auditLogger)
	server := &http.Server{Addr: serverConfig.Address, Handler: router}

	// Periodic snapshots keep the in-memory backend durable across restarts
	if serverConfig.DatabaseDSN == "" && serverConfig.StoreInterval > 0 {
		ticker := time.NewTicker(time.Duration(serverConfig.StoreInterval) * time.Second)
		defer ticker.Stop()
		go func() {
			for range ticker.C {
				if err := dashboardService.SaveSnapshot(ctx, serverConfig.FileStoragePath); err != nil {
					logger.Errorw("Failed to save snapshot", "error", err)
				}
			}
		}()
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Infow("Starting server", "address", serverConfig.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logger.Infow("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	// Final snapshot so a restart picks up where this run left off
	if serverConfig.DatabaseDSN == "" {
		if err := dashboardService.SaveSnapshot(ctx, serverConfig.FileStoragePath); err != nil {
			logger.Errorw("Failed to save final snapshot", "error", err)
		}
	}
	close(eventChan)
	return nil
}
