package handler

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"

	"github.com/Schera-ole/perfboard/internal/audit"
	"github.com/Schera-ole/perfboard/internal/config"
	internalerrors "github.com/Schera-ole/perfboard/internal/errors"
	middlewareinternal "github.com/Schera-ole/perfboard/internal/middleware"
	models "github.com/Schera-ole/perfboard/internal/model"
	"github.com/Schera-ole/perfboard/internal/repository"
	"github.com/Schera-ole/perfboard/internal/service"
)

// serverStart anchors the uptime reported by the status endpoint.
var serverStart = time.Now()

func Router(
	storage repository.Repository,
	logger *zap.SugaredLogger,
	config *config.ServerConfig,
	dashboardService *service.DashboardService,
	auditLogger audit.AuditLogger,
) chi.Router {
	router := chi.NewRouter()
	router.Use(middlewareinternal.LoggingMiddleware(logger))
	router.Use(middlewareinternal.MetricsMiddleware)
	router.Use(middlewareinternal.CORSMiddleware)
	router.Use(middlewareinternal.GzipMiddleware)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(15 * time.Second))
	router.Get("/api/users", func(w http.ResponseWriter, r *http.Request) {
		UsersHandler(w, r, logger, dashboardService)
	})
	router.Get("/api/dashboard/{userAlias}", func(w http.ResponseWriter, r *http.Request) {
		DashboardHandler(w, r, logger, dashboardService)
	})
	router.Get("/api/team-dashboard/{managerAlias}", func(w http.ResponseWriter, r *http.Request) {
		TeamDashboardHandler(w, r, logger, dashboardService)
	})
	router.Post("/api/ingest", func(w http.ResponseWriter, r *http.Request) {
		IngestHandler(w, r, storage, logger, config, dashboardService, auditLogger)
	})
	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		PingDatabaseHandler(w, r, storage, logger)
	})
	router.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		StatusHandler(w, r, logger)
	})
	router.Method(http.MethodGet, "/metrics", middlewareinternal.MetricsHandler(middlewareinternal.NewRegistry()))
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
	})
	return router
}

// UsersHandler serves the list of all known users.
func UsersHandler(
	w http.ResponseWriter,
	r *http.Request,
	logger *zap.SugaredLogger,
	dashboardService *service.DashboardService,
) {
	resp, err := dashboardService.GetUsers(r.Context())
	if err != nil {
		logger.Errorw("listing users", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DashboardHandler serves the metric dashboard for one user alias.
func DashboardHandler(
	w http.ResponseWriter,
	r *http.Request,
	logger *zap.SugaredLogger,
	dashboardService *service.DashboardService,
) {
	alias := chi.URLParam(r, "userAlias")
	resp, err := dashboardService.GetDashboard(r.Context(), alias)
	if err != nil {
		logger.Errorw("building dashboard", "alias", alias, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve dashboard data")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// TeamDashboardHandler serves the aggregated team view for a manager alias.
func TeamDashboardHandler(
	w http.ResponseWriter,
	r *http.Request,
	logger *zap.SugaredLogger,
	dashboardService *service.DashboardService,
) {
	manager := chi.URLParam(r, "managerAlias")
	resp, err := dashboardService.GetTeamDashboard(r.Context(), manager)
	if err != nil {
		logger.Errorw("building team dashboard", "manager", manager, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve team data")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// IngestHandler accepts a batch of users and metric records, plain or
// gzip-compressed, and upserts them through the service layer.
func IngestHandler(
	w http.ResponseWriter,
	r *http.Request,
	storage repository.Repository,
	logger *zap.SugaredLogger,
	config *config.ServerConfig,
	dashboardService *service.DashboardService,
	auditLogger audit.AuditLogger,
) {
	var reader io.Reader = r.Body

	if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
		gzipReader, err := gzip.NewReader(r.Body)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create gzip reader")
			return
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	var req models.IngestRequest
	err := json.NewDecoder(reader).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	err = dashboardService.Ingest(r.Context(), req)
	if err != nil {
		logger.Errorw("ingesting records", "error", err)
		if errors.Is(err, internalerrors.ErrEmptyAlias) {
			writeError(w, http.StatusBadRequest, "Records must include a user alias")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to store records")
		return
	}

	auditLogger.Log(touchedAliases(req), r.RemoteAddr)

	w.WriteHeader(http.StatusOK)

	if config.StoreInterval == 0 {
		// Only save to file if using MemStorage
		if _, isMemStorage := storage.(*repository.MemStorage); isMemStorage {
			if err := dashboardService.SaveSnapshot(r.Context(), config.FileStoragePath); err != nil {
				logger.Infof("couldn't save to file %s", err)
			}
		}
	}
}

// PingDatabaseHandler reports storage health.
func PingDatabaseHandler(w http.ResponseWriter, r *http.Request, storage repository.Repository, logger *zap.SugaredLogger) {
	err := storage.Ping(r.Context())
	if err != nil {
		logger.Errorf("%v", err)
		writeError(w, http.StatusInternalServerError, "Failed to connect to database")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// StatusHandler reports uptime and a host resource snapshot.
func StatusHandler(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger) {
	memory, err := mem.VirtualMemory()
	if err != nil {
		logger.Errorf("error getting memory stats %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	// Overall utilization since boot; a sampling interval would block the handler
	cpuPercents, err := cpu.Percent(0, false)
	if err != nil {
		logger.Errorf("error getting cpu info %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := models.StatusResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(serverStart).Seconds(),
		TotalMemory:   memory.Total,
		FreeMemory:    memory.Free,
	}
	if len(cpuPercents) > 0 {
		status.CPUUtilization = cpuPercents[0]
	}
	writeJSON(w, http.StatusOK, status)
}
