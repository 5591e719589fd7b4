package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource"
	_ "github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource/sqlite"
	"github.com/ekaya-inc/artifact-collector/pkg/config"
	"github.com/ekaya-inc/artifact-collector/pkg/database"
	"github.com/ekaya-inc/artifact-collector/pkg/handlers"
	"github.com/ekaya-inc/artifact-collector/pkg/logging"
	"github.com/ekaya-inc/artifact-collector/pkg/mcp"
	"github.com/ekaya-inc/artifact-collector/pkg/mcp/tools"
	"github.com/ekaya-inc/artifact-collector/pkg/middleware"
	"github.com/ekaya-inc/artifact-collector/pkg/museum"
	"github.com/ekaya-inc/artifact-collector/pkg/repositories"
	"github.com/ekaya-inc/artifact-collector/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("museum_api", logging.SanitizeURL(cfg.Museum.BaseURL)),
		zap.String("database", cfg.Database.Redacted()),
		zap.Bool("api_key_set", cfg.Museum.APIKey != ""))
	if cfg.Museum.APIKey == "" {
		logger.Warn("MUSEUM_API_KEY is not set; collect requests will be rejected by the API")
	}

	db, err := database.Open(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	client := museum.NewClient(cfg.Museum.BaseURL, cfg.Museum.APIKey,
		time.Duration(cfg.Museum.TimeoutSeconds)*time.Second, logger)
	repo := repositories.NewArtifactRepository(db, logger)
	queries := services.NewQueryService(datasource.NewSQLExecutor(db.DB, logger), db.Dialect.Type(), logger)
	collector := services.NewCollectorService(client, cfg.Museum.PageSize, cfg.Museum.DefaultLimit, logger)
	session := services.NewSession(collector, repo, queries, services.NewCommitTracker(), logger)

	mcpServer := mcp.NewArtifactServer(cfg.Version, db, &tools.QueryToolDeps{
		QueryService: queries,
		Repo:         repo,
		Logger:       logger.Named("mcp-tools"),
	}, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewArtifactsHandler(session, logger).RegisterRoutes(mux)
	handlers.NewQueriesHandler(session, logger).RegisterRoutes(mux)
	handlers.NewMCPHandler(mcpServer, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting artifact-collector",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
