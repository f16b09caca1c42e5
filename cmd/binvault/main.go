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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/binvault/internal/adapter/driven/github"
	"github.com/ericfisherdev/binvault/internal/adapter/driven/jsonfile"
	sqliteadapter "github.com/ericfisherdev/binvault/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/binvault/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/binvault/internal/adapter/driving/web"
	"github.com/ericfisherdev/binvault/internal/application"
	"github.com/ericfisherdev/binvault/internal/config"
	"github.com/ericfisherdev/binvault/internal/domain/port/driven"
	"github.com/ericfisherdev/binvault/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid values).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"local_driver", cfg.LocalDriver,
		"github_repo", cfg.GitHubRepo,
		"github_branch", cfg.GitHubBranch,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the local store.
	local, closeLocal, err := openLocalStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeLocal(); closeErr != nil {
			slog.Error("error closing local store", "error", closeErr)
		}
	}()

	// 4. Create the remote store (nil when GitHub storage is not configured).
	remote, err := openRemoteStore(cfg, logger)
	if err != nil {
		return err
	}

	// 5. Wire services.
	provider := application.NewStoreProvider(local, remote)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	binSvc := application.NewBinService(provider, application.NewIDGenerator(nil), metrics.New(reg), logger)

	// 6. Register API and GUI routes.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(binSvc, reg, logger))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(binSvc, logger))

	handler := httphandler.ApplyMiddleware(mux, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	// 7. Reload GitHub settings on SIGHUP.
	go watchReload(ctx, provider, logger)

	slog.Info("binvault started",
		"listen_addr", cfg.ListenAddr,
		"backend", provider.Backend(),
	)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 9. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// openLocalStore returns the configured local BinStore and a function that
// releases any resources it holds.
func openLocalStore(ctx context.Context, cfg *config.Config) (driven.BinStore, func() error, error) {
	switch cfg.LocalDriver {
	case config.DriverSQLite:
		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		slog.Info("sqlite store opened", "path", cfg.DBPath)
		return sqliteadapter.NewBinRepo(db), db.Close, nil
	case config.DriverJSON:
		slog.Info("json store configured", "path", cfg.DataPath)
		return jsonfile.NewStore(cfg.DataPath), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown local driver %q", cfg.LocalDriver)
	}
}

// openRemoteStore returns nil, not an error, when GitHub storage is not
// configured.
func openRemoteStore(cfg *config.Config, logger *slog.Logger) (driven.BinStore, error) {
	if !cfg.HasGitHubStorage() {
		slog.Info("github storage not configured, using local store")
		return nil, nil
	}

	store, err := githubadapter.NewStore(cfg.GitHubToken, githubadapter.Location{
		Repo:   cfg.GitHubRepo,
		Branch: cfg.GitHubBranch,
		Path:   cfg.GitHubPath,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create github store: %w", err)
	}

	slog.Info("github store created", "repo", cfg.GitHubRepo, "branch", cfg.GitHubBranch, "path", cfg.GitHubPath)
	return store, nil
}

// watchReload re-reads configuration on SIGHUP and swaps the remote store.
// The local store is not reopened; changing it requires a restart.
func watchReload(ctx context.Context, provider *application.StoreProvider, logger *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			cfg, err := config.Load()
			if err != nil {
				slog.Error("config reload failed, keeping current stores", "error", err)
				continue
			}

			remote, err := openRemoteStore(cfg, logger)
			if err != nil {
				slog.Error("github store reload failed, keeping current stores", "error", err)
				continue
			}

			provider.ReplaceRemote(remote)
			slog.Info("config reloaded", "backend", provider.Backend())
		}
	}
}
