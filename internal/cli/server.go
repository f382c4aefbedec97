// filepath: internal/cli/server.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"trialdb/internal/api/handlers"
	"trialdb/internal/housekeeping"
	"trialdb/internal/httpserver"
	"trialdb/internal/logging"
	"trialdb/internal/metrics"
	"trialdb/internal/services"
	"trialdb/internal/storage"
)

// newServer wires the services and the router for the configured store.
func newServer(m *metrics.Metrics) *http.Server {
	infoService := services.NewInfoService(Version, StartTime, cfg.Database.Path)
	analysisService := services.NewAnalysisService(cfg, m)

	h := handlers.NewHandlers(infoService, analysisService, cfg)
	r := httpserver.SetupRouter(h, m.Handler())

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// runServer starts the HTTP server and shuts it down gracefully on SIGINT/SIGTERM.
func runServer() error {
	if _, err := services.NewAnalysisService(cfg, nil).LoadInfo(context.Background()); err != nil {
		if !errors.Is(err, services.ErrStoreNotLoaded) {
			return err
		}
		logging.Log.Warnf("Store %s is not loaded yet, queries will answer 503 until 'trialdb load' runs", cfg.Database.Path)
	}

	m := metrics.New()
	srv := newServer(m)

	hk, err := housekeeping.NewService(housekeeping.Dependencies{Storage: storage.Local{}, Metrics: m}, cfg.Database.Path, cfg.Housekeeping)
	if err != nil {
		return fmt.Errorf("housekeeping: %w", err)
	}
	hk.Start()
	defer hk.Stop()

	// --- Graceful Shutdown Setup ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logging.Log.Infof("Server starting on %s (store: %s)", srv.Addr, cfg.Database.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-stop:
	}
	logging.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Log.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logging.Log.Info("Server exiting")
	return nil
}
