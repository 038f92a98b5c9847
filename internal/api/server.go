package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"podsync/internal/adapters/podapi"
	"podsync/internal/config"
	"podsync/internal/domain/model"
	"podsync/internal/logging"
)

// SyncService is the trigger surface exposed over HTTP.
type SyncService interface {
	Run(ctx context.Context) (*model.Diagnostics, error)
	RunSingleProduct(ctx context.Context, remoteProductID int64) (*model.Diagnostics, error)
	RunSinglePayload(ctx context.Context, payload []byte) (*model.Diagnostics, error)
}

// Server wires the sync triggers, the connectivity probe and the metrics
// endpoint into one router.
type Server struct {
	sync     SyncService
	catalog  podapi.CatalogService
	cfg      *config.Config
	logger   logging.Logger
	gatherer prometheus.Gatherer
}

func NewServer(sync SyncService, catalog podapi.CatalogService, cfg *config.Config, logger logging.Logger, gatherer prometheus.Gatherer) *Server {
	return &Server{
		sync:     sync,
		catalog:  catalog,
		cfg:      cfg,
		logger:   logger,
		gatherer: gatherer,
	}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/sync", s.handleSync)
	r.Post("/sync/product", s.handleSyncPayload)
	r.Post("/sync/product/{id}", s.handleSyncProduct)
	r.Get("/ping", s.handlePing)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return r
}

// ListenAndServe blocks until the context is canceled, then shuts the
// listener down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
