package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"podsync/internal/adapters/podapi"
	"podsync/internal/app/usecases"
	"podsync/internal/domain/model"
)

type errResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type syncProductResponse struct {
	Success     bool               `json:"success"`
	Diagnostics *model.Diagnostics `json:"diagnostics"`
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	diag, err := s.sync.Run(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, diag)
}

func (s *Server) handleSyncProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.renderError(w, r, &usecases.ConfigError{Status: http.StatusBadRequest, Message: "invalid product id"})
		return
	}

	diag, err := s.sync.RunSingleProduct(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, syncProductResponse{
		Success:     diag.Errors == 0,
		Diagnostics: diag,
	})
}

// handleSyncPayload accepts a pre-fetched product detail pushed by an
// event-driven integration, so no catalog round-trip happens.
func (s *Server) handleSyncPayload(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil || len(payload) == 0 {
		s.renderError(w, r, &usecases.ConfigError{Status: http.StatusBadRequest, Message: "missing product payload"})
		return
	}

	diag, err := s.sync.RunSinglePayload(r.Context(), payload)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, syncProductResponse{
		Success:     diag.Errors == 0,
		Diagnostics: diag,
	})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	rc, err := podapi.BuildRequestContext(s.cfg.PodAPI)
	if err != nil {
		s.renderError(w, r, &usecases.ConfigError{Status: http.StatusBadRequest, Message: err.Error()})
		return
	}

	result, err := s.catalog.Ping(r.Context(), rc)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

// renderError maps the error taxonomy onto HTTP statuses: configuration
// problems are the caller's fault, upstream transport failures surface as
// bad gateway, everything else is internal.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var cfgErr *usecases.ConfigError
	var transportErr *podapi.TransportError
	switch {
	case errors.As(err, &cfgErr):
		status = cfgErr.Status
		if status == 0 {
			status = http.StatusBadRequest
		}
	case errors.As(err, &transportErr):
		status = http.StatusBadGateway
	}

	s.logger.Errorw("request failed", "path", r.URL.Path, "status", status, "error", err)

	render.Status(r, status)
	render.JSON(w, r, errResponse{Status: status, Message: err.Error()})
}
