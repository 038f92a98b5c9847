package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podsync/internal/adapters/podapi"
	"podsync/internal/adapters/podapi/dto"
	"podsync/internal/app/usecases"
	"podsync/internal/config"
	"podsync/internal/domain/model"
	"podsync/internal/logging"
)

type fakeSync struct {
	diag    *model.Diagnostics
	err     error
	payload []byte
}

func (f *fakeSync) Run(context.Context) (*model.Diagnostics, error) {
	return f.diag, f.err
}

func (f *fakeSync) RunSingleProduct(context.Context, int64) (*model.Diagnostics, error) {
	return f.diag, f.err
}

func (f *fakeSync) RunSinglePayload(_ context.Context, payload []byte) (*model.Diagnostics, error) {
	f.payload = payload
	return f.diag, f.err
}

type fakeCatalogSvc struct {
	ping *podapi.PingResult
	err  error
}

func (f *fakeCatalogSvc) ListProducts(context.Context, *podapi.RequestContext, int, int) (*podapi.Page, error) {
	return nil, f.err
}

func (f *fakeCatalogSvc) GetProduct(context.Context, *podapi.RequestContext, int64) (*dto.ProductDetail, error) {
	return nil, f.err
}

func (f *fakeCatalogSvc) Ping(context.Context, *podapi.RequestContext) (*podapi.PingResult, error) {
	return f.ping, f.err
}

func newTestServer(sync SyncService, catalog podapi.CatalogService) *Server {
	cfg := &config.Config{PodAPI: config.PodAPIConfig{Token: "t"}}
	return NewServer(sync, catalog, cfg, logging.NewNop(), prometheus.NewRegistry())
}

func TestHandleSync(t *testing.T) {
	diag := model.NewDiagnostics("run-1", false)
	diag.Created = 3
	srv := newTestServer(&fakeSync{diag: diag}, &fakeCatalogSvc{})

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Diagnostics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 3, got.Created)
}

func TestHandleSyncConfigError(t *testing.T) {
	srv := newTestServer(&fakeSync{err: &usecases.ConfigError{Status: 400, Message: "token missing"}}, &fakeCatalogSvc{})

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 400, body.Status)
	assert.Equal(t, "token missing", body.Message)
}

func TestHandleSyncTransportError(t *testing.T) {
	srv := newTestServer(&fakeSync{err: &podapi.TransportError{StatusCode: 503, Status: "Service Unavailable"}}, &fakeCatalogSvc{})

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleSyncProduct(t *testing.T) {
	t.Run("success flag follows error count", func(t *testing.T) {
		diag := model.NewDiagnostics("run-2", false)
		diag.Updated = 1
		srv := newTestServer(&fakeSync{diag: diag}, &fakeCatalogSvc{})

		req := httptest.NewRequest(http.MethodPost, "/sync/product/7", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body syncProductResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, 1, body.Diagnostics.Updated)
	})

	t.Run("errors flip success off", func(t *testing.T) {
		diag := model.NewDiagnostics("run-3", false)
		diag.RecordError("501", "persist failed")
		srv := newTestServer(&fakeSync{diag: diag}, &fakeCatalogSvc{})

		req := httptest.NewRequest(http.MethodPost, "/sync/product/7", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		var body syncProductResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
	})

	t.Run("rejects bad id", func(t *testing.T) {
		srv := newTestServer(&fakeSync{}, &fakeCatalogSvc{})

		req := httptest.NewRequest(http.MethodPost, "/sync/product/abc", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleSyncPayload(t *testing.T) {
	t.Run("body is handed to the pipeline untouched", func(t *testing.T) {
		diag := model.NewDiagnostics("run-4", false)
		diag.Created = 1
		sync := &fakeSync{diag: diag}
		srv := newTestServer(sync, &fakeCatalogSvc{})

		payload := `{"result":{"sync_product":{"id":7,"sku":"TEE"}}}`
		req := httptest.NewRequest(http.MethodPost, "/sync/product", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, payload, string(sync.payload))

		var body syncProductResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, 1, body.Diagnostics.Created)
	})

	t.Run("empty body is rejected", func(t *testing.T) {
		srv := newTestServer(&fakeSync{}, &fakeCatalogSvc{})

		req := httptest.NewRequest(http.MethodPost, "/sync/product", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlePing(t *testing.T) {
	srv := newTestServer(&fakeSync{}, &fakeCatalogSvc{ping: &podapi.PingResult{TokenType: "store", HTTPStatus: 200}})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body podapi.PingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "store", body.TokenType)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&fakeSync{}, &fakeCatalogSvc{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
