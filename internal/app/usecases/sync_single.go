package usecases

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"podsync/internal/adapters/podapi"
	"podsync/internal/adapters/podapi/dto"
	"podsync/internal/domain/model"
)

// RunSingleProduct reconciles one remote product on demand, sharing the
// per-variant pipeline with full runs.
func (o *Orchestrator) RunSingleProduct(ctx context.Context, remoteProductID int64) (*model.Diagnostics, error) {
	diag := model.NewDiagnostics(uuid.NewString(), o.cfg.Sync.DryRun)

	if remoteProductID <= 0 {
		return diag, newConfigError(http.StatusBadRequest, "product id must be positive")
	}

	rc, err := podapi.BuildRequestContext(o.cfg.PodAPI)
	if err != nil {
		return diag, newConfigError(http.StatusBadRequest, "invalid catalog credentials: %v", err)
	}
	diag.TokenType = rc.TokenType
	diag.Endpoint = "/store/products"
	diag.RequestHeaders = rc.Sanitized

	fields, err := o.ensureFields(ctx)
	if err != nil {
		return diag, err
	}

	detail, err := o.catalog.GetProduct(ctx, rc, remoteProductID)
	if err != nil {
		return diag, err
	}

	diag.Fetched = 1
	o.processProduct(ctx, diag, detail, fields)

	o.logger.Infow("single product sync finished",
		"runId", diag.RunID,
		"remoteId", remoteProductID,
		"processed", diag.Processed,
		"created", diag.Created,
		"updated", diag.Updated,
		"skipped", diag.Skipped,
		"errors", diag.Errors,
	)

	return diag, nil
}

// RunSinglePayload reconciles one pre-fetched product payload pushed by an
// event-driven caller. The payload carries the detail envelope, so no
// catalog call is made.
func (o *Orchestrator) RunSinglePayload(ctx context.Context, payload []byte) (*model.Diagnostics, error) {
	diag := model.NewDiagnostics(uuid.NewString(), o.cfg.Sync.DryRun)

	detail, err := dto.DecodeDetail(payload)
	if err != nil {
		return diag, newConfigError(http.StatusBadRequest, "invalid product payload: %v", err)
	}

	fields, err := o.ensureFields(ctx)
	if err != nil {
		return diag, err
	}

	diag.Fetched = 1
	o.processProduct(ctx, diag, detail, fields)

	o.logger.Infow("single product payload sync finished",
		"runId", diag.RunID,
		"remoteId", detail.Product.ResolveID(),
		"processed", diag.Processed,
		"created", diag.Created,
		"updated", diag.Updated,
		"skipped", diag.Skipped,
		"errors", diag.Errors,
	)

	return diag, nil
}
