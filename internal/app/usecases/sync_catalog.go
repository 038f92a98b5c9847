package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"podsync/internal/adapters/podapi"
	"podsync/internal/adapters/podapi/dto"
	"podsync/internal/config"
	"podsync/internal/domain/model"
	"podsync/internal/logging"
	"podsync/internal/metrics"
)

// MatcherService resolves a variant to at most one local product.
type MatcherService interface {
	Match(ctx context.Context, mapped *model.MappedRecord, v dto.Variant, variantFieldID int64) (model.MatchResult, error)
}

// ChangeService diffs a matched product against the mapped record.
type ChangeService interface {
	Detect(ctx context.Context, productID int64, mapped *model.MappedRecord, fields FieldIDs) (model.ChangeSet, error)
}

// PersistService writes parents and variants.
type PersistService interface {
	EnsureParent(ctx context.Context, parent *model.MappedParent) (int64, error)
	Upsert(ctx context.Context, mapped *model.MappedRecord, productID int64, fields FieldIDs) (UpsertResult, error)
}

// AttributeService manages custom field definitions and option lists.
type AttributeService interface {
	EnsureGroup(ctx context.Context, title string) (int64, error)
	EnsureListField(ctx context.Context, title string, groupID int64, ordering int) (int64, error)
	EnsureTextField(ctx context.Context, title string, hidden bool) (int64, error)
	ReconcileOptions(ctx context.Context, fieldID int64, desired []string) error
}

// Orchestrator drives a full catalog reconciliation run: fetch, map,
// filter, match, diff and persist, variant by variant. One variant's
// failure never aborts the run.
type Orchestrator struct {
	catalog podapi.CatalogService
	matcher MatcherService
	changes ChangeService
	persist PersistService
	attrs   AttributeService
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter
}

func NewOrchestrator(
	catalog podapi.CatalogService,
	matcher MatcherService,
	changes ChangeService,
	persist PersistService,
	attrs AttributeService,
	cfg *config.Config,
	logger logging.Logger,
	m *metrics.Metrics,
) *Orchestrator {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.Sync.ItemDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Sync.ItemDelay), 1)
	}

	return &Orchestrator{
		catalog: catalog,
		matcher: matcher,
		changes: changes,
		persist: persist,
		attrs:   attrs,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		limiter: limiter,
	}
}

// Run executes one full sync and always returns diagnostics, also on
// failure. A transport failure on the first page fails the run; later
// pages fail soft and keep the partial result.
func (o *Orchestrator) Run(ctx context.Context) (*model.Diagnostics, error) {
	diag := model.NewDiagnostics(uuid.NewString(), o.cfg.Sync.DryRun)

	rc, err := podapi.BuildRequestContext(o.cfg.PodAPI)
	if err != nil {
		o.metrics.RunsTotal.WithLabelValues("failed").Inc()
		return diag, newConfigError(http.StatusBadRequest, "invalid catalog credentials: %v", err)
	}
	diag.TokenType = rc.TokenType
	diag.Endpoint = "/store/products"
	diag.RequestHeaders = rc.Sanitized

	o.logger.Infow("sync run starting",
		"runId", diag.RunID,
		"dryRun", diag.DryRun,
		"tokenType", rc.TokenType,
	)

	fields, err := o.ensureFields(ctx)
	if err != nil {
		o.metrics.RunsTotal.WithLabelValues("failed").Inc()
		return diag, err
	}

	limit := o.cfg.PodAPI.PageLimitClamped()
	maxPages := o.cfg.PodAPI.MaxPagesClamped()
	offset := 0

	for page := 1; ; page++ {
		if page > maxPages {
			o.logger.Warnw("page cap reached, stopping fetch", "runId", diag.RunID, "maxPages", maxPages)
			break
		}

		pageData, err := o.catalog.ListProducts(ctx, rc, limit, offset)
		if err != nil {
			if page == 1 {
				o.logger.Errorw("first catalog page failed", "runId", diag.RunID, "error", err)
				o.metrics.RunsTotal.WithLabelValues("failed").Inc()
				return diag, err
			}
			o.logger.Warnw("catalog page failed mid-run, keeping partial result",
				"runId", diag.RunID, "page", page, "error", err)
			break
		}

		o.metrics.PagesFetched.Inc()
		diag.Fetched += pageData.Count
		diag.HTTPStatus = pageData.HTTPStatus

		if page == 1 {
			diag.Sample = podapi.BuildSample(pageData.Items)
		}

		if pageData.Count == 0 {
			break
		}

		for _, item := range pageData.Items {
			productID := item.ResolveID()
			if productID <= 0 {
				diag.Skip(item.Ref(), model.SkipInvalidItem)
				o.metrics.VariantsTotal.WithLabelValues("skipped").Inc()
				continue
			}

			if err := o.limiter.Wait(ctx); err != nil {
				return diag, err
			}

			detail, err := o.catalog.GetProduct(ctx, rc, productID)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return diag, err
				}
				o.logger.Warnw("product detail fetch failed", "runId", diag.RunID, "productId", productID, "error", err)
				diag.RecordError(item.Ref(), err.Error())
				o.metrics.VariantsTotal.WithLabelValues("error").Inc()
				continue
			}

			o.processProduct(ctx, diag, detail, fields)
		}

		if !pageData.HasMore {
			break
		}
		offset = pageData.NextOffset
	}

	o.logger.Infow("sync run finished",
		"runId", diag.RunID,
		"fetched", diag.Fetched,
		"processed", diag.Processed,
		"created", diag.Created,
		"updated", diag.Updated,
		"skipped", diag.Skipped,
		"errors", diag.Errors,
	)

	o.metrics.RunsTotal.WithLabelValues("ok").Inc()
	return diag, nil
}

// ensureFields resolves the variant-id, color and size custom fields once
// per run. A zero id disables the dependent steps for the whole run.
func (o *Orchestrator) ensureFields(ctx context.Context) (FieldIDs, error) {
	var fields FieldIDs

	variantID, err := o.attrs.EnsureTextField(ctx, o.cfg.Sync.VariantField, true)
	if err != nil {
		return fields, err
	}
	fields.Variant = variantID

	groupID, err := o.attrs.EnsureGroup(ctx, o.cfg.Sync.AttributeGroup)
	if err != nil {
		return fields, err
	}

	if o.cfg.Sync.ColorField != "" {
		id, err := o.attrs.EnsureListField(ctx, o.cfg.Sync.ColorField, groupID, 0)
		if err != nil {
			return fields, err
		}
		fields.Color = id
	}

	if o.cfg.Sync.SizeField != "" {
		id, err := o.attrs.EnsureListField(ctx, o.cfg.Sync.SizeField, groupID, 1)
		if err != nil {
			return fields, err
		}
		fields.Size = id
	}

	return fields, nil
}

// processProduct runs the per-variant pipeline for one remote product.
func (o *Orchestrator) processProduct(ctx context.Context, diag *model.Diagnostics, detail *dto.ProductDetail, fields FieldIDs) {
	parent := MapProduct(detail.Product)
	if parent == nil {
		o.logger.Warnw("product has no usable identity, skipping", "runId", diag.RunID, "remoteId", detail.Product.ResolveID())
		return
	}

	if err := o.reconcileAttributes(ctx, detail, fields); err != nil {
		o.logger.Warnw("attribute reconciliation failed", "runId", diag.RunID, "sku", parent.SKU, "error", err)
	}

	parentID, err := o.persist.EnsureParent(ctx, parent)
	if err != nil {
		o.logger.Errorw("parent ensure failed", "runId", diag.RunID, "sku", parent.SKU, "error", err)
		diag.RecordError(parent.SKU, err.Error())
		o.metrics.VariantsTotal.WithLabelValues("error").Inc()
		return
	}

	for _, variant := range detail.Variants {
		diag.Processed++
		o.processVariant(ctx, diag, detail.Product, variant, parentID, fields)
	}
}

// reconcileAttributes aligns the color and size option lists with the
// distinct values this product's variants carry.
func (o *Orchestrator) reconcileAttributes(ctx context.Context, detail *dto.ProductDetail, fields FieldIDs) error {
	var colors, sizes []string
	seenColor := map[string]struct{}{}
	seenSize := map[string]struct{}{}

	for _, v := range detail.Variants {
		if c := v.ResolveColor(); c != "" {
			if _, ok := seenColor[c]; !ok {
				seenColor[c] = struct{}{}
				colors = append(colors, c)
			}
		}
		if s := v.ResolveSize(); s != "" {
			if _, ok := seenSize[s]; !ok {
				seenSize[s] = struct{}{}
				sizes = append(sizes, s)
			}
		}
	}

	if len(colors) > 0 {
		if err := o.attrs.ReconcileOptions(ctx, fields.Color, colors); err != nil {
			return err
		}
	}
	if len(sizes) > 0 {
		if err := o.attrs.ReconcileOptions(ctx, fields.Size, sizes); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) processVariant(ctx context.Context, diag *model.Diagnostics, product dto.Product, variant dto.Variant, parentID int64, fields FieldIDs) {
	if ok, reason := PassesFilters(variant, o.cfg.Sync); !ok {
		diag.Skip(variantRef(variant), reason)
		o.metrics.VariantsTotal.WithLabelValues("skipped").Inc()
		return
	}

	mapped, skip := MapVariant(product, variant, o.cfg.Sync.MarkupPercent)
	if skip != nil {
		diag.Skip(skip.Ref, skip.Reason)
		o.metrics.VariantsTotal.WithLabelValues("skipped").Inc()
		return
	}
	mapped.ParentID = parentID

	match, err := o.matcher.Match(ctx, mapped, variant, fields.Variant)
	if err != nil {
		diag.RecordError(mapped.VariantID, err.Error())
		o.metrics.VariantsTotal.WithLabelValues("error").Inc()
		return
	}

	if match.Ambiguous {
		diag.Skip(mapped.VariantID, model.SkipMatchAmbiguous)
		o.metrics.VariantsTotal.WithLabelValues("skipped").Inc()
		return
	}

	if match.Found {
		cs, err := o.changes.Detect(ctx, match.ProductID, mapped, fields)
		if err != nil {
			diag.RecordError(mapped.VariantID, err.Error())
			o.metrics.VariantsTotal.WithLabelValues("error").Inc()
			return
		}
		if !cs.HasChanges() {
			diag.Skip(mapped.VariantID, model.SkipMatchNoChanges)
			o.metrics.VariantsTotal.WithLabelValues("skipped").Inc()
			return
		}
		o.logger.Debugw("variant changed", "variantId", mapped.VariantID, "productId", match.ProductID, "fields", cs.Fields)
	}

	if o.cfg.Sync.DryRun {
		if match.Found {
			diag.Updated++
			o.metrics.VariantsTotal.WithLabelValues("updated").Inc()
		} else {
			diag.Created++
			o.metrics.VariantsTotal.WithLabelValues("created").Inc()
		}
		return
	}

	if parentID <= 0 {
		diag.RecordError(mapped.VariantID, model.SkipParentMissing)
		o.metrics.VariantsTotal.WithLabelValues("error").Inc()
		return
	}

	res, err := o.persist.Upsert(ctx, mapped, match.ProductID, fields)
	if err != nil {
		o.logger.Errorw("variant persist failed", "variantId", mapped.VariantID, "error", err)
		diag.RecordError(mapped.VariantID, fmt.Sprintf("%s: %v", model.SkipPersistFailed, err))
		o.metrics.VariantsTotal.WithLabelValues("error").Inc()
		return
	}

	if res.Created {
		diag.Created++
		o.metrics.VariantsTotal.WithLabelValues("created").Inc()
	} else {
		diag.Updated++
		o.metrics.VariantsTotal.WithLabelValues("updated").Inc()
	}
}

func variantRef(v dto.Variant) string {
	if id := v.ResolveID(); id != "" {
		return id
	}
	if ext := v.ResolveExternalID(); ext != "" {
		return ext
	}
	return "unknown"
}
