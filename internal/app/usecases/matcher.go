package usecases

import (
	"context"

	"podsync/internal/adapters/podapi/dto"
	"podsync/internal/domain/model"
	"podsync/internal/logging"
)

// MatchStore is the lookup surface the matcher needs.
type MatchStore interface {
	FindIDsByExternalRef(ctx context.Context, ref string) ([]int64, error)
	FindProductIDByFieldValue(ctx context.Context, fieldID int64, value string) (int64, bool, error)
	FindIDsBySKU(ctx context.Context, sku string) ([]int64, error)
	FindIDsByGTIN(ctx context.Context, gtin string) ([]int64, error)
}

// Matcher resolves a remote variant to at most one local product. The
// strategies run in fixed order and the first one producing any result
// decides; later strategies never override an ambiguous earlier one.
type Matcher struct {
	store  MatchStore
	logger logging.Logger
}

func NewMatcher(store MatchStore, logger logging.Logger) *Matcher {
	return &Matcher{store: store, logger: logger}
}

// Match runs the strategy chain. Two or more candidates from a strategy
// means the identity is ambiguous and the variant must not be touched.
func (m *Matcher) Match(ctx context.Context, mapped *model.MappedRecord, v dto.Variant, variantFieldID int64) (model.MatchResult, error) {
	if mapped.ExternalID != "" {
		ids, err := m.store.FindIDsByExternalRef(ctx, mapped.ExternalID)
		if err != nil {
			return model.NoMatch(), err
		}
		if res, done := m.resolve("external_ref", ids); done {
			return res, nil
		}
	}

	if variantFieldID > 0 && mapped.VariantID != "" {
		id, found, err := m.store.FindProductIDByFieldValue(ctx, variantFieldID, mapped.VariantID)
		if err != nil {
			return model.NoMatch(), err
		}
		if found {
			m.logger.Debugw("matched by variant field", "variantId", mapped.VariantID, "productId", id)
			return model.SingleMatch(id), nil
		}
	}

	if mapped.SKU != "" {
		ids, err := m.store.FindIDsBySKU(ctx, mapped.SKU)
		if err != nil {
			return model.NoMatch(), err
		}
		if res, done := m.resolve("sku", ids); done {
			return res, nil
		}
	}

	if gtin := v.GTIN(); gtin != "" {
		ids, err := m.store.FindIDsByGTIN(ctx, gtin)
		if err != nil {
			return model.NoMatch(), err
		}
		if res, done := m.resolve("gtin", ids); done {
			return res, nil
		}
	}

	return model.NoMatch(), nil
}

func (m *Matcher) resolve(strategy string, ids []int64) (model.MatchResult, bool) {
	switch len(ids) {
	case 0:
		return model.NoMatch(), false
	case 1:
		m.logger.Debugw("matched", "strategy", strategy, "productId", ids[0])
		return model.SingleMatch(ids[0]), true
	default:
		m.logger.Warnw("ambiguous match", "strategy", strategy, "candidates", len(ids))
		return model.AmbiguousMatch(), true
	}
}
