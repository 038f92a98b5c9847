package usecases

import (
	"context"
	"math"
	"strings"

	"podsync/internal/adapters/store"
	"podsync/internal/domain/model"
)

// priceTolerance absorbs float noise between the decimal column and the
// computed price; anything above it is a real change.
const priceTolerance = 0.009

// FieldIDs carries the resolved custom field definitions for one run.
// A zero id means the field is unavailable and its checks are skipped.
type FieldIDs struct {
	Variant int64
	Color   int64
	Size    int64
}

// ChangeStore is the read surface the detector needs.
type ChangeStore interface {
	LoadProduct(ctx context.Context, id int64) (*store.ProductRow, error)
	LoadText(ctx context.Context, productID int64, locale string) (*store.TextRow, error)
	LowestPrice(ctx context.Context, productID int64) (float64, bool, error)
	FieldValue(ctx context.Context, productID, fieldID int64) (string, bool, error)
	ImageHashes(ctx context.Context, productID int64) ([]string, error)
}

// ChangeDetector compares a matched local product against the mapped
// remote record field by field. Only a non-empty change set triggers a
// write.
type ChangeDetector struct {
	store  ChangeStore
	locale string
}

func NewChangeDetector(s ChangeStore, locale string) *ChangeDetector {
	return &ChangeDetector{store: s, locale: locale}
}

// Detect reads the current persisted state and accumulates every field
// that differs from the mapped record.
func (d *ChangeDetector) Detect(ctx context.Context, productID int64, mapped *model.MappedRecord, fields FieldIDs) (model.ChangeSet, error) {
	var cs model.ChangeSet

	product, err := d.store.LoadProduct(ctx, productID)
	if err != nil {
		return cs, err
	}
	if product == nil {
		// Matched id no longer loads; treat as fully changed.
		cs.Add(model.FieldMissingProduct)
		return cs, nil
	}

	if strings.TrimSpace(product.SKU) != mapped.SKU {
		cs.Add(model.FieldSKU)
	}
	if product.Stock != store.InStockSentinel {
		cs.Add(model.FieldStock)
	}
	if mapped.ParentID > 0 && product.ParentID != mapped.ParentID {
		cs.Add(model.FieldParent)
	}
	if strings.TrimSpace(product.MPN) != mapped.MPN {
		cs.Add(model.FieldMPN)
	}
	if mapped.ExternalID != "" && product.GTIN != mapped.ExternalID {
		cs.Add(model.FieldExternalReference)
	}

	text, err := d.store.LoadText(ctx, productID, d.locale)
	if err != nil {
		return cs, err
	}
	if text == nil {
		cs.Add(model.FieldName)
		cs.Add(model.FieldDescription)
	} else {
		if strings.TrimSpace(text.Name) != strings.TrimSpace(mapped.Name) {
			cs.Add(model.FieldName)
		}
		if strings.TrimSpace(text.Description) != strings.TrimSpace(mapped.Description) {
			cs.Add(model.FieldDescription)
		}
	}

	price, found, err := d.store.LowestPrice(ctx, productID)
	if err != nil {
		return cs, err
	}
	if !found {
		cs.Add(model.FieldPrice)
	} else if math.Abs(round2(price)-mapped.Price) > priceTolerance {
		cs.Add(model.FieldPrice)
	}

	if fields.Variant > 0 {
		value, _, err := d.store.FieldValue(ctx, productID, fields.Variant)
		if err != nil {
			return cs, err
		}
		if value != mapped.VariantID {
			cs.Add(model.FieldCustomField)
		}
	}

	if fields.Color > 0 && mapped.Color != "" {
		value, _, err := d.store.FieldValue(ctx, productID, fields.Color)
		if err != nil {
			return cs, err
		}
		if strings.TrimSpace(value) != mapped.Color {
			cs.Add(model.FieldColorCustomField)
		}
	}

	if fields.Size > 0 && mapped.Size != "" {
		value, _, err := d.store.FieldValue(ctx, productID, fields.Size)
		if err != nil {
			return cs, err
		}
		if strings.TrimSpace(value) != mapped.Size {
			cs.Add(model.FieldSizeCustomField)
		}
	}

	if len(mapped.Images) > 0 {
		hashes, err := d.store.ImageHashes(ctx, productID)
		if err != nil {
			return cs, err
		}
		known := make(map[string]struct{}, len(hashes))
		for _, h := range hashes {
			known[h] = struct{}{}
		}
		for _, url := range mapped.Images {
			if _, ok := known[hashURL(url)]; !ok {
				cs.Add(model.FieldImages)
				break
			}
		}
	}

	return cs, nil
}
