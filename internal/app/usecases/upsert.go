package usecases

import (
	"context"
	"fmt"

	"podsync/internal/adapters/store"
	"podsync/internal/config"
	"podsync/internal/domain/model"
	"podsync/internal/logging"
)

// UpsertResult reports the outcome of one persisted variant.
type UpsertResult struct {
	ProductID int64
	Created   bool
}

// Upserter persists a mapped variant as one transaction: base record,
// localized text, category link, price, custom field values and images
// commit or roll back together. Image files on disk are not rolled back.
type Upserter struct {
	store  *store.Store
	images *ImageFetcher
	logger logging.Logger
	cfg    config.SyncConfig
}

func NewUpserter(s *store.Store, images *ImageFetcher, logger logging.Logger, cfg config.SyncConfig) *Upserter {
	return &Upserter{store: s, images: images, logger: logger, cfg: cfg}
}

// EnsureParent resolves the local parent product by SKU, creating it when
// absent. Dry runs resolve but never create, so 0 can come back.
func (u *Upserter) EnsureParent(ctx context.Context, parent *model.MappedParent) (int64, error) {
	ids, err := u.store.FindIDsBySKU(ctx, parent.SKU)
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		return ids[0], nil
	}

	if u.cfg.DryRun {
		return 0, nil
	}

	var parentID int64
	err = u.store.WithinTx(ctx, func(tx *store.Tx) error {
		id, err := tx.InsertProduct(ctx, store.ProductParams{
			SKU:   parent.SKU,
			MPN:   parent.MPN,
			GTIN:  parent.ExternalID,
			Stock: store.InStockSentinel,
		})
		if err != nil {
			return err
		}
		parentID = id

		text := store.TextRow{
			Name:        parent.Name,
			Description: parent.Description,
			Slug:        slugify(parent.Name, parent.SlugRef),
		}
		if err := tx.UpsertText(ctx, id, u.cfg.Locale, text); err != nil {
			return err
		}
		return tx.EnsureCategoryAssignment(ctx, id, u.cfg.DefaultCategoryID)
	})
	if err != nil {
		return 0, err
	}

	u.logger.Infow("parent product created", "sku", parent.SKU, "productId", parentID)
	return parentID, nil
}

// Upsert writes the variant. A zero productID creates, anything else
// updates in place.
func (u *Upserter) Upsert(ctx context.Context, mapped *model.MappedRecord, productID int64, fields FieldIDs) (UpsertResult, error) {
	created := productID == 0

	if created && fields.Variant <= 0 {
		return UpsertResult{}, fmt.Errorf("variant field unavailable, cannot create product for variant %s", mapped.VariantID)
	}

	err := u.store.WithinTx(ctx, func(tx *store.Tx) error {
		params := store.ProductParams{
			SKU:      mapped.SKU,
			ParentID: mapped.ParentID,
			MPN:      mapped.MPN,
			GTIN:     mapped.ExternalID,
			Stock:    store.InStockSentinel,
		}

		if created {
			id, err := tx.InsertProduct(ctx, params)
			if err != nil {
				return err
			}
			productID = id
		} else if err := tx.UpdateProduct(ctx, productID, params); err != nil {
			return err
		}

		text := store.TextRow{
			Name:        mapped.Name,
			Description: mapped.Description,
			Slug:        slugify(mapped.Name, mapped.SlugRef),
		}
		if err := tx.UpsertText(ctx, productID, u.cfg.Locale, text); err != nil {
			return err
		}

		if err := tx.EnsureCategoryAssignment(ctx, productID, u.cfg.DefaultCategoryID); err != nil {
			return err
		}

		if err := tx.EnsurePrice(ctx, productID, mapped.Price, u.cfg.CurrencyID); err != nil {
			return err
		}

		if fields.Variant > 0 {
			if err := tx.EnsureFieldValue(ctx, productID, fields.Variant, mapped.VariantID); err != nil {
				return err
			}
		}
		if fields.Color > 0 && mapped.Color != "" {
			if err := tx.EnsureFieldValue(ctx, productID, fields.Color, mapped.Color); err != nil {
				return err
			}
		}
		if fields.Size > 0 && mapped.Size != "" {
			if err := tx.EnsureFieldValue(ctx, productID, fields.Size, mapped.Size); err != nil {
				return err
			}
		}

		return u.attachImages(ctx, tx, productID, mapped.Images)
	})
	if err != nil {
		return UpsertResult{}, err
	}

	return UpsertResult{ProductID: productID, Created: created}, nil
}

// attachImages appends images the product does not carry yet; existing
// attachments are never removed or reordered. A failed download skips
// that one image without failing the transaction.
func (u *Upserter) attachImages(ctx context.Context, tx *store.Tx, productID int64, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	hashes, err := tx.ImageHashes(ctx, productID)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		known[h] = struct{}{}
	}

	ordering, err := tx.NextMediaOrdering(ctx, productID)
	if err != nil {
		return err
	}

	for _, rawURL := range urls {
		hash := hashURL(rawURL)
		if _, ok := known[hash]; ok {
			continue
		}

		img, err := u.images.Fetch(ctx, rawURL)
		if err != nil {
			u.logger.Warnw("image download failed", "url", rawURL, "productId", productID, "error", err)
			continue
		}

		mediaID, err := tx.InsertMedia(ctx, store.MediaParams{
			Name:     img.FileName,
			Mime:     img.Mime,
			FilePath: img.RelPath,
			URLHash:  hash,
		})
		if err != nil {
			return err
		}
		if err := tx.AttachMedia(ctx, productID, mediaID, ordering); err != nil {
			return err
		}
		known[hash] = struct{}{}
		ordering++
	}

	return nil
}
