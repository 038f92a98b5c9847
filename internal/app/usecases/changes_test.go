package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podsync/internal/adapters/store"
	"podsync/internal/domain/model"
)

type fakeChangeStore struct {
	product     *store.ProductRow
	text        *store.TextRow
	price       float64
	hasPriceRow bool
	fieldValues map[int64]string
	imageHashes []string
}

func (f *fakeChangeStore) LoadProduct(context.Context, int64) (*store.ProductRow, error) {
	return f.product, nil
}

func (f *fakeChangeStore) LoadText(context.Context, int64, string) (*store.TextRow, error) {
	return f.text, nil
}

func (f *fakeChangeStore) LowestPrice(context.Context, int64) (float64, bool, error) {
	return f.price, f.hasPriceRow, nil
}

func (f *fakeChangeStore) FieldValue(_ context.Context, _ int64, fieldID int64) (string, bool, error) {
	v, ok := f.fieldValues[fieldID]
	return v, ok, nil
}

func (f *fakeChangeStore) ImageHashes(context.Context, int64) ([]string, error) {
	return f.imageHashes, nil
}

func syncedState(mapped *model.MappedRecord, fields FieldIDs) *fakeChangeStore {
	return &fakeChangeStore{
		product: &store.ProductRow{
			ID:       77,
			SKU:      mapped.SKU,
			ParentID: mapped.ParentID,
			MPN:      mapped.MPN,
			GTIN:     mapped.ExternalID,
			Stock:    store.InStockSentinel,
		},
		text:        &store.TextRow{Name: mapped.Name, Description: mapped.Description},
		price:       mapped.Price,
		hasPriceRow: true,
		fieldValues: map[int64]string{
			fields.Variant: mapped.VariantID,
			fields.Color:   mapped.Color,
			fields.Size:    mapped.Size,
		},
		imageHashes: hashAll(mapped.Images),
	}
}

func hashAll(urls []string) []string {
	hashes := make([]string, 0, len(urls))
	for _, u := range urls {
		hashes = append(hashes, hashURL(u))
	}
	return hashes
}

func testRecord() *model.MappedRecord {
	return &model.MappedRecord{
		VariantID:   "501",
		ParentID:    10,
		SKU:         "TEE-S",
		MPN:         "TEE-S",
		Name:        "Classic Tee S",
		Description: "Soft cotton",
		Price:       20.00,
		ExternalID:  "ext-501",
		Color:       "Red",
		Size:        "S",
		Images:      []string{"https://cdn.example/img/1.png"},
	}
}

func TestDetectNoChanges(t *testing.T) {
	mapped := testRecord()
	fields := FieldIDs{Variant: 1, Color: 2, Size: 3}
	d := NewChangeDetector(syncedState(mapped, fields), "en_gb")

	cs, err := d.Detect(context.Background(), 77, mapped, fields)
	require.NoError(t, err)
	assert.False(t, cs.HasChanges())
}

func TestDetectPriceTolerance(t *testing.T) {
	mapped := testRecord()
	fields := FieldIDs{Variant: 1, Color: 2, Size: 3}

	t.Run("sub-cent drift is not a change", func(t *testing.T) {
		s := syncedState(mapped, fields)
		s.price = 19.999
		cs, err := NewChangeDetector(s, "en_gb").Detect(context.Background(), 77, mapped, fields)
		require.NoError(t, err)
		assert.False(t, cs.Has(model.FieldPrice))
	})

	t.Run("a dime is a change", func(t *testing.T) {
		s := syncedState(mapped, fields)
		s.price = 19.90
		cs, err := NewChangeDetector(s, "en_gb").Detect(context.Background(), 77, mapped, fields)
		require.NoError(t, err)
		assert.True(t, cs.Has(model.FieldPrice))
	})

	t.Run("missing price row is a change", func(t *testing.T) {
		s := syncedState(mapped, fields)
		s.hasPriceRow = false
		cs, err := NewChangeDetector(s, "en_gb").Detect(context.Background(), 77, mapped, fields)
		require.NoError(t, err)
		assert.True(t, cs.Has(model.FieldPrice))
	})
}

func TestDetectFieldDifferences(t *testing.T) {
	mapped := testRecord()
	fields := FieldIDs{Variant: 1, Color: 2, Size: 3}

	t.Run("stock off sentinel", func(t *testing.T) {
		s := syncedState(mapped, fields)
		s.product.Stock = 3
		cs, err := NewChangeDetector(s, "en_gb").Detect(context.Background(), 77, mapped, fields)
		require.NoError(t, err)
		assert.True(t, cs.Has(model.FieldStock))
	})

	t.Run("missing locale row changes name and description", func(t *testing.T) {
		s := syncedState(mapped, fields)
		s.text = nil
		cs, err := NewChangeDetector(s, "en_gb").Detect(context.Background(), 77, mapped, fields)
		require.NoError(t, err)
		assert.True(t, cs.Has(model.FieldName))
		assert.True(t, cs.Has(model.FieldDescription))
	})

	t.Run("whitespace-only text differences are ignored", func(t *testing.T) {
		s := syncedState(mapped, fields)
		s.text = &store.TextRow{Name: "  Classic Tee S ", Description: "Soft cotton\n"}
		cs, err := NewChangeDetector(s, "en_gb").Detect(context.Background(), 77, mapped, fields)
		require.NoError(t, err)
		assert.False(t, cs.HasChanges())
	})

	t.Run("variant field value drift", func(t *testing.T) {
		s := syncedState(mapped, fields)
		s.fieldValues[fields.Variant] = "999"
		cs, err := NewChangeDetector(s, "en_gb").Detect(context.Background(), 77, mapped, fields)
		require.NoError(t, err)
		assert.True(t, cs.Has(model.FieldCustomField))
	})

	t.Run("legacy whitespace in sku and mpn is ignored", func(t *testing.T) {
		s := syncedState(mapped, fields)
		s.product.SKU = " " + mapped.SKU + " "
		s.product.MPN = mapped.MPN + "\t"
		cs, err := NewChangeDetector(s, "en_gb").Detect(context.Background(), 77, mapped, fields)
		require.NoError(t, err)
		assert.False(t, cs.Has(model.FieldSKU))
		assert.False(t, cs.Has(model.FieldMPN))
	})

	t.Run("color case change is a change", func(t *testing.T) {
		s := syncedState(mapped, fields)
		s.fieldValues[fields.Color] = "red"
		cs, err := NewChangeDetector(s, "en_gb").Detect(context.Background(), 77, mapped, fields)
		require.NoError(t, err)
		assert.True(t, cs.Has(model.FieldColorCustomField))
	})

	t.Run("color whitespace drift is not a change", func(t *testing.T) {
		s := syncedState(mapped, fields)
		s.fieldValues[fields.Color] = " " + mapped.Color + " "
		cs, err := NewChangeDetector(s, "en_gb").Detect(context.Background(), 77, mapped, fields)
		require.NoError(t, err)
		assert.False(t, cs.Has(model.FieldColorCustomField))
	})

	t.Run("new image not yet attached", func(t *testing.T) {
		s := syncedState(mapped, fields)
		s.imageHashes = nil
		cs, err := NewChangeDetector(s, "en_gb").Detect(context.Background(), 77, mapped, fields)
		require.NoError(t, err)
		assert.True(t, cs.Has(model.FieldImages))
	})

	t.Run("unattached local images are not a change", func(t *testing.T) {
		// Additive-only: extra local attachments never trigger an update.
		s := syncedState(mapped, fields)
		s.imageHashes = append(s.imageHashes, hashURL("https://cdn.example/other.png"))
		cs, err := NewChangeDetector(s, "en_gb").Detect(context.Background(), 77, mapped, fields)
		require.NoError(t, err)
		assert.False(t, cs.Has(model.FieldImages))
	})
}

func TestDetectMissingProduct(t *testing.T) {
	s := &fakeChangeStore{}
	cs, err := NewChangeDetector(s, "en_gb").Detect(context.Background(), 77, testRecord(), FieldIDs{})
	require.NoError(t, err)
	assert.True(t, cs.Has(model.FieldMissingProduct))
	assert.Len(t, cs.Fields, 1)
}
