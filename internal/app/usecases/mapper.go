package usecases

import (
	"fmt"
	"math"
	"strings"

	"podsync/internal/adapters/podapi/dto"
	"podsync/internal/domain/model"
)

// Skip describes why the mapper rejected a variant; rejection is not an
// error and never aborts a run.
type Skip struct {
	Ref    string
	Reason string
}

// MapProduct normalizes a remote product into the parent form. A product
// without a usable SKU or external identifier cannot be represented and
// maps to nil.
func MapProduct(p dto.Product) *model.MappedParent {
	sku := p.ResolveSKU()
	if sku == "" {
		return nil
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "Product " + sku
	}

	return &model.MappedParent{
		RemoteID:    p.ResolveID(),
		SKU:         sku,
		Name:        name,
		Description: p.Description,
		ExternalID:  strings.TrimSpace(p.ExternalID),
		SlugRef:     sku,
		MPN:         sku,
	}
}

// MapVariant normalizes a remote variant into the canonical record,
// applying the price markup. Invalid variants return a Skip instead.
func MapVariant(p dto.Product, v dto.Variant, markupPercent float64) (*model.MappedRecord, *Skip) {
	variantID := v.ResolveID()
	if variantID == "" {
		return nil, &Skip{Ref: "unknown", Reason: model.SkipInvalidItem}
	}

	name := v.ResolveName(p.Name)
	if name == "" {
		return nil, &Skip{Ref: variantID, Reason: model.SkipInvalidItem}
	}

	externalID := v.ResolveExternalID()

	sku := v.ResolveSKU()
	if sku == "" {
		sku = externalID
	}
	if sku == "" {
		return nil, &Skip{Ref: variantID, Reason: model.SkipMissingSKU}
	}

	if externalID == "" {
		return nil, &Skip{Ref: variantID, Reason: model.SkipMissingExternalID}
	}

	price := v.BasePrice()
	if markupPercent != 0 {
		price = price * (1 + markupPercent/100)
	}
	price = round2(price)

	if price <= 0 {
		return nil, &Skip{Ref: variantID, Reason: model.SkipInvalidItem}
	}

	return &model.MappedRecord{
		VariantID:   variantID,
		RemoteID:    p.ResolveID(),
		SKU:         sku,
		MPN:         sku,
		Name:        name,
		Description: v.ResolveDescription(p.Description),
		Price:       price,
		ExternalID:  externalID,
		Color:       v.ResolveColor(),
		Size:        v.ResolveSize(),
		Images:      v.ImageURLs(p.ThumbnailURL),
		SlugRef:     variantID,
	}, nil
}

// round2 rounds half away from zero at two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// slugify builds a URL slug from the name, falling back to a reference
// when nothing survives.
func slugify(name, ref string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = fmt.Sprintf("pod-%s", ref)
	}
	return slug
}
