package dto

import "errors"

// ErrEmptyPayload indicates a response envelope without a usable body.
var ErrEmptyPayload = errors.New("empty response payload")

// Variant is the variant-level remote payload. Most fields have several
// candidate locations; the Resolve* accessors encode the extraction
// precedence explicitly so it can be tested in isolation.
type Variant struct {
	ID            FlexString `json:"id"`
	VariantID     FlexString `json:"variant_id"`
	SyncVariantID FlexString `json:"sync_variant_id"`
	ExternalID    string     `json:"external_id"`
	SKU           string     `json:"sku"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	RetailPrice   FlexString `json:"retail_price"`
	Price         FlexString `json:"price"`
	Color         string     `json:"color"`
	Size          string     `json:"size"`
	EAN           string     `json:"ean"`
	UPC           string     `json:"upc"`
	Barcode       string     `json:"barcode"`

	SyncStatus         *FlexString `json:"sync_status"`
	IsActive           *bool       `json:"is_active"`
	Synced             *bool       `json:"synced"`
	IsWarehouseProduct *bool       `json:"is_warehouse_product"`

	Files  []File         `json:"files"`
	Detail *VariantDetail `json:"variant"`
}

// VariantDetail is the nested catalog-variant object.
type VariantDetail struct {
	ID                 FlexString `json:"id"`
	ExternalID         string     `json:"external_id"`
	SKU                string     `json:"sku"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	RetailPrice        FlexString `json:"retail_price"`
	Price              FlexString `json:"price"`
	Color              string     `json:"color"`
	Size               string     `json:"size"`
	EAN                string     `json:"ean"`
	UPC                string     `json:"upc"`
	IsVisible          *bool      `json:"is_visible"`
	AvailabilityStatus string     `json:"availability_status"`
	IsWarehouseProduct *bool      `json:"is_warehouse_product"`
	WarehouseProduct   *bool      `json:"warehouse_product"`
	Files              []File     `json:"files"`
}

// File is one media asset attached to a variant.
type File struct {
	PreviewURL   string `json:"preview_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	URL          string `json:"url"`
}

// BestURL picks the preferred asset URL: preview, then thumbnail, then the
// raw file URL.
func (f File) BestURL() string {
	return firstNonEmpty(f.PreviewURL, f.ThumbnailURL, f.URL)
}

func (v Variant) detail() VariantDetail {
	if v.Detail == nil {
		return VariantDetail{}
	}
	return *v.Detail
}

// ResolveID returns the variant identifier: id, variant_id, sync_variant_id,
// then the nested detail id.
func (v Variant) ResolveID() string {
	return firstNonEmpty(v.ID.String(), v.VariantID.String(), v.SyncVariantID.String(), v.detail().ID.String())
}

// ResolveName falls back through the nested detail to the parent product.
func (v Variant) ResolveName(productName string) string {
	return firstNonEmpty(v.Name, v.detail().Name, productName)
}

// ResolveDescription prefers the parent product description, matching the
// storefront convention of shared copy across a product family.
func (v Variant) ResolveDescription(productDescription string) string {
	return firstNonEmpty(productDescription, v.Description, v.detail().Description)
}

func (v Variant) ResolveExternalID() string {
	return firstNonEmpty(v.ExternalID, v.detail().ExternalID)
}

func (v Variant) ResolveSKU() string {
	return firstNonEmpty(v.SKU, v.detail().SKU)
}

// BasePrice reads the retail price before markup: variant retail_price,
// variant price, then the nested detail equivalents.
func (v Variant) BasePrice() float64 {
	for _, candidate := range []FlexString{v.RetailPrice, v.Price, v.detail().RetailPrice, v.detail().Price} {
		if candidate.String() != "" {
			return candidate.Float()
		}
	}
	return 0
}

func (v Variant) ResolveColor() string {
	return firstNonEmpty(v.Color, v.detail().Color)
}

func (v Variant) ResolveSize() string {
	return firstNonEmpty(v.Size, v.detail().Size)
}

// GTIN returns the first global trade identifier present: ean, upc, barcode,
// then the nested detail ean/upc.
func (v Variant) GTIN() string {
	return firstNonEmpty(v.EAN, v.UPC, v.Barcode, v.detail().EAN, v.detail().UPC)
}

// ImageURLs collects per-file asset URLs, falling back to the parent
// product thumbnail when the variant has none.
func (v Variant) ImageURLs(parentThumbnail string) []string {
	files := v.Files
	if len(files) == 0 {
		files = v.detail().Files
	}

	var urls []string
	for _, f := range files {
		if u := f.BestURL(); u != "" {
			urls = append(urls, u)
		}
	}

	if len(urls) == 0 && parentThumbnail != "" {
		urls = append(urls, parentThumbnail)
	}

	return urls
}
