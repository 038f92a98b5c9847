package dto

import "encoding/json"

// ListResponse is the paginated catalog list envelope. The result list is
// published under either "result" or "data" depending on API generation.
type ListResponse struct {
	Result []ListItem `json:"result"`
	Data   []ListItem `json:"data"`
	Paging *Paging    `json:"paging"`
	Links  *Links     `json:"_links"`
}

// Items returns the list payload regardless of envelope key.
func (r *ListResponse) Items() []ListItem {
	if len(r.Result) > 0 {
		return r.Result
	}
	return r.Data
}

type Paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type Links struct {
	Next *Link `json:"next"`
}

type Link struct {
	Href string `json:"href"`
}

// ListItem is a catalog summary entry; on the list endpoint "variants" is a
// count, not a collection.
type ListItem struct {
	ID            int64  `json:"id"`
	ProductID     int64  `json:"product_id"`
	SyncProductID int64  `json:"sync_product_id"`
	ExternalID    string `json:"external_id"`
	Name          string `json:"name"`
	VariantCount  int    `json:"variants"`
	Synced        int    `json:"synced"`
}

// ResolveID returns the product identifier under its candidate keys.
func (i ListItem) ResolveID() int64 {
	if i.ID > 0 {
		return i.ID
	}
	if i.ProductID > 0 {
		return i.ProductID
	}
	return i.SyncProductID
}

// Ref is a best-effort reference for diagnostics when the id is unusable.
func (i ListItem) Ref() string {
	if i.ExternalID != "" {
		return i.ExternalID
	}
	return "unknown"
}

// DetailResponse is the per-product detail envelope; "result" is tried
// before "data".
type DetailResponse struct {
	Result json.RawMessage `json:"result"`
	Data   json.RawMessage `json:"data"`
}

// Payload returns the envelope body, preferring "result".
func (r *DetailResponse) Payload() json.RawMessage {
	if len(r.Result) > 0 && string(r.Result) != "null" {
		return r.Result
	}
	return r.Data
}

// DetailResult is the nested product+variants structure. Older payloads put
// the product fields at the root instead of under sync_product/product.
type DetailResult struct {
	SyncProduct  *Product  `json:"sync_product"`
	Product      *Product  `json:"product"`
	SyncVariants []Variant `json:"sync_variants"`
	Variants     []Variant `json:"variants"`
}

// ProductDetail is the normalized detail payload handed to the pipeline.
type ProductDetail struct {
	Product  Product
	Variants []Variant
}

// Product is the parent-level remote payload.
type Product struct {
	ID            int64      `json:"id"`
	ProductID     int64      `json:"product_id"`
	SyncProductID int64      `json:"sync_product_id"`
	ExternalID    string     `json:"external_id"`
	SKU           string     `json:"sku"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	ThumbnailURL  string     `json:"thumbnail_url"`
	Synced        FlexString `json:"synced"`
}

func (p Product) ResolveID() int64 {
	if p.ID > 0 {
		return p.ID
	}
	if p.ProductID > 0 {
		return p.ProductID
	}
	return p.SyncProductID
}

// ResolveSKU falls back to the external id when the product carries no SKU.
func (p Product) ResolveSKU() string {
	return firstNonEmpty(p.SKU, p.ExternalID)
}

// DecodeDetail unwraps a detail response body into the normalized shape,
// trying sync_product/product containers before the flattened root form and
// sync_variants before variants.
func DecodeDetail(body []byte) (*ProductDetail, error) {
	var envelope DetailResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}

	payload := envelope.Payload()
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	var result DetailResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, err
	}

	detail := &ProductDetail{}

	switch {
	case result.SyncProduct != nil:
		detail.Product = *result.SyncProduct
	case result.Product != nil:
		detail.Product = *result.Product
	default:
		if err := json.Unmarshal(payload, &detail.Product); err != nil {
			return nil, err
		}
	}

	if len(result.SyncVariants) > 0 {
		detail.Variants = result.SyncVariants
	} else {
		detail.Variants = result.Variants
	}

	return detail, nil
}
