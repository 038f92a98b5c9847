package model

// FieldTag names a product field that differs between the local record and
// the desired mapped state.
type FieldTag string

const (
	FieldSKU               FieldTag = "sku"
	FieldStock             FieldTag = "stock"
	FieldParent            FieldTag = "parent"
	FieldMPN               FieldTag = "mpn"
	FieldExternalReference FieldTag = "external_reference"
	FieldName              FieldTag = "name"
	FieldDescription       FieldTag = "description"
	FieldPrice             FieldTag = "price"
	FieldCustomField       FieldTag = "customfield"
	FieldColorCustomField  FieldTag = "color_customfield"
	FieldSizeCustomField   FieldTag = "size_customfield"
	FieldImages            FieldTag = "images"

	// FieldMissingProduct guards the race where a matched record vanished
	// between match and detect; the upsert then recreates it.
	FieldMissingProduct FieldTag = "missing_product"
)

// ChangeSet is the minimal set of fields an update would touch.
type ChangeSet struct {
	Fields []FieldTag
}

func (c *ChangeSet) Add(tag FieldTag) {
	for _, f := range c.Fields {
		if f == tag {
			return
		}
	}
	c.Fields = append(c.Fields, tag)
}

func (c *ChangeSet) HasChanges() bool {
	return len(c.Fields) > 0
}

func (c *ChangeSet) Has(tag FieldTag) bool {
	for _, f := range c.Fields {
		if f == tag {
			return true
		}
	}
	return false
}
