package model

// MappedParent is the canonical parent-product form produced by the mapper
// from a remote product payload.
type MappedParent struct {
	RemoteID    int64
	SKU         string
	Name        string
	Description string
	ExternalID  string
	SlugRef     string
	MPN         string
}

// MappedRecord is the canonical variant form fed into matching, change
// detection and upserts. ParentID is the local parent product id and is set
// only after the parent ensure step.
type MappedRecord struct {
	VariantID   string
	RemoteID    int64
	ParentID    int64
	SKU         string
	MPN         string
	Name        string
	Description string
	Price       float64
	ExternalID  string
	Color       string
	Size        string
	Images      []string
	SlugRef     string
}
