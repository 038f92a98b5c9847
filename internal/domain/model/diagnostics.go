package model

const (
	maxSkipSamples  = 10
	maxErrorSamples = 5
)

// Skip reasons recorded in diagnostics samples.
const (
	SkipFilteredInactive    = "filtered_by_status_not_active"
	SkipFilteredWarehouse   = "filtered_by_warehouse_only"
	SkipInvalidItem         = "api_result_item_invalid"
	SkipMissingExternalID   = "missing_external_id"
	SkipMissingSKU          = "missing_sku"
	SkipMatchAmbiguous      = "vm_match_ambiguous"
	SkipMatchNoChanges      = "vm_match_found_but_no_changes"
	SkipParentMissing       = "parent_product_missing"
	SkipPersistFailed       = "persist_failed"
)

// SkipSample references one skipped variant and the reason it was skipped.
type SkipSample struct {
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
}

// ErrorSample references one failed variant.
type ErrorSample struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// SampleItem is a compact projection of a first-page catalog entry, kept for
// diagnostics only.
type SampleItem struct {
	ID         int64  `json:"id,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Variants   int    `json:"variants,omitempty"`
}

// Diagnostics accumulates the outcome of one sync run. It is owned by the
// orchestrator for the run's lifetime and serialized flat at the end; it is
// never persisted.
type Diagnostics struct {
	RunID     string `json:"runId"`
	Fetched   int    `json:"fetched"`
	Processed int    `json:"processed"`
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	Skipped   int    `json:"skipped"`
	Errors    int    `json:"errors"`
	DryRun    bool   `json:"dryRun"`

	SkipSamples  []SkipSample  `json:"skipSamples"`
	ErrorSamples []ErrorSample `json:"errorSamples"`

	TokenType      string       `json:"tokenType,omitempty"`
	Endpoint       string       `json:"endpoint,omitempty"`
	HTTPStatus     int          `json:"httpStatus,omitempty"`
	RequestHeaders []string     `json:"requestHeaders,omitempty"`
	Sample         []SampleItem `json:"sample,omitempty"`
}

func NewDiagnostics(runID string, dryRun bool) *Diagnostics {
	return &Diagnostics{
		RunID:        runID,
		DryRun:       dryRun,
		SkipSamples:  []SkipSample{},
		ErrorSamples: []ErrorSample{},
	}
}

// Skip counts a skipped variant and keeps a bounded sample of references.
func (d *Diagnostics) Skip(ref, reason string) {
	d.Skipped++
	if len(d.SkipSamples) < maxSkipSamples {
		d.SkipSamples = append(d.SkipSamples, SkipSample{Ref: ref, Reason: reason})
	}
}

// RecordError counts a failed variant and keeps a bounded sample of messages.
func (d *Diagnostics) RecordError(id, message string) {
	d.Errors++
	if len(d.ErrorSamples) < maxErrorSamples {
		d.ErrorSamples = append(d.ErrorSamples, ErrorSample{ID: id, Message: message})
	}
}
