package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"podsync/internal/adapters/podapi/dto"
	"podsync/internal/config"
	"podsync/internal/domain/model"
)

func boolPtr(v bool) *bool { return &v }

func flexPtr(v string) *dto.FlexString {
	f := dto.FlexString(v)
	return &f
}

func TestFilterStatusPrecedence(t *testing.T) {
	cfg := config.SyncConfig{OnlyActive: true}

	cases := []struct {
		name    string
		variant dto.Variant
		pass    bool
	}{
		{"numeric status active", dto.Variant{SyncStatus: flexPtr("1")}, true},
		{"string status synced", dto.Variant{SyncStatus: flexPtr("synced")}, true},
		{"string status paused", dto.Variant{SyncStatus: flexPtr("paused")}, false},
		{"status beats active flag", dto.Variant{SyncStatus: flexPtr("paused"), IsActive: boolPtr(true)}, false},
		{"active flag", dto.Variant{IsActive: boolPtr(false)}, false},
		{"synced flag", dto.Variant{Synced: boolPtr(true)}, true},
		{"detail visibility", dto.Variant{Detail: &dto.VariantDetail{IsVisible: boolPtr(false)}}, false},
		{"availability inactive", dto.Variant{Detail: &dto.VariantDetail{AvailabilityStatus: "inactive"}}, false},
		{"availability in stock", dto.Variant{Detail: &dto.VariantDetail{AvailabilityStatus: "in_stock"}}, true},
		{"no signal defaults active", dto.Variant{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pass, reason := PassesFilters(tc.variant, cfg)
			assert.Equal(t, tc.pass, pass)
			if !tc.pass {
				assert.Equal(t, model.SkipFilteredInactive, reason)
			}
		})
	}
}

func TestFilterWarehouseOnly(t *testing.T) {
	cfg := config.SyncConfig{OnlyWarehouse: true}

	pass, reason := PassesFilters(dto.Variant{}, cfg)
	assert.False(t, pass)
	assert.Equal(t, model.SkipFilteredWarehouse, reason)

	pass, _ = PassesFilters(dto.Variant{IsWarehouseProduct: boolPtr(true)}, cfg)
	assert.True(t, pass)

	pass, _ = PassesFilters(dto.Variant{Detail: &dto.VariantDetail{WarehouseProduct: boolPtr(true)}}, cfg)
	assert.True(t, pass)
}

func TestFiltersDisabled(t *testing.T) {
	pass, reason := PassesFilters(dto.Variant{SyncStatus: flexPtr("paused")}, config.SyncConfig{})
	assert.True(t, pass)
	assert.Empty(t, reason)
}
