package usecases

import (
	"strings"

	"podsync/internal/adapters/podapi/dto"
	"podsync/internal/config"
	"podsync/internal/domain/model"
)

// PassesFilters decides per variant whether it is eligible for sync. It
// returns false plus a distinguishable reason tag on rejection. The two
// filters are independent.
func PassesFilters(v dto.Variant, cfg config.SyncConfig) (bool, string) {
	if cfg.OnlyActive && !variantActive(v) {
		return false, model.SkipFilteredInactive
	}

	if cfg.OnlyWarehouse && !variantWarehouse(v) {
		return false, model.SkipFilteredWarehouse
	}

	return true, ""
}

// variantActive evaluates the status signals in priority order: explicit
// status code, active flag, synced flag, visibility flag, availability
// string. A variant with no signal at all counts as active.
func variantActive(v dto.Variant) bool {
	if v.SyncStatus != nil {
		status := strings.ToLower(strings.TrimSpace(v.SyncStatus.String()))
		switch status {
		case "1", "active", "synced", "enabled":
			return true
		default:
			return false
		}
	}

	if v.IsActive != nil {
		return *v.IsActive
	}

	if v.Synced != nil {
		return *v.Synced
	}

	if v.Detail != nil {
		if v.Detail.IsVisible != nil {
			return *v.Detail.IsVisible
		}
		if v.Detail.AvailabilityStatus != "" {
			status := strings.ToLower(v.Detail.AvailabilityStatus)
			return status != "inactive" && status != "disabled"
		}
	}

	return true
}

// variantWarehouse requires an explicit warehouse-fulfillment flag.
func variantWarehouse(v dto.Variant) bool {
	if v.IsWarehouseProduct != nil {
		return *v.IsWarehouseProduct
	}

	if v.Detail != nil {
		if v.Detail.IsWarehouseProduct != nil {
			return *v.Detail.IsWarehouseProduct
		}
		if v.Detail.WarehouseProduct != nil {
			return *v.Detail.WarehouseProduct
		}
	}

	return false
}
