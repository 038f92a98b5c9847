package usecases

import (
	"context"
	"strings"

	"podsync/internal/adapters/store"
	"podsync/internal/logging"
)

// AttributeStore is the custom-field surface the manager needs.
type AttributeStore interface {
	FindFieldByTitle(ctx context.Context, title, fieldType string) (*store.FieldRow, error)
	InsertField(ctx context.Context, p store.FieldParams) (int64, error)
	UpdateFieldOrdering(ctx context.Context, fieldID int64, ordering int) error
	ListFieldOptions(ctx context.Context, fieldID int64) ([]store.OptionRow, error)
	InsertFieldOption(ctx context.Context, fieldID int64, value string, ordering int) error
	SetOptionPublished(ctx context.Context, optionID int64, published bool) error
	SetOptionOrdering(ctx context.Context, optionID int64, ordering int) error
}

// AttributeManager keeps custom field definitions and their option lists
// aligned with the remote attribute values. Lookups still run in dry-run
// mode; creation and mutation are suppressed.
type AttributeManager struct {
	store              AttributeStore
	logger             logging.Logger
	dryRun             bool
	deactivateObsolete bool
}

func NewAttributeManager(s AttributeStore, logger logging.Logger, dryRun, deactivateObsolete bool) *AttributeManager {
	return &AttributeManager{
		store:              s,
		logger:             logger,
		dryRun:             dryRun,
		deactivateObsolete: deactivateObsolete,
	}
}

// EnsureGroup resolves the attribute group by title, creating it when
// absent. Returns 0 in dry-run mode when the group does not exist yet.
func (m *AttributeManager) EnsureGroup(ctx context.Context, title string) (int64, error) {
	return m.ensure(ctx, store.FieldParams{Title: title, Type: store.FieldTypeGroup})
}

// EnsureListField resolves a selectable list field inside the group.
func (m *AttributeManager) EnsureListField(ctx context.Context, title string, groupID int64, ordering int) (int64, error) {
	return m.ensure(ctx, store.FieldParams{
		Title:    title,
		Type:     store.FieldTypeList,
		GroupID:  groupID,
		Ordering: ordering,
	})
}

// EnsureTextField resolves a plain value field, used for the hidden
// per-product variant identifier.
func (m *AttributeManager) EnsureTextField(ctx context.Context, title string, hidden bool) (int64, error) {
	return m.ensure(ctx, store.FieldParams{Title: title, Type: store.FieldTypeText, Hidden: hidden})
}

func (m *AttributeManager) ensure(ctx context.Context, p store.FieldParams) (int64, error) {
	existing, err := m.store.FindFieldByTitle(ctx, p.Title, p.Type)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		if !m.dryRun && existing.Ordering != p.Ordering {
			if err := m.store.UpdateFieldOrdering(ctx, existing.ID, p.Ordering); err != nil {
				return 0, err
			}
		}
		return existing.ID, nil
	}

	if m.dryRun {
		m.logger.Infow("dry run, field not created", "title", p.Title, "type", p.Type)
		return 0, nil
	}

	id, err := m.store.InsertField(ctx, p)
	if err != nil {
		return 0, err
	}
	m.logger.Infow("custom field created", "title", p.Title, "type", p.Type, "fieldId", id)
	return id, nil
}

// ReconcileOptions aligns the field's option list with the desired
// values: existing options are republished and reordered to the desired
// sequence, missing ones are appended, and leftovers are unpublished when
// obsolete deactivation is on. Options are never deleted.
func (m *AttributeManager) ReconcileOptions(ctx context.Context, fieldID int64, desired []string) error {
	if fieldID <= 0 || m.dryRun {
		return nil
	}

	existing, err := m.store.ListFieldOptions(ctx, fieldID)
	if err != nil {
		return err
	}

	remaining := make(map[string]store.OptionRow, len(existing))
	for _, o := range existing {
		remaining[strings.ToLower(strings.TrimSpace(o.Value))] = o
	}

	ordering := 0
	for _, raw := range desired {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		key := strings.ToLower(value)

		if o, ok := remaining[key]; ok {
			if !o.Published {
				if err := m.store.SetOptionPublished(ctx, o.ID, true); err != nil {
					return err
				}
			}
			if o.Ordering != ordering {
				if err := m.store.SetOptionOrdering(ctx, o.ID, ordering); err != nil {
					return err
				}
			}
			delete(remaining, key)
		} else {
			if err := m.store.InsertFieldOption(ctx, fieldID, value, ordering); err != nil {
				return err
			}
			m.logger.Debugw("option added", "fieldId", fieldID, "value", value)
		}
		ordering++
	}

	if m.deactivateObsolete {
		for _, o := range remaining {
			if !o.Published {
				continue
			}
			if err := m.store.SetOptionPublished(ctx, o.ID, false); err != nil {
				return err
			}
			m.logger.Debugw("option unpublished", "fieldId", fieldID, "value", o.Value)
		}
	}

	return nil
}
