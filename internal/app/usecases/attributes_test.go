package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podsync/internal/adapters/store"
	"podsync/internal/logging"
)

type fakeAttributeStore struct {
	fields  map[string]*store.FieldRow
	options map[int64][]store.OptionRow

	nextID   int64
	inserted []store.FieldParams
}

func newFakeAttributeStore() *fakeAttributeStore {
	return &fakeAttributeStore{
		fields:  map[string]*store.FieldRow{},
		options: map[int64][]store.OptionRow{},
		nextID:  100,
	}
}

func (f *fakeAttributeStore) FindFieldByTitle(_ context.Context, title, fieldType string) (*store.FieldRow, error) {
	return f.fields[title+"/"+fieldType], nil
}

func (f *fakeAttributeStore) InsertField(_ context.Context, p store.FieldParams) (int64, error) {
	f.nextID++
	f.fields[p.Title+"/"+p.Type] = &store.FieldRow{
		ID: f.nextID, Title: p.Title, Type: p.Type, GroupID: p.GroupID, Ordering: p.Ordering,
	}
	f.inserted = append(f.inserted, p)
	return f.nextID, nil
}

func (f *fakeAttributeStore) UpdateFieldOrdering(_ context.Context, fieldID int64, ordering int) error {
	for _, row := range f.fields {
		if row.ID == fieldID {
			row.Ordering = ordering
		}
	}
	return nil
}

func (f *fakeAttributeStore) ListFieldOptions(_ context.Context, fieldID int64) ([]store.OptionRow, error) {
	return append([]store.OptionRow(nil), f.options[fieldID]...), nil
}

func (f *fakeAttributeStore) InsertFieldOption(_ context.Context, fieldID int64, value string, ordering int) error {
	f.nextID++
	f.options[fieldID] = append(f.options[fieldID], store.OptionRow{
		ID: f.nextID, Value: value, Ordering: ordering, Published: true,
	})
	return nil
}

func (f *fakeAttributeStore) SetOptionPublished(_ context.Context, optionID int64, published bool) error {
	f.mutateOption(optionID, func(o *store.OptionRow) { o.Published = published })
	return nil
}

func (f *fakeAttributeStore) SetOptionOrdering(_ context.Context, optionID int64, ordering int) error {
	f.mutateOption(optionID, func(o *store.OptionRow) { o.Ordering = ordering })
	return nil
}

func (f *fakeAttributeStore) mutateOption(optionID int64, fn func(*store.OptionRow)) {
	for fieldID, opts := range f.options {
		for i := range opts {
			if opts[i].ID == optionID {
				fn(&opts[i])
				f.options[fieldID] = opts
			}
		}
	}
}

func (f *fakeAttributeStore) optionByValue(fieldID int64, value string) *store.OptionRow {
	for _, o := range f.options[fieldID] {
		if o.Value == value {
			return &o
		}
	}
	return nil
}

func TestEnsureFieldCreatesOnce(t *testing.T) {
	s := newFakeAttributeStore()
	m := NewAttributeManager(s, logging.NewNop(), false, true)

	id, err := m.EnsureListField(context.Background(), "Color", 5, 0)
	require.NoError(t, err)
	assert.Positive(t, id)

	again, err := m.EnsureListField(context.Background(), "Color", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Len(t, s.inserted, 1)
}

func TestEnsureFieldDryRun(t *testing.T) {
	s := newFakeAttributeStore()
	m := NewAttributeManager(s, logging.NewNop(), true, true)

	id, err := m.EnsureTextField(context.Background(), "pod_variant_id", true)
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Empty(t, s.inserted)

	// An existing definition still resolves in dry-run mode.
	s.fields["pod_variant_id/text"] = &store.FieldRow{ID: 42, Title: "pod_variant_id", Type: store.FieldTypeText}
	id, err = m.EnsureTextField(context.Background(), "pod_variant_id", true)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestReconcileOptions(t *testing.T) {
	const fieldID = int64(7)

	t.Run("appends missing values in order", func(t *testing.T) {
		s := newFakeAttributeStore()
		m := NewAttributeManager(s, logging.NewNop(), false, true)

		require.NoError(t, m.ReconcileOptions(context.Background(), fieldID, []string{"Red", "Blue"}))
		require.Len(t, s.options[fieldID], 2)
		assert.Equal(t, 0, s.optionByValue(fieldID, "Red").Ordering)
		assert.Equal(t, 1, s.optionByValue(fieldID, "Blue").Ordering)
	})

	t.Run("republishes and reorders existing values", func(t *testing.T) {
		s := newFakeAttributeStore()
		s.options[fieldID] = []store.OptionRow{
			{ID: 1, Value: "Blue", Ordering: 0, Published: false},
			{ID: 2, Value: "Red", Ordering: 1, Published: true},
		}
		m := NewAttributeManager(s, logging.NewNop(), false, true)

		require.NoError(t, m.ReconcileOptions(context.Background(), fieldID, []string{"Red", "Blue"}))

		blue := s.optionByValue(fieldID, "Blue")
		assert.True(t, blue.Published)
		assert.Equal(t, 1, blue.Ordering)
		assert.Equal(t, 0, s.optionByValue(fieldID, "Red").Ordering)
	})

	t.Run("unpublishes obsolete values when enabled", func(t *testing.T) {
		s := newFakeAttributeStore()
		s.options[fieldID] = []store.OptionRow{
			{ID: 1, Value: "Green", Ordering: 0, Published: true},
		}
		m := NewAttributeManager(s, logging.NewNop(), false, true)

		require.NoError(t, m.ReconcileOptions(context.Background(), fieldID, []string{"Red"}))
		assert.False(t, s.optionByValue(fieldID, "Green").Published)
		assert.True(t, s.optionByValue(fieldID, "Red").Published)
	})

	t.Run("keeps obsolete values when disabled", func(t *testing.T) {
		s := newFakeAttributeStore()
		s.options[fieldID] = []store.OptionRow{
			{ID: 1, Value: "Green", Ordering: 0, Published: true},
		}
		m := NewAttributeManager(s, logging.NewNop(), false, false)

		require.NoError(t, m.ReconcileOptions(context.Background(), fieldID, []string{"Red"}))
		assert.True(t, s.optionByValue(fieldID, "Green").Published)
	})

	t.Run("value match ignores case and padding", func(t *testing.T) {
		s := newFakeAttributeStore()
		s.options[fieldID] = []store.OptionRow{
			{ID: 1, Value: "red", Ordering: 0, Published: true},
		}
		m := NewAttributeManager(s, logging.NewNop(), false, true)

		require.NoError(t, m.ReconcileOptions(context.Background(), fieldID, []string{" Red "}))
		assert.Len(t, s.options[fieldID], 1)
	})

	t.Run("dry run touches nothing", func(t *testing.T) {
		s := newFakeAttributeStore()
		m := NewAttributeManager(s, logging.NewNop(), true, true)

		require.NoError(t, m.ReconcileOptions(context.Background(), fieldID, []string{"Red"}))
		assert.Empty(t, s.options[fieldID])
	})
}
