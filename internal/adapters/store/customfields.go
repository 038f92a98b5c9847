package store

import (
	"context"
	"database/sql"
	"errors"
)

// Custom field definition types.
const (
	FieldTypeGroup = "group"
	FieldTypeList  = "list"
	FieldTypeText  = "text"
)

// FieldRow is a custom field definition.
type FieldRow struct {
	ID       int64
	Title    string
	Type     string
	GroupID  int64
	Ordering int
}

// OptionRow is one list-field option.
type OptionRow struct {
	ID        int64
	Value     string
	Ordering  int
	Published bool
}

// FieldParams carries the writable definition fields.
type FieldParams struct {
	Title    string
	Type     string
	GroupID  int64
	Hidden   bool
	Ordering int
}

// FindFieldByTitle looks a definition up by title and type; creation is
// always preceded by this lookup so definitions stay deduplicated.
func (s queries) FindFieldByTitle(ctx context.Context, title, fieldType string) (*FieldRow, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id, title, field_type, group_id, ordering FROM custom_fields
		 WHERE title = ? AND field_type = ? ORDER BY id ASC LIMIT 1`,
		title, fieldType)

	var f FieldRow
	err := row.Scan(&f.ID, &f.Title, &f.Type, &f.GroupID, &f.Ordering)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s queries) InsertField(ctx context.Context, p FieldParams) (int64, error) {
	hidden := 0
	if p.Hidden {
		hidden = 1
	}
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO custom_fields (title, field_type, group_id, is_hidden, ordering, published, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 1, NOW(), NOW())`,
		p.Title, p.Type, p.GroupID, hidden, p.Ordering)
	if err != nil {
		return 0, &PersistError{Op: "insert field", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &PersistError{Op: "insert field", Err: err}
	}
	return id, nil
}

func (s queries) UpdateFieldOrdering(ctx context.Context, fieldID int64, ordering int) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE custom_fields SET ordering = ?, updated_at = NOW() WHERE id = ?`,
		ordering, fieldID)
	if err != nil {
		return &PersistError{Op: "update field ordering", Err: err}
	}
	return nil
}

// ListFieldOptions returns all options for a list field, published or not.
func (s queries) ListFieldOptions(ctx context.Context, fieldID int64) ([]OptionRow, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, value, ordering, published FROM custom_field_options
		 WHERE field_id = ? ORDER BY ordering, id`,
		fieldID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []OptionRow
	for rows.Next() {
		var o OptionRow
		if err := rows.Scan(&o.ID, &o.Value, &o.Ordering, &o.Published); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (s queries) InsertFieldOption(ctx context.Context, fieldID int64, value string, ordering int) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO custom_field_options (field_id, value, ordering, published) VALUES (?, ?, ?, 1)`,
		fieldID, value, ordering)
	if err != nil {
		return &PersistError{Op: "insert option", Err: err}
	}
	return nil
}

func (s queries) SetOptionPublished(ctx context.Context, optionID int64, published bool) error {
	state := 0
	if published {
		state = 1
	}
	_, err := s.q.ExecContext(ctx,
		`UPDATE custom_field_options SET published = ? WHERE id = ?`,
		state, optionID)
	if err != nil {
		return &PersistError{Op: "set option published", Err: err}
	}
	return nil
}

func (s queries) SetOptionOrdering(ctx context.Context, optionID int64, ordering int) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE custom_field_options SET ordering = ? WHERE id = ?`,
		ordering, optionID)
	if err != nil {
		return &PersistError{Op: "set option ordering", Err: err}
	}
	return nil
}

// FieldValue reads the value assigned to a product for one field.
func (s queries) FieldValue(ctx context.Context, productID, fieldID int64) (string, bool, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT value FROM product_field_values
		 WHERE product_id = ? AND field_id = ? ORDER BY id ASC LIMIT 1`,
		productID, fieldID)

	var value string
	err := row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// FindProductIDByFieldValue locates the product carrying a given value for
// the field, used for variant-id matching.
func (s queries) FindProductIDByFieldValue(ctx context.Context, fieldID int64, value string) (int64, bool, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT product_id FROM product_field_values
		 WHERE field_id = ? AND value = ? ORDER BY id ASC LIMIT 1`,
		fieldID, value)

	var id int64
	err := row.Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// EnsureFieldValue writes the product's value for a field, updating in
// place when a row exists.
func (s queries) EnsureFieldValue(ctx context.Context, productID, fieldID int64, value string) error {
	row := s.q.QueryRowContext(ctx,
		`SELECT id FROM product_field_values
		 WHERE product_id = ? AND field_id = ? ORDER BY id ASC LIMIT 1`,
		productID, fieldID)

	var id int64
	err := row.Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.q.ExecContext(ctx,
			`INSERT INTO product_field_values (product_id, field_id, value, ordering, published) VALUES (?, ?, ?, 0, 1)`,
			productID, fieldID, value)
	case err == nil:
		_, err = s.q.ExecContext(ctx,
			`UPDATE product_field_values SET value = ?, published = 1 WHERE id = ?`,
			value, id)
	}
	if err != nil {
		return &PersistError{Op: "ensure field value", Err: err}
	}
	return nil
}
