package store

import "context"

// EnsureCategoryAssignment links the product to the category once.
func (s queries) EnsureCategoryAssignment(ctx context.Context, productID, categoryID int64) error {
	if categoryID <= 0 {
		return nil
	}

	var count int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM product_categories WHERE product_id = ? AND category_id = ?`,
		productID, categoryID).Scan(&count)
	if err != nil {
		return &PersistError{Op: "ensure category", Err: err}
	}
	if count > 0 {
		return nil
	}

	_, err = s.q.ExecContext(ctx,
		`INSERT INTO product_categories (product_id, category_id, ordering) VALUES (?, ?, 0)`,
		productID, categoryID)
	if err != nil {
		return &PersistError{Op: "ensure category", Err: err}
	}
	return nil
}
