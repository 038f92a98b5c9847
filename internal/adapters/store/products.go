package store

import (
	"context"
	"database/sql"
	"errors"
)

// InStockSentinel is the fixed always-in-stock quantity for print-on-demand
// records; the remote provider produces on order, so stock is never tracked.
const InStockSentinel = 9999

// ProductRow is the subset of the product table relevant for diffing.
type ProductRow struct {
	ID       int64
	SKU      string
	ParentID int64
	MPN      string
	GTIN     string
	Stock    int
}

// TextRow is the localized name/description row for one product.
type TextRow struct {
	Name        string
	Description string
	Slug        string
}

// ProductParams carries the writable base-record fields.
type ProductParams struct {
	SKU      string
	ParentID int64
	MPN      string
	GTIN     string
	Stock    int
}

// FindIDsByExternalRef locates variant-level records whose mpn or gtin
// carries the remote external reference. Parent records (parent_id = 0) are
// excluded.
func (s queries) FindIDsByExternalRef(ctx context.Context, ref string) ([]int64, error) {
	if ref == "" {
		return nil, nil
	}
	return s.collectIDs(ctx,
		`SELECT id FROM products WHERE (mpn = ? OR gtin = ?) AND parent_id <> 0 ORDER BY id`,
		ref, ref)
}

func (s queries) FindIDsBySKU(ctx context.Context, sku string) ([]int64, error) {
	if sku == "" {
		return nil, nil
	}
	return s.collectIDs(ctx, `SELECT id FROM products WHERE sku = ? ORDER BY id`, sku)
}

func (s queries) FindIDsByGTIN(ctx context.Context, gtin string) ([]int64, error) {
	if gtin == "" {
		return nil, nil
	}
	return s.collectIDs(ctx, `SELECT id FROM products WHERE gtin = ? ORDER BY id`, gtin)
}

func (s queries) collectIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadProduct returns nil when the record does not exist.
func (s queries) LoadProduct(ctx context.Context, id int64) (*ProductRow, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id, sku, parent_id, mpn, gtin, stock FROM products WHERE id = ?`, id)

	var p ProductRow
	err := row.Scan(&p.ID, &p.SKU, &p.ParentID, &p.MPN, &p.GTIN, &p.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s queries) InsertProduct(ctx context.Context, p ProductParams) (int64, error) {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO products (sku, parent_id, mpn, gtin, stock, published, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 1, NOW(), NOW())`,
		p.SKU, p.ParentID, p.MPN, p.GTIN, p.Stock)
	if err != nil {
		return 0, &PersistError{Op: "insert product", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &PersistError{Op: "insert product", Err: err}
	}
	return id, nil
}

func (s queries) UpdateProduct(ctx context.Context, id int64, p ProductParams) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE products SET sku = ?, parent_id = ?, mpn = ?, gtin = ?, stock = ?, updated_at = NOW()
		 WHERE id = ?`,
		p.SKU, p.ParentID, p.MPN, p.GTIN, p.Stock, id)
	if err != nil {
		return &PersistError{Op: "update product", Err: err}
	}
	return nil
}

// LoadText returns nil when no localized row exists for the locale.
func (s queries) LoadText(ctx context.Context, productID int64, locale string) (*TextRow, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT name, description, slug FROM product_texts WHERE product_id = ? AND locale = ?`,
		productID, locale)

	var t TextRow
	err := row.Scan(&t.Name, &t.Description, &t.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s queries) UpsertText(ctx context.Context, productID int64, locale string, t TextRow) error {
	var exists int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM product_texts WHERE product_id = ? AND locale = ?`,
		productID, locale).Scan(&exists)
	if err != nil {
		return &PersistError{Op: "upsert text", Err: err}
	}

	if exists > 0 {
		_, err = s.q.ExecContext(ctx,
			`UPDATE product_texts SET name = ?, description = ?, slug = ?, updated_at = NOW()
			 WHERE product_id = ? AND locale = ?`,
			t.Name, t.Description, t.Slug, productID, locale)
	} else {
		_, err = s.q.ExecContext(ctx,
			`INSERT INTO product_texts (product_id, locale, name, description, slug, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, NOW(), NOW())`,
			productID, locale, t.Name, t.Description, t.Slug)
	}
	if err != nil {
		return &PersistError{Op: "upsert text", Err: err}
	}
	return nil
}
