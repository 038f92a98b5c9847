package store

import (
	"context"
	"database/sql"
	"errors"
)

// LowestPrice returns the price of the lowest-ordered row for the product,
// matching what the storefront displays by default.
func (s queries) LowestPrice(ctx context.Context, productID int64) (float64, bool, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT price FROM product_prices WHERE product_id = ? ORDER BY id ASC LIMIT 1`,
		productID)

	var price float64
	err := row.Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return price, true, nil
}

// defaultTierPriceID finds the single price row without quantity-break
// bounds.
func (s queries) defaultTierPriceID(ctx context.Context, productID int64) (int64, bool, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id FROM product_prices
		 WHERE product_id = ? AND quantity_start IS NULL AND quantity_end IS NULL
		 ORDER BY id ASC LIMIT 1`,
		productID)

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

// EnsurePrice updates the default-tier price row or inserts one when the
// product has none.
func (s queries) EnsurePrice(ctx context.Context, productID int64, price float64, currencyID int64) error {
	id, found, err := s.defaultTierPriceID(ctx, productID)
	if err != nil {
		return &PersistError{Op: "ensure price", Err: err}
	}

	if found {
		_, err = s.q.ExecContext(ctx,
			`UPDATE product_prices SET price = ?, currency_id = ?, published = 1, updated_at = NOW()
			 WHERE id = ?`,
			price, currencyID, id)
	} else {
		_, err = s.q.ExecContext(ctx,
			`INSERT INTO product_prices (product_id, price, currency_id, quantity_start, quantity_end, published, created_at, updated_at)
			 VALUES (?, ?, ?, NULL, NULL, 1, NOW(), NOW())`,
			productID, price, currencyID)
	}
	if err != nil {
		return &PersistError{Op: "ensure price", Err: err}
	}
	return nil
}
