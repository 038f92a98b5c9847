package store

import "context"

// MediaParams carries a stored image asset.
type MediaParams struct {
	Name     string
	Mime     string
	FilePath string
	URLHash  string
}

// ImageHashes returns the url hashes of every asset attached to the
// product; attachment is deduplicated against this set.
func (s queries) ImageHashes(ctx context.Context, productID int64) ([]string, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT m.url_hash FROM product_media pm
		 INNER JOIN media m ON m.id = pm.media_id
		 WHERE pm.product_id = ?`,
		productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, err
		}
		if hash != "" {
			hashes = append(hashes, hash)
		}
	}
	return hashes, rows.Err()
}

// NextMediaOrdering continues the display order after the highest existing
// attachment.
func (s queries) NextMediaOrdering(ctx context.Context, productID int64) (int, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(ordering), 0) FROM product_media WHERE product_id = ?`,
		productID)

	var ordering int
	if err := row.Scan(&ordering); err != nil {
		return 0, err
	}
	return ordering + 1, nil
}

func (s queries) InsertMedia(ctx context.Context, m MediaParams) (int64, error) {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO media (name, mime, file_path, url_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, NOW(), NOW())`,
		m.Name, m.Mime, m.FilePath, m.URLHash)
	if err != nil {
		return 0, &PersistError{Op: "insert media", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &PersistError{Op: "insert media", Err: err}
	}
	return id, nil
}

func (s queries) AttachMedia(ctx context.Context, productID, mediaID int64, ordering int) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO product_media (product_id, media_id, ordering) VALUES (?, ?, ?)`,
		productID, mediaID, ordering)
	if err != nil {
		return &PersistError{Op: "attach media", Err: err}
	}
	return nil
}
