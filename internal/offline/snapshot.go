// Package offline keeps the last successfully fetched catalog in a local
// SQLite file so the gallery can still be browsed when the gateway is
// unreachable. Catalog data only: carts, likes and roles are never stored
// locally.
package offline

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"kunstgalerie/internal/model"
)

// Snapshot wraps the local catalog database.
type Snapshot struct {
	db *sql.DB
}

// DefaultPath resolves the snapshot location under the user config dir.
// CLIENT_DB_PATH overrides the base directory.
func DefaultPath() (string, error) {
	base := os.Getenv("CLIENT_DB_PATH")
	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(dir, "kunstgalerie")
	}
	if err := os.MkdirAll(base, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(base, "catalog.sqlite"), nil
}

// Open opens (and creates if needed) the snapshot at path and runs
// migrations.
func Open(path string) (*Snapshot, error) {
	if path == "" {
		return nil, errors.New("empty snapshot path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Snapshot{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying DB.
func (s *Snapshot) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Snapshot) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  artist TEXT NOT NULL DEFAULT '',
  price REAL NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  long_description TEXT NOT NULL DEFAULT '',
  year INTEGER,
  dimensions TEXT NOT NULL DEFAULT '',
  technique TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  in_stock INTEGER NOT NULL DEFAULT 0,
  pos INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  image_ref TEXT NOT NULL,
  is_primary INTEGER NOT NULL DEFAULT 0,
  pos INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_product_images_product ON product_images(product_id, pos);
CREATE TABLE IF NOT EXISTS meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	_, err := s.db.Exec(ddl)
	return err
}

// SaveProducts replaces the snapshot with the given catalog in one
// transaction. Row order is preserved so LoadProducts returns the gateway's
// ordering.
func (s *Snapshot) SaveProducts(products []model.Product) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM products`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM product_images`); err != nil {
		return err
	}
	for i, p := range products {
		var yr any
		if p.Year != nil {
			yr = *p.Year
		}
		if _, err := tx.Exec(`INSERT INTO products(
            id, title, artist, price, description, long_description,
            year, dimensions, technique, category, in_stock, pos
        ) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Title, p.Artist, p.Price, p.Description, p.LongDescription,
			yr, p.Dimensions, p.Technique, p.Category, boolToInt(p.InStock), i,
		); err != nil {
			return err
		}
		for j, img := range p.Images {
			if _, err := tx.Exec(`INSERT INTO product_images(id, product_id, image_ref, is_primary, pos)
                VALUES(?, ?, ?, ?, ?)`,
				img.ID, p.ID, img.ImageRef, boolToInt(img.IsPrimary), j,
			); err != nil {
				return err
			}
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key, value) VALUES('synced_at', ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadProducts returns the snapshot catalog in saved order with images
// attached.
func (s *Snapshot) LoadProducts() ([]model.Product, error) {
	rows, err := s.db.Query(`SELECT id, title, artist, price, description, long_description,
        year, dimensions, technique, category, in_stock
        FROM products ORDER BY pos`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []model.Product
	index := map[string]int{}
	for rows.Next() {
		var p model.Product
		var yr sql.NullInt64
		var inStock int
		if err := rows.Scan(&p.ID, &p.Title, &p.Artist, &p.Price, &p.Description, &p.LongDescription,
			&yr, &p.Dimensions, &p.Technique, &p.Category, &inStock); err != nil {
			return nil, err
		}
		if yr.Valid {
			y := int(yr.Int64)
			p.Year = &y
		}
		p.InStock = inStock != 0
		index[p.ID] = len(res)
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	imgRows, err := s.db.Query(`SELECT id, product_id, image_ref, is_primary FROM product_images ORDER BY product_id, pos`)
	if err != nil {
		return nil, err
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var img model.ProductImage
		var primary int
		if err := imgRows.Scan(&img.ID, &img.ProductID, &img.ImageRef, &primary); err != nil {
			return nil, err
		}
		img.IsPrimary = primary != 0
		if i, ok := index[img.ProductID]; ok {
			res[i].Images = append(res[i].Images, img)
		}
	}
	return res, imgRows.Err()
}

// SyncedAt reports when the snapshot was last refreshed. Zero time when the
// snapshot is empty.
func (s *Snapshot) SyncedAt() (time.Time, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'synced_at'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, v)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
