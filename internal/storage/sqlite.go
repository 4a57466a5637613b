// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/hyperjump/electrolight/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
// List-valued fields are stored as JSON text columns.
type SQLiteStorage struct {
	db *sql.DB
}

var _ Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		brand TEXT NOT NULL DEFAULT '',
		category_slug TEXT NOT NULL,
		specifications TEXT NOT NULL DEFAULT '[]',
		image_url TEXT NOT NULL DEFAULT '',
		image_urls TEXT NOT NULL DEFAULT '[]',
		featured BOOLEAN NOT NULL DEFAULT 0,
		in_stock BOOLEAN NOT NULL DEFAULT 1,
		accessories TEXT NOT NULL DEFAULT '[]',
		similar_products TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_slug);

	CREATE TABLE IF NOT EXISTS accessories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		brand TEXT NOT NULL DEFAULT '',
		model_number TEXT NOT NULL DEFAULT '',
		compatible_with TEXT NOT NULL DEFAULT '[]',
		image_url TEXT NOT NULL DEFAULT '',
		specifications TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS admin_users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		expires_at TIMESTAMP NOT NULL,
		FOREIGN KEY (user_id) REFERENCES admin_users(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);

	CREATE TABLE IF NOT EXISTS contact_messages (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const productColumns = `id, name, description, brand, category_slug, specifications, image_url,
	image_urls, featured, in_stock, accessories, similar_products, created_at, updated_at`

// CreateProduct inserts a product. An empty ID is replaced with a new UUID.
func (s *SQLiteStorage) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Brand, p.CategorySlug, encodeList(p.SpecificationList), p.ImageURL,
		encodeList(p.ImageURLs), p.Featured, p.InStock, encodeList(p.Accessories), encodeList(p.SimilarProducts),
		p.CreatedAt, p.UpdatedAt,
	)
	return mapConstraintError(err, "product "+p.ID)
}

// GetProduct returns a product by ID.
func (s *SQLiteStorage) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct replaces all fields of an existing product.
func (s *SQLiteStorage) UpdateProduct(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now()
	result, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, brand = ?, category_slug = ?, specifications = ?,
		 image_url = ?, image_urls = ?, featured = ?, in_stock = ?, accessories = ?, similar_products = ?,
		 updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Description, p.Brand, p.CategorySlug, encodeList(p.SpecificationList),
		p.ImageURL, encodeList(p.ImageURLs), p.Featured, p.InStock, encodeList(p.Accessories),
		encodeList(p.SimilarProducts), p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, "product "+p.ID)
}

// DeleteProduct removes a product by ID.
func (s *SQLiteStorage) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result, "product "+id)
}

// ListProducts returns every product in insertion order.
func (s *SQLiteStorage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var specs, imageURLs, accessories, similar string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &p.CategorySlug, &specs, &p.ImageURL,
		&imageURLs, &p.Featured, &p.InStock, &accessories, &similar, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.SpecificationList = decodeList(specs)
	p.ImageURLs = decodeList(imageURLs)
	p.Accessories = decodeList(accessories)
	p.SimilarProducts = decodeList(similar)
	return &p, nil
}

const accessoryColumns = `id, name, description, brand, model_number, compatible_with, image_url,
	specifications, created_at, updated_at`

// CreateAccessory inserts an accessory. An empty ID is replaced with a new UUID.
func (s *SQLiteStorage) CreateAccessory(ctx context.Context, a *models.Accessory) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accessories (`+accessoryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Description, a.Brand, a.ModelNumber, encodeList(a.CompatibleWith), a.ImageURL,
		encodeList(a.SpecificationList), a.CreatedAt, a.UpdatedAt,
	)
	return mapConstraintError(err, "accessory "+a.ID)
}

// GetAccessory returns an accessory by ID.
func (s *SQLiteStorage) GetAccessory(ctx context.Context, id string) (*models.Accessory, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accessoryColumns+` FROM accessories WHERE id = ?`, id)
	a, err := scanAccessory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("accessory %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAccessory replaces all fields of an existing accessory.
func (s *SQLiteStorage) UpdateAccessory(ctx context.Context, a *models.Accessory) error {
	a.UpdatedAt = time.Now()
	result, err := s.db.ExecContext(ctx,
		`UPDATE accessories SET name = ?, description = ?, brand = ?, model_number = ?, compatible_with = ?,
		 image_url = ?, specifications = ?, updated_at = ?
		 WHERE id = ?`,
		a.Name, a.Description, a.Brand, a.ModelNumber, encodeList(a.CompatibleWith),
		a.ImageURL, encodeList(a.SpecificationList), a.UpdatedAt, a.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, "accessory "+a.ID)
}

// DeleteAccessory removes an accessory by ID.
func (s *SQLiteStorage) DeleteAccessory(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM accessories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result, "accessory "+id)
}

// ListAccessories returns every accessory in insertion order.
func (s *SQLiteStorage) ListAccessories(ctx context.Context) ([]*models.Accessory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+accessoryColumns+` FROM accessories ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accessories := []*models.Accessory{}
	for rows.Next() {
		a, err := scanAccessory(rows)
		if err != nil {
			return nil, err
		}
		accessories = append(accessories, a)
	}
	return accessories, rows.Err()
}

func scanAccessory(row rowScanner) (*models.Accessory, error) {
	var a models.Accessory
	var compatible, specs string
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Brand, &a.ModelNumber, &compatible, &a.ImageURL,
		&specs, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.CompatibleWith = decodeList(compatible)
	a.SpecificationList = decodeList(specs)
	return &a, nil
}

// CreateCategory inserts a category. Slugs are unique.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, slug, name, description, image_url) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Slug, c.Name, c.Description, c.ImageURL,
	)
	return mapConstraintError(err, "category "+c.Slug)
}

// GetCategory returns a category by slug.
func (s *SQLiteStorage) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, slug, name, description, image_url FROM categories WHERE slug = ?`, slug,
	).Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCategory updates name, description and image of the category with c.Slug.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, c *models.Category) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, image_url = ? WHERE slug = ?`,
		c.Name, c.Description, c.ImageURL, c.Slug,
	)
	if err != nil {
		return err
	}
	return requireAffected(result, "category "+c.Slug)
}

// DeleteCategory removes a category by slug. Products keep their slug.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, slug string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE slug = ?`, slug)
	if err != nil {
		return err
	}
	return requireAffected(result, "category "+slug)
}

// ListCategories returns every category in insertion order.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, name, description, image_url FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.ImageURL); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// CountProducts returns the total number of products.
func (s *SQLiteStorage) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

// CountAccessories returns the total number of accessories.
func (s *SQLiteStorage) CountAccessories(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accessories`).Scan(&count)
	return count, err
}

// CreateAdminUser inserts an admin account. Usernames are unique.
func (s *SQLiteStorage) CreateAdminUser(ctx context.Context, u *models.AdminUser) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt,
	)
	return mapConstraintError(err, "admin user "+u.Username)
}

// GetAdminUser returns an admin account by ID.
func (s *SQLiteStorage) GetAdminUser(ctx context.Context, id string) (*models.AdminUser, error) {
	return s.getAdminUser(ctx, `id = ?`, id)
}

// GetAdminUserByUsername returns an admin account by username.
func (s *SQLiteStorage) GetAdminUserByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	return s.getAdminUser(ctx, `username = ?`, username)
}

func (s *SQLiteStorage) getAdminUser(ctx context.Context, where string, arg string) (*models.AdminUser, error) {
	var u models.AdminUser
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admin_users WHERE `+where, arg,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("admin user %s: %w", arg, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateSession inserts a session. Timestamps are stored in UTC so they compare as text.
func (s *SQLiteStorage) CreateSession(ctx context.Context, sess *models.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.CreatedAt.UTC(), sess.ExpiresAt.UTC(),
	)
	return mapConstraintError(err, "session")
}

// GetSession returns a session by ID, expired or not.
func (s *SQLiteStorage) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.UserID, &sess.CreatedAt, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (s *SQLiteStorage) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteExpiredSessions removes sessions that expired at or before now.
func (s *SQLiteStorage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CreateContactMessage inserts a contact-form submission.
func (s *SQLiteStorage) CreateContactMessage(ctx context.Context, m *models.ContactMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_messages (id, name, email, phone, message, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Phone, m.Message, m.CreatedAt,
	)
	return err
}

// ListContactMessages returns contact messages, newest first.
func (s *SQLiteStorage) ListContactMessages(ctx context.Context) ([]*models.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, phone, message, created_at FROM contact_messages ORDER BY rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*models.ContactMessage{}
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func encodeList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeList(raw string) []string {
	list := []string{}
	if raw == "" {
		return list
	}
	if err := json.Unmarshal([]byte(raw), &list); err != nil || list == nil {
		return []string{}
	}
	return list
}

func requireAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

// mapConstraintError turns SQLite primary-key and unique violations into ErrAlreadyExists.
func mapConstraintError(err error, what string) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique) {
		return fmt.Errorf("%s: %w", what, ErrAlreadyExists)
	}
	return err
}
