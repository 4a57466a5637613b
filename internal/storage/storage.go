// Package storage defines the persistence interfaces for catalog records and admin accounts.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/electrolight/internal/models"
)

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate id, slug or username.
	ErrAlreadyExists = errors.New("already exists")
)

// Catalog defines product, accessory and category persistence.
// List operations return records in insertion order.
type Catalog interface {
	// Product operations
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]*models.Product, error)

	// Accessory operations
	CreateAccessory(ctx context.Context, a *models.Accessory) error
	GetAccessory(ctx context.Context, id string) (*models.Accessory, error)
	UpdateAccessory(ctx context.Context, a *models.Accessory) error
	DeleteAccessory(ctx context.Context, id string) error
	ListAccessories(ctx context.Context) ([]*models.Accessory, error)

	// Category operations
	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategory(ctx context.Context, slug string) (*models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, slug string) error
	ListCategories(ctx context.Context) ([]*models.Category, error)

	// Stats
	CountProducts(ctx context.Context) (int64, error)
	CountAccessories(ctx context.Context) (int64, error)
}

// Accounts defines admin user, session and contact message persistence.
type Accounts interface {
	CreateAdminUser(ctx context.Context, u *models.AdminUser) error
	GetAdminUser(ctx context.Context, id string) (*models.AdminUser, error)
	GetAdminUserByUsername(ctx context.Context, username string) (*models.AdminUser, error)

	CreateSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	CreateContactMessage(ctx context.Context, m *models.ContactMessage) error
	ListContactMessages(ctx context.Context) ([]*models.ContactMessage, error)
}

// Storage is the full persistence surface of the service.
type Storage interface {
	Catalog
	Accounts
	Close() error
}
