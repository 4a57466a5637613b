// Package search provides catalog read operations: similar products, combined search and browsing.
package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/electrolight/internal/config"
	"github.com/hyperjump/electrolight/internal/models"
	"github.com/hyperjump/electrolight/internal/ranking"
)

// CatalogReader is the read-only catalog access the engine needs.
// Lists must be returned in storage order.
type CatalogReader interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	ListAccessories(ctx context.Context) ([]*models.Accessory, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

// Engine answers storefront read queries over a fresh catalog snapshot per call.
type Engine struct {
	catalog CatalogReader
	ranker  *ranking.Ranker
	config  *config.SearchConfig
	logger  *zap.Logger
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(
	catalog CatalogReader,
	ranker *ranking.Ranker,
	cfg *config.SearchConfig,
	logger *zap.Logger,
) *Engine {
	if ranker == nil {
		ranker = ranking.NewRanker(nil)
	}
	if cfg == nil {
		cfg = &config.SearchConfig{}
	}
	cfg.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		catalog: catalog,
		ranker:  ranker,
		config:  cfg,
		logger:  logger,
	}
}

// SimilarProducts returns the products most similar to the product with id,
// best first. The subject itself is never included. A missing subject yields
// an error wrapping storage.ErrNotFound.
func (e *Engine) SimilarProducts(ctx context.Context, id string) ([]*models.Product, error) {
	subject, err := e.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := e.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	candidates := make([]*models.CatalogItem, len(products))
	for i, p := range products {
		candidates[i] = p.CatalogItem()
	}
	ranked := e.ranker.RankSimilar(subject.CatalogItem(), candidates)

	out := make([]*models.Product, 0, len(ranked))
	for _, r := range ranked {
		e.logger.Debug("similar product",
			zap.String("subject", id),
			zap.String("candidate", r.Item.ID),
			zap.Float64("score", r.Score),
		)
		out = append(out, products[r.Index])
	}
	return out, nil
}

// Search returns products and accessories whose text fields contain q,
// case-insensitively, in storage order and capped per type.
// A blank query returns empty lists without reading the catalog.
func (e *Engine) Search(ctx context.Context, q string) (*models.SearchResponse, error) {
	response := models.NewSearchResponse()
	query := NormalizeQuery(q)
	if query == "" {
		return response, nil
	}

	products, err := e.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	accessories, err := e.catalog.ListAccessories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accessories: %w", err)
	}

	for _, p := range products {
		if len(response.Products) >= e.config.ProductLimit {
			break
		}
		if matchesAny(query, p.Name, p.Description, p.Brand) {
			response.Products = append(response.Products, p)
		}
	}
	for _, a := range accessories {
		if len(response.Accessories) >= e.config.AccessoryLimit {
			break
		}
		if matchesAny(query, a.Name, a.Description, a.Brand, a.ModelNumber) {
			response.Accessories = append(response.Accessories, a)
		}
	}

	e.logger.Debug("search",
		zap.String("query", query),
		zap.Int("products", len(response.Products)),
		zap.Int("accessories", len(response.Accessories)),
	)
	return response, nil
}

// NormalizeQuery trims and lower-cases a raw search query.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// matchesAny expects a normalized query. Empty fields never match.
func matchesAny(query string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
