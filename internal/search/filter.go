package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hyperjump/electrolight/internal/models"
)

// SortOrder selects how product listings are ordered.
type SortOrder string

const (
	// SortStorage keeps storage (insertion) order.
	SortStorage SortOrder = ""
	// SortName orders by name, A to Z.
	SortName SortOrder = "name"
	// SortNameDesc orders by name, Z to A.
	SortNameDesc SortOrder = "name_desc"
	// SortNewest orders by creation time, newest first.
	SortNewest SortOrder = "newest"
)

// ParseSortOrder validates a sort parameter.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortStorage, SortName, SortNameDesc, SortNewest:
		return SortOrder(s), nil
	default:
		return SortStorage, fmt.Errorf("%w: unknown sort %q", models.ErrValidation, s)
	}
}

// ProductFilter narrows a product listing. Zero values mean "any".
type ProductFilter struct {
	Category string
	Brand    string
	Featured *bool
	InStock  *bool
	Sort     SortOrder
}

// Match reports whether p passes the filter. Brand compares case-insensitively.
func (f *ProductFilter) Match(p *models.Product) bool {
	if f.Category != "" && p.CategorySlug != f.Category {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	return true
}

// ListProducts returns the products passing filter, ordered by filter.Sort.
func (e *Engine) ListProducts(ctx context.Context, filter *ProductFilter) ([]*models.Product, error) {
	products, err := e.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if filter == nil {
		return products, nil
	}

	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if filter.Match(p) {
			out = append(out, p)
		}
	}
	SortProducts(out, filter.Sort)
	return out, nil
}

// SortProducts orders products in place. Ties keep their current order.
func SortProducts(products []*models.Product, order SortOrder) {
	switch order {
	case SortName:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	case SortNameDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) > strings.ToLower(products[j].Name)
		})
	case SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	}
}

// CategoriesWithCounts returns every category with the number of products carrying its slug.
func (e *Engine) CategoriesWithCounts(ctx context.Context) ([]*models.Category, error) {
	categories, err := e.catalog.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	products, err := e.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	counts := make(map[string]int)
	for _, p := range products {
		counts[p.CategorySlug]++
	}
	for _, c := range categories {
		c.ProductCount = counts[c.Slug]
	}
	return categories, nil
}

// ProductAccessories returns the accessories referenced by the product, in the
// product's order. Unknown accessory ids are skipped.
func (e *Engine) ProductAccessories(ctx context.Context, id string) ([]*models.Accessory, error) {
	product, err := e.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	accessories, err := e.catalog.ListAccessories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accessories: %w", err)
	}

	byID := make(map[string]*models.Accessory, len(accessories))
	for _, a := range accessories {
		byID[a.ID] = a
	}
	out := make([]*models.Accessory, 0, len(product.Accessories))
	for _, accID := range product.Accessories {
		if a, ok := byID[accID]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// CompatibleAccessories returns accessories whose compatibleWith list includes categorySlug.
func (e *Engine) CompatibleAccessories(ctx context.Context, categorySlug string) ([]*models.Accessory, error) {
	accessories, err := e.catalog.ListAccessories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accessories: %w", err)
	}
	if categorySlug == "" {
		return accessories, nil
	}
	out := make([]*models.Accessory, 0, len(accessories))
	for _, a := range accessories {
		for _, slug := range a.CompatibleWith {
			if slug == categorySlug {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}
