// Package models defines core data structures for catalog records, accounts, and search results.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrValidation is returned when a record is missing required fields.
var ErrValidation = errors.New("validation failed")

// Product is a catalog product as stored and served to the storefront.
type Product struct {
	ID                string    `json:"id" yaml:"id"`
	Name              string    `json:"name" yaml:"name"`
	Description       string    `json:"description" yaml:"description"`
	Brand             string    `json:"brand,omitempty" yaml:"brand"`
	CategorySlug      string    `json:"categorySlug" yaml:"category_slug"`
	SpecificationList []string  `json:"specificationList" yaml:"specifications"`
	ImageURL          string    `json:"imageUrl,omitempty" yaml:"image_url"`
	ImageURLs         []string  `json:"imageUrls" yaml:"image_urls"`
	Featured          bool      `json:"featured" yaml:"featured"`
	InStock           bool      `json:"inStock" yaml:"in_stock"`
	Accessories       []string  `json:"accessories" yaml:"accessories"`
	SimilarProducts   []string  `json:"similarProducts" yaml:"similar_products"`
	CreatedAt         time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt         time.Time `json:"updatedAt" yaml:"-"`
}

// Accessory is a catalog accessory. CompatibleWith lists category slugs.
type Accessory struct {
	ID                string    `json:"id" yaml:"id"`
	Name              string    `json:"name" yaml:"name"`
	Description       string    `json:"description" yaml:"description"`
	Brand             string    `json:"brand,omitempty" yaml:"brand"`
	ModelNumber       string    `json:"modelNumber,omitempty" yaml:"model_number"`
	CompatibleWith    []string  `json:"compatibleWith" yaml:"compatible_with"`
	ImageURL          string    `json:"imageUrl,omitempty" yaml:"image_url"`
	SpecificationList []string  `json:"specificationList" yaml:"specifications"`
	CreatedAt         time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt         time.Time `json:"updatedAt" yaml:"-"`
}

// Category groups products by slug.
type Category struct {
	ID           string `json:"id" yaml:"id"`
	Slug         string `json:"slug" yaml:"slug"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description,omitempty" yaml:"description"`
	ImageURL     string `json:"imageUrl,omitempty" yaml:"image_url"`
	ProductCount int    `json:"productCount" yaml:"-"`
}

// CatalogItem is the read-only view of a product or accessory used by ranking and search.
type CatalogItem struct {
	ID             string
	Name           string
	Description    string
	Brand          string
	CategorySlug   string
	ModelNumber    string
	Specifications []string
}

// CatalogItem returns the ranking/search view of the product.
func (p *Product) CatalogItem() *CatalogItem {
	return &CatalogItem{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Brand:          p.Brand,
		CategorySlug:   p.CategorySlug,
		Specifications: p.SpecificationList,
	}
}

// CatalogItem returns the ranking/search view of the accessory.
func (a *Accessory) CatalogItem() *CatalogItem {
	return &CatalogItem{
		ID:             a.ID,
		Name:           a.Name,
		Description:    a.Description,
		Brand:          a.Brand,
		ModelNumber:    a.ModelNumber,
		Specifications: a.SpecificationList,
	}
}

// UnmarshalYAML treats a missing in_stock key as in stock, like the store default.
func (p *Product) UnmarshalYAML(value *yaml.Node) error {
	type plain Product
	decoded := plain{InStock: true}
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*p = Product(decoded)
	return nil
}

// Validate checks required fields and replaces nil lists with empty ones
// so they encode as [] rather than null.
func (p *Product) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	p.Description = strings.TrimSpace(p.Description)
	if p.Description == "" {
		return fmt.Errorf("%w: product description is required", ErrValidation)
	}
	if strings.TrimSpace(p.CategorySlug) == "" {
		return fmt.Errorf("%w: product categorySlug is required", ErrValidation)
	}
	p.SpecificationList = nonNil(p.SpecificationList)
	p.ImageURLs = nonNil(p.ImageURLs)
	p.Accessories = nonNil(p.Accessories)
	p.SimilarProducts = nonNil(p.SimilarProducts)
	return nil
}

// Validate checks required fields and normalizes list fields.
func (a *Accessory) Validate() error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return fmt.Errorf("%w: accessory name is required", ErrValidation)
	}
	a.Description = strings.TrimSpace(a.Description)
	if a.Description == "" {
		return fmt.Errorf("%w: accessory description is required", ErrValidation)
	}
	a.CompatibleWith = nonNil(a.CompatibleWith)
	a.SpecificationList = nonNil(a.SpecificationList)
	return nil
}

// Validate checks required fields. An empty slug is derived from the name.
func (c *Category) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if strings.TrimSpace(c.Slug) == "" {
		c.Slug = Slugify(c.Name)
	}
	if c.Slug == "" {
		return fmt.Errorf("%w: category slug is required", ErrValidation)
	}
	return nil
}

// Slugify lower-cases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
