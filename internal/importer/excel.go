package importer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/electrolight/internal/models"
)

// Sheet names read from workbooks. Other sheets are ignored.
const (
	sheetProducts    = "Products"
	sheetAccessories = "Accessories"
	sheetCategories  = "Categories"
)

func parseExcel(content []byte) (*Batch, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	batch := &Batch{}
	for _, sheet := range f.GetSheetList() {
		var parse func(*row)
		switch sheet {
		case sheetProducts:
			parse = func(r *row) { batch.Products = append(batch.Products, r.product()) }
		case sheetAccessories:
			parse = func(r *row) { batch.Accessories = append(batch.Accessories, r.accessory()) }
		case sheetCategories:
			parse = func(r *row) { batch.Categories = append(batch.Categories, r.category()) }
		default:
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		header := headerIndex(rows[0])
		for _, cells := range rows[1:] {
			if blankRow(cells) {
				continue
			}
			parse(&row{header: header, cells: cells})
		}
	}
	return batch, nil
}

// headerIndex maps normalized column names to their position.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[normalizeHeader(h)] = i
	}
	return index
}

// normalizeHeader lower-cases h and drops spaces, underscores and dashes,
// so "Category Slug", "category_slug" and "categorySlug" are one column.
func normalizeHeader(h string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(h)))
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

type row struct {
	header map[string]int
	cells  []string
}

// get returns the trimmed value of the first present column among names.
func (r *row) get(names ...string) string {
	for _, name := range names {
		i, ok := r.header[name]
		if !ok {
			continue
		}
		if i < len(r.cells) {
			return strings.TrimSpace(r.cells[i])
		}
		return ""
	}
	return ""
}

// list splits a cell on semicolons and newlines.
func (r *row) list(names ...string) []string {
	raw := r.get(names...)
	parts := strings.FieldsFunc(raw, func(c rune) bool { return c == ';' || c == '\n' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// flag accepts strconv booleans plus yes/y. A missing column or blank cell
// yields def; anything else is false.
func (r *row) flag(def bool, names ...string) bool {
	v := strings.ToLower(r.get(names...))
	if v == "" {
		return def
	}
	if v == "yes" || v == "y" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

func (r *row) product() *models.Product {
	return &models.Product{
		ID:                r.get("id"),
		Name:              r.get("name"),
		Description:       r.get("description"),
		Brand:             r.get("brand"),
		CategorySlug:      r.get("categoryslug", "category"),
		SpecificationList: r.list("specifications", "specificationlist"),
		ImageURL:          r.get("imageurl", "image"),
		ImageURLs:         r.list("imageurls", "images"),
		Featured:          r.flag(false, "featured"),
		InStock:           r.flag(true, "instock"),
		Accessories:       r.list("accessories"),
		SimilarProducts:   r.list("similarproducts"),
	}
}

func (r *row) accessory() *models.Accessory {
	return &models.Accessory{
		ID:                r.get("id"),
		Name:              r.get("name"),
		Description:       r.get("description"),
		Brand:             r.get("brand"),
		ModelNumber:       r.get("modelnumber", "model"),
		CompatibleWith:    r.list("compatiblewith", "compatible"),
		ImageURL:          r.get("imageurl", "image"),
		SpecificationList: r.list("specifications", "specificationlist"),
	}
}

func (r *row) category() *models.Category {
	return &models.Category{
		ID:          r.get("id"),
		Slug:        r.get("slug"),
		Name:        r.get("name"),
		Description: r.get("description"),
		ImageURL:    r.get("imageurl", "image"),
	}
}
