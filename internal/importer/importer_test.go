package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/electrolight/internal/metrics"
	"github.com/hyperjump/electrolight/internal/models"
	"github.com/hyperjump/electrolight/internal/storage"
)

func newTestImporter(t *testing.T) (*Importer, *storage.SQLiteStorage) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "import.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewImporter(store, nil), store
}

// buildWorkbook writes sheets of rows (header first) into an in-memory .xlsx.
func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for name, rows := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		for i, r := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			row := r
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSupported(t *testing.T) {
	for ext, want := range map[string]bool{".xlsx": true, ".YAML": true, ".yml": true, ".csv": false, "": false} {
		if got := Supported(ext); got != want {
			t.Errorf("Supported(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestParse_Unsupported(t *testing.T) {
	_, err := Parse([]byte("a,b"), ".csv")
	if !errors.Is(err, ErrUnsupportedFormat) || !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestImportBytes_Excel(t *testing.T) {
	im, store := newTestImporter(t)
	ctx := context.Background()

	content := buildWorkbook(t, map[string][][]interface{}{
		"Products": {
			{"ID", "Name", "Description", "Brand", "Category Slug", "Specifications", "Featured", "In Stock", "Accessories"},
			{"p1", "LED Strip Light Kit", "Flexible strip", "Philips", "light", "Length: 16.4 feet; Voltage: 12V DC", "yes", "TRUE", "a1"},
			{"", "Wall Switch", "Two-way", "", "switch", "Rating: 10A\nColor: white", "", "1", ""},
			{"p3", "", "no name", "", "light", "", "", "", ""},
			{},
		},
		"Accessories": {
			{"id", "name", "description", "model_number", "compatible_with"},
			{"a1", "Mounting Clip", "Clip for strips", "MC-10", "light;switch"},
		},
		"Categories": {
			{"slug", "name"},
			{"", "Lighting Fixtures"},
		},
		"Notes": {
			{"ignored"},
		},
	})

	report, err := im.ImportBytes(ctx, content, ".xlsx")
	if err != nil {
		t.Fatal(err)
	}
	want := models.ImportReport{Products: 2, Accessories: 1, Categories: 1, Skipped: 1}
	if *report != want {
		t.Errorf("report = %+v, want %+v", *report, want)
	}

	p, err := store.GetProduct(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Featured || !p.InStock || p.Brand != "Philips" {
		t.Errorf("product flags/brand: %+v", p)
	}
	if len(p.SpecificationList) != 2 || p.SpecificationList[1] != "Voltage: 12V DC" {
		t.Errorf("specifications: %q", p.SpecificationList)
	}

	products, _ := store.ListProducts(ctx)
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	generated := products[1]
	if generated.ID == "" || generated.Name != "Wall Switch" {
		t.Errorf("generated product: %+v", generated)
	}
	if len(generated.SpecificationList) != 2 || generated.Featured {
		t.Errorf("newline-separated specs or featured flag wrong: %+v", generated)
	}

	a, err := store.GetAccessory(ctx, "a1")
	if err != nil {
		t.Fatal(err)
	}
	if a.ModelNumber != "MC-10" || len(a.CompatibleWith) != 2 {
		t.Errorf("accessory: %+v", a)
	}

	if _, err := store.GetCategory(ctx, "lighting-fixtures"); err != nil {
		t.Errorf("category slug should be derived from name: %v", err)
	}
}

func TestImportBytes_YAMLUpserts(t *testing.T) {
	im, store := newTestImporter(t)
	ctx := context.Background()

	first := []byte(`
categories:
  - slug: light
    name: Lighting
products:
  - id: p1
    name: Ceiling Panel
    description: Flat panel
    category_slug: light
    brand: Osram
    specifications: ["Power: 24W"]
`)
	if _, err := im.ImportBytes(ctx, first, ".yaml"); err != nil {
		t.Fatal(err)
	}

	second := []byte(`
categories:
  - slug: light
    name: Lights
products:
  - id: p1
    name: Ceiling Panel Slim
    description: Flat panel
    category_slug: light
  - name: Flood Light
    description: Outdoor flood
    category_slug: light
`)
	report, err := im.ImportBytes(ctx, second, ".yml")
	if err != nil {
		t.Fatal(err)
	}
	if report.Products != 2 || report.Categories != 1 {
		t.Errorf("report = %+v", report)
	}

	p, err := store.GetProduct(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Ceiling Panel Slim" {
		t.Errorf("product not updated: %s", p.Name)
	}
	c, err := store.GetCategory(ctx, "light")
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Lights" {
		t.Errorf("category not updated: %s", c.Name)
	}
	n, _ := store.CountProducts(ctx)
	if n != 2 {
		t.Errorf("expected 2 products, got %d", n)
	}
}

func TestImportBytes_InvalidYAML(t *testing.T) {
	im, _ := newTestImporter(t)
	before := testutil.ToFloat64(metrics.ImportErrorsTotal)
	if _, err := im.ImportBytes(context.Background(), []byte("products: [oops"), ".yaml"); err == nil {
		t.Error("expected parse error")
	}
	if got := testutil.ToFloat64(metrics.ImportErrorsTotal) - before; got != 1 {
		t.Errorf("import errors counted: got %v, want 1", got)
	}
}

func TestImportFile(t *testing.T) {
	im, store := newTestImporter(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	var body string
	for i := 0; i < 3; i++ {
		body += fmt.Sprintf("  - {id: a%d, name: Clip %d, description: Clip, model_number: C-%d}\n", i, i, i)
	}
	if err := os.WriteFile(path, []byte("accessories:\n"+body), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := im.ImportFile(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if report.Accessories != 3 {
		t.Errorf("accessories imported: %d", report.Accessories)
	}
	list, _ := store.ListAccessories(ctx)
	if len(list) != 3 || list[2].ModelNumber != "C-2" {
		t.Errorf("accessories: %+v", list)
	}

	if _, err := im.ImportFile(ctx, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestImportBytes_BlankEntriesSkipped(t *testing.T) {
	im, store := newTestImporter(t)
	ctx := context.Background()

	content := []byte(`
categories:
  -
accessories:
  -
  - {id: a1, name: Clip, description: Mounting clip}
products:
  -
  - id: p1
    name: Lamp
    description: Desk lamp
    category_slug: light
`)
	report, err := im.ImportBytes(ctx, content, ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	want := models.ImportReport{Products: 1, Accessories: 1, Skipped: 3}
	if *report != want {
		t.Errorf("report = %+v, want %+v", *report, want)
	}
	if _, err := store.GetProduct(ctx, "p1"); err != nil {
		t.Errorf("valid product after blank entry not imported: %v", err)
	}
}

func TestImportBytes_InStockDefaultsToTrue(t *testing.T) {
	im, store := newTestImporter(t)
	ctx := context.Background()

	yamlContent := []byte(`
products:
  - {id: y1, name: Lamp, description: Desk lamp, category_slug: light}
  - {id: y2, name: Spot, description: Track spot, category_slug: light, in_stock: false}
`)
	if _, err := im.ImportBytes(ctx, yamlContent, ".yaml"); err != nil {
		t.Fatal(err)
	}

	xlsx := buildWorkbook(t, map[string][][]interface{}{
		"Products": {
			{"ID", "Name", "Description", "Category Slug"},
			{"x1", "Panel", "Flat panel", "light"},
		},
	})
	if _, err := im.ImportBytes(ctx, xlsx, ".xlsx"); err != nil {
		t.Fatal(err)
	}

	for id, want := range map[string]bool{"y1": true, "y2": false, "x1": true} {
		p, err := store.GetProduct(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if p.InStock != want {
			t.Errorf("%s inStock = %v, want %v", id, p.InStock, want)
		}
	}
}

func TestImportBytes_DescriptionRequired(t *testing.T) {
	im, store := newTestImporter(t)
	content := []byte(`
products:
  - {id: p1, name: Lamp, category_slug: light}
`)
	report, err := im.ImportBytes(context.Background(), content, ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	if report.Products != 0 || report.Skipped != 1 {
		t.Errorf("report = %+v", report)
	}
	if _, err := store.GetProduct(context.Background(), "p1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("product without description should not be stored, got %v", err)
	}
}
