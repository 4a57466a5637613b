// Package importer loads catalog records from spreadsheet and YAML files into storage.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/electrolight/internal/metrics"
	"github.com/hyperjump/electrolight/internal/models"
	"github.com/hyperjump/electrolight/internal/storage"
)

// ErrUnsupportedFormat is returned for files that are neither .xlsx nor YAML.
var ErrUnsupportedFormat = fmt.Errorf("%w: unsupported import format", models.ErrValidation)

var errBlankEntry = fmt.Errorf("%w: blank entry", models.ErrValidation)

// Batch is a parsed import file.
type Batch struct {
	Categories  []*models.Category  `yaml:"categories"`
	Accessories []*models.Accessory `yaml:"accessories"`
	Products    []*models.Product   `yaml:"products"`
}

// Importer upserts parsed batches into the catalog.
type Importer struct {
	store  storage.Catalog
	logger *zap.Logger
}

// NewImporter returns a new Importer.
func NewImporter(store storage.Catalog, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{store: store, logger: logger}
}

// Supported reports whether ext (with leading dot) is an importable format.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".xlsx", ".yaml", ".yml":
		return true
	}
	return false
}

// ImportFile reads the file at path and imports it.
func (im *Importer) ImportFile(ctx context.Context, path string) (*models.ImportReport, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	report, err := im.ImportBytes(ctx, content, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	im.logger.Info("catalog imported",
		zap.String("path", path),
		zap.Int("products", report.Products),
		zap.Int("accessories", report.Accessories),
		zap.Int("categories", report.Categories),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

// ImportBytes parses content according to ext and imports it.
func (im *Importer) ImportBytes(ctx context.Context, content []byte, ext string) (*models.ImportReport, error) {
	batch, err := Parse(content, ext)
	if err != nil {
		metrics.ImportErrorsTotal.Inc()
		return nil, err
	}
	report, err := im.Apply(ctx, batch)
	metrics.ImportedRecordsTotal.WithLabelValues("product").Add(float64(report.Products))
	metrics.ImportedRecordsTotal.WithLabelValues("accessory").Add(float64(report.Accessories))
	metrics.ImportedRecordsTotal.WithLabelValues("category").Add(float64(report.Categories))
	if err != nil {
		metrics.ImportErrorsTotal.Inc()
		return nil, err
	}
	return report, nil
}

// Parse decodes content according to ext. ext should include the leading dot.
func Parse(content []byte, ext string) (*Batch, error) {
	switch strings.ToLower(ext) {
	case ".xlsx":
		return parseExcel(content)
	case ".yaml", ".yml":
		return parseYAML(content)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Apply upserts the batch: categories by slug, accessories and products by id.
// Blank entries and records failing validation are skipped and counted.
func (im *Importer) Apply(ctx context.Context, batch *Batch) (*models.ImportReport, error) {
	report := &models.ImportReport{}

	for _, c := range batch.Categories {
		if c == nil {
			im.skip(report, "category", errBlankEntry)
			continue
		}
		if err := c.Validate(); err != nil {
			im.skip(report, "category", err)
			continue
		}
		if err := im.upsertCategory(ctx, c); err != nil {
			return report, fmt.Errorf("import category %s: %w", c.Slug, err)
		}
		report.Categories++
	}

	for _, a := range batch.Accessories {
		if a == nil {
			im.skip(report, "accessory", errBlankEntry)
			continue
		}
		if err := a.Validate(); err != nil {
			im.skip(report, "accessory", err)
			continue
		}
		if err := im.upsertAccessory(ctx, a); err != nil {
			return report, fmt.Errorf("import accessory %s: %w", a.ID, err)
		}
		report.Accessories++
	}

	for _, p := range batch.Products {
		if p == nil {
			im.skip(report, "product", errBlankEntry)
			continue
		}
		if err := p.Validate(); err != nil {
			im.skip(report, "product", err)
			continue
		}
		if err := im.upsertProduct(ctx, p); err != nil {
			return report, fmt.Errorf("import product %s: %w", p.ID, err)
		}
		report.Products++
	}

	return report, nil
}

func (im *Importer) skip(report *models.ImportReport, kind string, err error) {
	report.Skipped++
	im.logger.Warn("skipping import row", zap.String("kind", kind), zap.Error(err))
}

func (im *Importer) upsertCategory(ctx context.Context, c *models.Category) error {
	err := im.store.UpdateCategory(ctx, c)
	if errors.Is(err, storage.ErrNotFound) {
		return im.store.CreateCategory(ctx, c)
	}
	return err
}

func (im *Importer) upsertAccessory(ctx context.Context, a *models.Accessory) error {
	if a.ID == "" {
		return im.store.CreateAccessory(ctx, a)
	}
	err := im.store.UpdateAccessory(ctx, a)
	if errors.Is(err, storage.ErrNotFound) {
		return im.store.CreateAccessory(ctx, a)
	}
	return err
}

func (im *Importer) upsertProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		return im.store.CreateProduct(ctx, p)
	}
	err := im.store.UpdateProduct(ctx, p)
	if errors.Is(err, storage.ErrNotFound) {
		return im.store.CreateProduct(ctx, p)
	}
	return err
}
