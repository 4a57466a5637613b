// Package cli formats catalog results for the electrolight command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/electrolight/internal/models"
	"github.com/hyperjump/electrolight/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is indented JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const descriptionWidth = 80

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSearchResults writes a combined search response.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "Products (%d)\n", len(response.Products))
	for _, p := range response.Products {
		writeProduct(w, p)
	}
	fmt.Fprintf(w, "\nAccessories (%d)\n", len(response.Accessories))
	for _, a := range response.Accessories {
		fmt.Fprintf(w, "  %s  %s", a.ID, a.Name)
		if a.ModelNumber != "" {
			fmt.Fprintf(w, " [%s]", a.ModelNumber)
		}
		fmt.Fprintln(w)
		if a.Description != "" {
			fmt.Fprintf(w, "      %s\n", utils.Truncate(a.Description, descriptionWidth))
		}
	}
	return nil
}

// WriteProducts writes a product list, e.g. similar products.
func WriteProducts(w io.Writer, products []*models.Product, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, products)
	}
	if len(products) == 0 {
		fmt.Fprintln(w, "No products.")
		return nil
	}
	for _, p := range products {
		writeProduct(w, p)
	}
	return nil
}

func writeProduct(w io.Writer, p *models.Product) {
	fmt.Fprintf(w, "  %s  %s", p.ID, p.Name)
	if p.Brand != "" {
		fmt.Fprintf(w, " (%s)", p.Brand)
	}
	fmt.Fprintf(w, "  category=%s\n", p.CategorySlug)
	if p.Description != "" {
		fmt.Fprintf(w, "      %s\n", utils.Truncate(p.Description, descriptionWidth))
	}
}

// WriteImportReport writes the outcome of a catalog import.
func WriteImportReport(w io.Writer, report *models.ImportReport, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, report)
	}
	fmt.Fprintf(w, "categories:   %d\n", report.Categories)
	fmt.Fprintf(w, "accessories:  %d\n", report.Accessories)
	fmt.Fprintf(w, "products:     %d\n", report.Products)
	fmt.Fprintf(w, "skipped:      %d\n", report.Skipped)
	return nil
}

// Status is the catalog summary printed by the status command.
type Status struct {
	Products          int64  `json:"products"`
	Accessories       int64  `json:"accessories"`
	Categories        int    `json:"categories"`
	DatabasePath      string `json:"databasePath"`
	DatabaseSizeBytes int64  `json:"databaseSizeBytes"`
}

// WriteStatus writes a catalog summary.
func WriteStatus(w io.Writer, status *Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	fmt.Fprintf(w, "products:        %d\n", status.Products)
	fmt.Fprintf(w, "accessories:     %d\n", status.Accessories)
	fmt.Fprintf(w, "categories:      %d\n", status.Categories)
	fmt.Fprintf(w, "database_path:   %s\n", status.DatabasePath)
	fmt.Fprintf(w, "database_bytes:  %d\n", status.DatabaseSizeBytes)
	return nil
}
