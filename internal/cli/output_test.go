package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/electrolight/internal/models"
)

func TestParseOutputFormat(t *testing.T) {
	for _, s := range []string{"text", "json"} {
		if _, err := ParseOutputFormat(s); err != nil {
			t.Errorf("ParseOutputFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseOutputFormat("compact"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteSearchResults_JSONKeepsEmptyArrays(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, models.NewSearchResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if string(decoded["products"]) != "[]" || string(decoded["accessories"]) != "[]" {
		t.Errorf("got %s", buf.String())
	}
}

func TestWriteSearchResults_Text(t *testing.T) {
	response := &models.SearchResponse{
		Products: []*models.Product{
			{ID: "p1", Name: "LED Strip Light Kit", Brand: "Philips", CategorySlug: "light",
				Description: strings.Repeat("long ", 40)},
		},
		Accessories: []*models.Accessory{{ID: "a1", Name: "Clip", ModelNumber: "MC-10"}},
	}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Products (1)", "LED Strip Light Kit (Philips)", "Accessories (1)", "[MC-10]", "..."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteProducts_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteProducts(&buf, nil, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No products.") {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriteImportReport(t *testing.T) {
	report := &models.ImportReport{Products: 3, Accessories: 2, Categories: 1, Skipped: 4}
	var buf bytes.Buffer
	if err := WriteImportReport(&buf, report, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "skipped:      4") {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	if err := WriteImportReport(&buf, report, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.ImportReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || decoded != *report {
		t.Errorf("decoded %+v, %v", decoded, err)
	}
}

func TestWriteStatus(t *testing.T) {
	var buf bytes.Buffer
	status := &Status{Products: 5, DatabasePath: "/tmp/catalog.db"}
	if err := WriteStatus(&buf, status, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "products:        5") || !strings.Contains(buf.String(), "/tmp/catalog.db") {
		t.Errorf("got %q", buf.String())
	}
}
