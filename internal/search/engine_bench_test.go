package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/hyperjump/electrolight/internal/models"
	"github.com/hyperjump/electrolight/internal/ranking"
)

func benchCatalog(n int) *memCatalog {
	brands := []string{"Philips", "Osram", "Cree", ""}
	categories := []string{"light", "outdoor", "panel"}
	catalog := &memCatalog{}
	for i := 0; i < n; i++ {
		catalog.products = append(catalog.products, &models.Product{
			ID:           fmt.Sprintf("p%d", i),
			Name:         fmt.Sprintf("LED Strip Light Kit %d", i),
			Description:  "Flexible LED strip for indoor lighting",
			Brand:        brands[i%len(brands)],
			CategorySlug: categories[i%len(categories)],
			SpecificationList: []string{
				"Length: 16.4 feet",
				"Voltage: 12V DC",
				fmt.Sprintf("Power: %dW", 10+i%40),
			},
		})
		catalog.accessories = append(catalog.accessories, &models.Accessory{
			ID:          fmt.Sprintf("a%d", i),
			Name:        fmt.Sprintf("Mounting Clip %d", i),
			Description: "Clip for LED strips",
			ModelNumber: fmt.Sprintf("MC-%d", i),
		})
	}
	return catalog
}

func BenchmarkSimilarProducts(b *testing.B) {
	engine := NewEngine(benchCatalog(1000), nil, nil, nil)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.SimilarProducts(ctx, "p0")
	}
}

func BenchmarkSearch(b *testing.B) {
	engine := NewEngine(benchCatalog(1000), nil, nil, nil)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Search(ctx, "mc-999")
	}
}

func BenchmarkRankerScore(b *testing.B) {
	ranker := ranking.NewRanker(nil)
	catalog := benchCatalog(2)
	subject := catalog.products[0].CatalogItem()
	candidate := catalog.products[1].CatalogItem()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ranker.Score(subject, candidate)
	}
}
