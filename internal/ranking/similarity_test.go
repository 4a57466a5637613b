package ranking

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/hyperjump/electrolight/internal/models"
)

func TestNewRanker(t *testing.T) {
	ranker := NewRanker(nil)
	if ranker == nil || ranker.config == nil {
		t.Fatal("Expected non-nil ranker and config")
	}
	if ranker.config.Threshold != 0.3 || ranker.config.Limit != 3 {
		t.Errorf("unexpected defaults: %+v", ranker.config)
	}

	ranker = NewRanker(&SimilarityConfig{Limit: 5})
	if ranker.GetConfig().Limit != 5 {
		t.Errorf("Expected Limit 5, got %d", ranker.GetConfig().Limit)
	}
	if ranker.GetConfig().CategoryWeight != 0.4 {
		t.Errorf("Expected default CategoryWeight, got %v", ranker.GetConfig().CategoryWeight)
	}
}

func TestNewRanker_ZeroWeightDisablesSignal(t *testing.T) {
	cfg := DefaultSimilarityConfig()
	cfg.BrandWeight = 0
	cfg.Threshold = 0
	ranker := NewRanker(cfg)

	subject := &models.CatalogItem{ID: "1", Name: "Desk Lamp", Brand: "Philips"}
	brandOnly := &models.CatalogItem{ID: "2", Name: "Ceiling Fan", Brand: "Philips"}
	if got := ranker.Score(subject, brandOnly); got != 0 {
		t.Errorf("brand-only score with zero brand weight = %v, want 0", got)
	}

	nameOnly := &models.CatalogItem{ID: "3", Name: "Floor Lamp"}
	ranked := ranker.RankSimilar(subject, []*models.CatalogItem{brandOnly, nameOnly})
	if len(ranked) != 1 || ranked[0].Item.ID != "3" {
		t.Errorf("zero threshold should keep any positive score, got %d items", len(ranked))
	}
}

func TestRanker_Score_LEDStripScenario(t *testing.T) {
	ranker := NewRanker(nil)
	subject := &models.CatalogItem{
		ID:             "1",
		Name:           "LED Strip Light Kit",
		CategorySlug:   "light",
		Brand:          "Philips",
		Specifications: []string{"Length: 16.4 feet", "Voltage: 12V DC"},
	}
	candidate := &models.CatalogItem{
		ID:             "2",
		Name:           "LED Strip Light Pro",
		CategorySlug:   "light",
		Brand:          "Philips",
		Specifications: []string{"Length: 10 feet", "Voltage: 12V DC"},
	}

	score := ranker.Score(subject, candidate)
	if score <= 0.3 || score >= 1.0 {
		t.Fatalf("Score() = %v, want in (0.3, 1.0)", score)
	}
	// 0.4 category + 0.3 brand + 0.2 * 2/2 specs + 0.1 * 2/4 names ("strip", "light")
	if math.Abs(score-0.95) > 1e-9 {
		t.Errorf("Score() = %v, want 0.95", score)
	}
}

func TestRanker_Score_SelfIsMaximal(t *testing.T) {
	ranker := NewRanker(nil)
	item := &models.CatalogItem{
		Name:           "Outdoor Flood Light",
		CategorySlug:   "light",
		Brand:          "Osram",
		Specifications: []string{"Wattage: 50W", "IP rating: IP66"},
	}
	if got := ranker.Score(item, item); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("self score = %v, want 1.0", got)
	}

	noBrand := &models.CatalogItem{Name: "Ceiling Panel", CategorySlug: "light"}
	if got := ranker.Score(noBrand, noBrand); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("self score without brand or specs = %v, want 0.5", got)
	}
}

func TestRanker_Score_Unrelated(t *testing.T) {
	ranker := NewRanker(nil)
	a := &models.CatalogItem{
		Name:           "Ceiling Panel",
		CategorySlug:   "light",
		Brand:          "Philips",
		Specifications: []string{"Wattage: 40W"},
	}
	b := &models.CatalogItem{
		Name:           "Double Socket",
		CategorySlug:   "socket",
		Brand:          "Legrand",
		Specifications: []string{"Rating: 16A"},
	}
	if got := ranker.Score(a, b); got != 0 {
		t.Errorf("Score() = %v, want 0", got)
	}
}

func TestRanker_Score_AlwaysInRange(t *testing.T) {
	ranker := NewRanker(nil)
	rng := rand.New(rand.NewSource(42))
	words := []string{"led", "light", "panel", "strip", "switch", "socket", "outdoor", "flood", "kit"}
	slugs := []string{"", "light", "switch", "socket"}
	brands := []string{"", "Philips", "Osram", "Legrand"}
	specs := []string{"Length: 5m", "Voltage: 12V", "voltage 24v", "", "Color: white", "IP65"}

	randomItem := func() *models.CatalogItem {
		item := &models.CatalogItem{
			CategorySlug: slugs[rng.Intn(len(slugs))],
			Brand:        brands[rng.Intn(len(brands))],
		}
		for i := rng.Intn(5); i > 0; i-- {
			item.Name += words[rng.Intn(len(words))] + " "
		}
		for i := rng.Intn(4); i > 0; i-- {
			item.Specifications = append(item.Specifications, specs[rng.Intn(len(specs))])
		}
		return item
	}

	for i := 0; i < 2000; i++ {
		a, b := randomItem(), randomItem()
		score := ranker.Score(a, b)
		if score < 0 || score > 1 {
			t.Fatalf("Score(%+v, %+v) = %v out of range", a, b, score)
		}
	}
}

func TestRanker_ScoreWithBreakdown(t *testing.T) {
	ranker := NewRanker(nil)
	a := &models.CatalogItem{Name: "Panel Light", CategorySlug: "light", Brand: "Philips"}
	b := &models.CatalogItem{Name: "Flood Light", CategorySlug: "light", Brand: "Osram"}

	breakdown := ranker.ScoreWithBreakdown(a, b)
	if breakdown.Signals["category"] != 1 || breakdown.Signals["brand"] != 0 {
		t.Errorf("unexpected signals: %v", breakdown.Signals)
	}
	if math.Abs(breakdown.FinalScore-ranker.Score(a, b)) > 1e-12 {
		t.Errorf("breakdown score %v differs from Score %v", breakdown.FinalScore, ranker.Score(a, b))
	}
}

func TestRanker_RankSimilar(t *testing.T) {
	ranker := NewRanker(nil)
	subject := &models.CatalogItem{ID: "s", Name: "Panel Light", CategorySlug: "light", Brand: "Philips"}
	candidates := []*models.CatalogItem{
		subject,
		{ID: "brand-only", Name: "Wall Switch", CategorySlug: "switch", Brand: "Philips"}, // exactly 0.3
		{ID: "cat-a", Name: "Flood", CategorySlug: "light"},                            // 0.4
		{ID: "best", Name: "Panel Light", CategorySlug: "light", Brand: "Philips"},     // 0.8
		{ID: "cat-b", Name: "Spot", CategorySlug: "light"},                             // 0.4
		{ID: "cat-c", Name: "Strip", CategorySlug: "light"},                            // 0.4
		{ID: "none", Name: "Cable", CategorySlug: "cable"},
	}

	results := ranker.RankSimilar(subject, candidates)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	gotIDs := []string{results[0].Item.ID, results[1].Item.ID, results[2].Item.ID}
	wantIDs := []string{"best", "cat-a", "cat-b"}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Errorf("results = %v, want %v", gotIDs, wantIDs)
			break
		}
	}
	for i, r := range results {
		if r.Item.ID == subject.ID {
			t.Error("subject must not be in results")
		}
		if r.Score <= 0.3 {
			t.Errorf("result %d score %v not above threshold", i, r.Score)
		}
		if i > 0 && r.Score > results[i-1].Score {
			t.Errorf("results not sorted descending at %d", i)
		}
		if candidates[r.Index] != r.Item {
			t.Errorf("Index %d does not point at the item", r.Index)
		}
	}
}

func TestRanker_RankSimilar_Empty(t *testing.T) {
	ranker := NewRanker(nil)
	subject := &models.CatalogItem{ID: "s", Name: "Panel", CategorySlug: "light"}
	if got := ranker.RankSimilar(subject, nil); len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
	if got := ranker.RankSimilar(subject, []*models.CatalogItem{subject}); len(got) != 0 {
		t.Errorf("subject alone should yield nothing, got %d", len(got))
	}
}

func TestRanker_RankSimilar_CustomLimit(t *testing.T) {
	ranker := NewRanker(&SimilarityConfig{Limit: 5})
	subject := &models.CatalogItem{ID: "s", CategorySlug: "light"}
	var candidates []*models.CatalogItem
	for i := 0; i < 8; i++ {
		candidates = append(candidates, &models.CatalogItem{ID: fmt.Sprintf("c%d", i), CategorySlug: "light"})
	}
	results := ranker.RankSimilar(subject, candidates)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("tie order not preserved: position %d has index %d", i, r.Index)
		}
	}
}

func TestTopN(t *testing.T) {
	results := []*RankedItem{{Score: 3}, {Score: 2}, {Score: 1}}
	if got := TopN(results, 2); len(got) != 2 {
		t.Errorf("TopN(2) len = %d", len(got))
	}
	if got := TopN(results, 10); len(got) != 3 {
		t.Errorf("TopN(10) len = %d", len(got))
	}
}
