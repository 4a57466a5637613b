package ranking

import (
	"sort"

	"github.com/hyperjump/electrolight/internal/models"
)

// Ranker combines the similarity scorers into one weighted score.
type Ranker struct {
	config              *SimilarityConfig
	categoryScorer      *CategoryScorer
	brandScorer         *BrandScorer
	specificationScorer *SpecificationScorer
	nameScorer          *NameScorer
}

// NewRanker creates a new Ranker with the given configuration.
func NewRanker(config *SimilarityConfig) *Ranker {
	if config == nil {
		config = DefaultSimilarityConfig()
	}
	config.ApplyDefaults()

	return &Ranker{
		config:              config,
		categoryScorer:      NewCategoryScorer(),
		brandScorer:         NewBrandScorer(),
		specificationScorer: NewSpecificationScorer(),
		nameScorer:          NewNameScorer(config.NameMinWordLength),
	}
}

// Score returns how similar candidate is to subject, in [0, 1].
// It has no notion of identity: callers exclude the subject themselves.
func (r *Ranker) Score(subject, candidate *models.CatalogItem) float64 {
	ctx := &ScoringContext{Subject: subject, Candidate: candidate}

	// Score = (Wc * Sc) + (Wb * Sb) + (Ws * Ss) + (Wn * Sn)
	score := (r.config.CategoryWeight * r.categoryScorer.Score(ctx)) +
		(r.config.BrandWeight * r.brandScorer.Score(ctx)) +
		(r.config.SpecificationWeight * r.specificationScorer.Score(ctx)) +
		(r.config.NameWeight * r.nameScorer.Score(ctx))

	return clamp(score)
}

// ScoreWithBreakdown returns the score together with each raw signal.
func (r *Ranker) ScoreWithBreakdown(subject, candidate *models.CatalogItem) *ScoreBreakdown {
	ctx := &ScoringContext{Subject: subject, Candidate: candidate}
	breakdown := NewScoreBreakdown()

	weighted := []struct {
		scorer Scorer
		weight float64
	}{
		{r.categoryScorer, r.config.CategoryWeight},
		{r.brandScorer, r.config.BrandWeight},
		{r.specificationScorer, r.config.SpecificationWeight},
		{r.nameScorer, r.config.NameWeight},
	}

	var score float64
	for _, w := range weighted {
		signal := w.scorer.Score(ctx)
		breakdown.Signals[w.scorer.Name()] = signal
		score += w.weight * signal
	}
	breakdown.FinalScore = clamp(score)

	return breakdown
}

// RankSimilar scores every candidate except the subject, keeps those strictly above
// the threshold, and returns the top results by descending score.
// Ties keep their input order.
func (r *Ranker) RankSimilar(subject *models.CatalogItem, candidates []*models.CatalogItem) []*RankedItem {
	results := make([]*RankedItem, 0, len(candidates))

	for i, candidate := range candidates {
		if candidate == nil || candidate.ID == subject.ID {
			continue
		}
		score := r.Score(subject, candidate)
		if score > r.config.Threshold {
			results = append(results, &RankedItem{
				Item:  candidate,
				Index: i,
				Score: score,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return TopN(results, r.config.Limit)
}

// GetConfig returns the similarity configuration.
func (r *Ranker) GetConfig() *SimilarityConfig {
	return r.config
}

// TopN returns the top N results.
func TopN(results []*RankedItem, n int) []*RankedItem {
	if n < 0 || n >= len(results) {
		return results
	}
	return results[:n]
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
