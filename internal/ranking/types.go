// Package ranking scores how similar two catalog items are and ranks candidates by that score.
package ranking

import (
	"github.com/hyperjump/electrolight/internal/models"
)

// ScoringContext holds the pair of items being compared.
// Subject and Candidate roles are fixed by the caller; some scorers are asymmetric.
type ScoringContext struct {
	// Subject is the item similar items are being looked up for.
	Subject *models.CatalogItem
	// Candidate is the item being scored against Subject.
	Candidate *models.CatalogItem
}

// Scorer is the interface for all similarity signals.
type Scorer interface {
	// Score returns a raw signal in [0, 1] for the pair in ctx.
	Score(ctx *ScoringContext) float64
	// Name returns the name of the scorer for debugging/logging.
	Name() string
}

// ScoreBreakdown provides per-signal scoring information for debugging.
type ScoreBreakdown struct {
	// FinalScore is the weighted, clamped score.
	FinalScore float64
	// Signals maps scorer name to its raw (unweighted) signal.
	Signals map[string]float64
}

// NewScoreBreakdown creates a new ScoreBreakdown instance.
func NewScoreBreakdown() *ScoreBreakdown {
	return &ScoreBreakdown{
		Signals: make(map[string]float64),
	}
}

// RankedItem is a candidate that passed the similarity threshold.
type RankedItem struct {
	// Item is the scored candidate.
	Item *models.CatalogItem
	// Index is the candidate's position in the input slice.
	Index int
	// Score is the similarity score used as ranking key.
	Score float64
}
