package ranking

import (
	"strings"
	"unicode/utf8"
)

// CategoryScorer matches items in the same category.
type CategoryScorer struct{}

// NewCategoryScorer creates a new CategoryScorer.
func NewCategoryScorer() *CategoryScorer {
	return &CategoryScorer{}
}

// Name returns the scorer name.
func (s *CategoryScorer) Name() string {
	return "category"
}

// Score returns 1 when both category slugs are set and exactly equal (case-sensitive).
func (s *CategoryScorer) Score(ctx *ScoringContext) float64 {
	if ctx.Subject == nil || ctx.Candidate == nil {
		return 0
	}
	if ctx.Subject.CategorySlug == "" || ctx.Candidate.CategorySlug == "" {
		return 0
	}
	if ctx.Subject.CategorySlug == ctx.Candidate.CategorySlug {
		return 1
	}
	return 0
}

// BrandScorer matches items from the same brand.
type BrandScorer struct{}

// NewBrandScorer creates a new BrandScorer.
func NewBrandScorer() *BrandScorer {
	return &BrandScorer{}
}

// Name returns the scorer name.
func (s *BrandScorer) Name() string {
	return "brand"
}

// Score returns 1 when both brands are non-empty and exactly equal.
func (s *BrandScorer) Score(ctx *ScoringContext) float64 {
	if ctx.Subject == nil || ctx.Candidate == nil {
		return 0
	}
	if ctx.Subject.Brand == "" || ctx.Candidate.Brand == "" {
		return 0
	}
	if ctx.Subject.Brand == ctx.Candidate.Brand {
		return 1
	}
	return 0
}

// SpecificationScorer measures loose overlap between specification lists.
//
// A subject spec is common when some candidate spec contains the subject
// spec's first token, or the subject spec contains the candidate spec's first
// token (case-insensitive). The ratio's denominator is the longer list.
type SpecificationScorer struct{}

// NewSpecificationScorer creates a new SpecificationScorer.
func NewSpecificationScorer() *SpecificationScorer {
	return &SpecificationScorer{}
}

// Name returns the scorer name.
func (s *SpecificationScorer) Name() string {
	return "specification"
}

// Score returns commonCount / max(len(subject), len(candidate)), or 0 when either list is empty.
func (s *SpecificationScorer) Score(ctx *ScoringContext) float64 {
	if ctx.Subject == nil || ctx.Candidate == nil {
		return 0
	}
	subject := ctx.Subject.Specifications
	candidate := ctx.Candidate.Specifications
	if len(subject) == 0 || len(candidate) == 0 {
		return 0
	}

	candidateLower := make([]string, len(candidate))
	candidateTokens := make([]string, len(candidate))
	for i, c := range candidate {
		candidateLower[i] = strings.ToLower(c)
		candidateTokens[i] = FirstToken(candidateLower[i])
	}

	common := 0
	for _, spec := range subject {
		specLower := strings.ToLower(spec)
		specToken := FirstToken(specLower)
		for i, c := range candidateLower {
			if specsMatch(specLower, specToken, c, candidateTokens[i]) {
				common++
				break
			}
		}
	}

	return float64(common) / float64(max(len(subject), len(candidate)))
}

// specsMatch expects lower-cased specs and their first tokens.
// A blank spec has no first token and matches nothing.
func specsMatch(a, aToken, b, bToken string) bool {
	if aToken != "" && strings.Contains(b, aToken) {
		return true
	}
	return bToken != "" && strings.Contains(a, bToken)
}

// NameScorer measures shared words between item names.
type NameScorer struct {
	minWordLength int
}

// NewNameScorer creates a NameScorer that ignores words of minWordLength runes or fewer.
func NewNameScorer(minWordLength int) *NameScorer {
	return &NameScorer{minWordLength: minWordLength}
}

// Name returns the scorer name.
func (s *NameScorer) Name() string {
	return "name"
}

// Score returns commonWords / max(len(subjectWords), len(candidateWords)).
// Only words longer than the minimum length count as common.
func (s *NameScorer) Score(ctx *ScoringContext) float64 {
	if ctx.Subject == nil || ctx.Candidate == nil {
		return 0
	}
	subjectWords := NameWords(ctx.Subject.Name)
	candidateWords := NameWords(ctx.Candidate.Name)
	if len(subjectWords) == 0 || len(candidateWords) == 0 {
		return 0
	}

	candidateSet := make(map[string]struct{}, len(candidateWords))
	for _, w := range candidateWords {
		candidateSet[w] = struct{}{}
	}

	common := 0
	for _, w := range subjectWords {
		if utf8.RuneCountInString(w) <= s.minWordLength {
			continue
		}
		if _, ok := candidateSet[w]; ok {
			common++
		}
	}
	if common == 0 {
		return 0
	}
	return float64(common) / float64(max(len(subjectWords), len(candidateWords)))
}
