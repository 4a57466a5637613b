package ranking

import "gopkg.in/yaml.v3"

// SimilarityConfig holds weights and cut-offs for similar-item ranking.
type SimilarityConfig struct {
	// Signal weights. With the defaults they sum to 1.0.
	CategoryWeight      float64 `yaml:"category_weight"`      // default: 0.4
	BrandWeight         float64 `yaml:"brand_weight"`         // default: 0.3
	SpecificationWeight float64 `yaml:"specification_weight"` // default: 0.2
	NameWeight          float64 `yaml:"name_weight"`          // default: 0.1

	// NameMinWordLength is the rune count a shared name word must exceed to count.
	NameMinWordLength int `yaml:"name_min_word_length"` // default: 3

	// Threshold is exclusive: a candidate must score strictly above it.
	Threshold float64 `yaml:"threshold"` // default: 0.3
	// Limit caps the number of similar items returned.
	Limit int `yaml:"limit"` // default: 3

	// explicit is set when the values came from a config file or from
	// DefaultSimilarityConfig; zero weights and a zero threshold are then kept.
	explicit bool
}

// DefaultSimilarityConfig returns the default similarity configuration.
func DefaultSimilarityConfig() *SimilarityConfig {
	return &SimilarityConfig{
		CategoryWeight:      0.4,
		BrandWeight:         0.3,
		SpecificationWeight: 0.2,
		NameWeight:          0.1,
		NameMinWordLength:   3,
		Threshold:           0.3,
		Limit:               3,
		explicit:            true,
	}
}

// UnmarshalYAML starts from the defaults so keys missing from the file keep
// their default and keys set to 0 stay 0.
func (c *SimilarityConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain SimilarityConfig
	decoded := plain(*DefaultSimilarityConfig())
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*c = SimilarityConfig(decoded)
	c.explicit = true
	return nil
}

// ApplyDefaults fills in zero values with defaults. Weights and the threshold
// are only filled for configs built by hand; a zero limit or word length
// always means the default.
func (c *SimilarityConfig) ApplyDefaults() {
	defaults := DefaultSimilarityConfig()

	if c.NameMinWordLength == 0 {
		c.NameMinWordLength = defaults.NameMinWordLength
	}
	if c.Limit == 0 {
		c.Limit = defaults.Limit
	}
	if c.explicit {
		return
	}
	if c.CategoryWeight == 0 {
		c.CategoryWeight = defaults.CategoryWeight
	}
	if c.BrandWeight == 0 {
		c.BrandWeight = defaults.BrandWeight
	}
	if c.SpecificationWeight == 0 {
		c.SpecificationWeight = defaults.SpecificationWeight
	}
	if c.NameWeight == 0 {
		c.NameWeight = defaults.NameWeight
	}
	if c.Threshold == 0 {
		c.Threshold = defaults.Threshold
	}
}
