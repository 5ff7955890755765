// Package search ranks directory issues against free-text queries.
//
// Each query is scored per field (title, body, labels and number, repository,
// and optionally fuzzy token similarity) and the field scores are combined
// with fixed weights. A query starting with "?" enables fuzzy matching.
package search

// Config tunes the scoring functions.
type Config struct {
	// FuzzySearchThreshold is the minimum adjusted similarity a fuzzy candidate needs
	FuzzySearchThreshold float64 `mapstructure:"fuzzy_threshold"`

	// ExactMatchBonus is added per query term found in the title
	ExactMatchBonus float64 `mapstructure:"exact_match_bonus"`

	// FuzzyMatchWeight scales fuzzy matches
	FuzzyMatchWeight float64 `mapstructure:"fuzzy_match_weight"`
}

// DefaultConfig returns the tuning the directory ships with.
func DefaultConfig() Config {
	return Config{
		FuzzySearchThreshold: 0.7,
		ExactMatchBonus:      1.0,
		FuzzyMatchWeight:     0.7,
	}
}

// Weights are the per-field multipliers applied to the field scores.
type Weights struct {
	Title float64
	Body  float64
	Fuzzy float64
	Meta  float64
	Repo  float64
}

// DefaultWeights favour the title. Fuzzy only contributes when requested.
var DefaultWeights = Weights{
	Title: 0.375,
	Body:  0.25,
	Fuzzy: 0.25,
	Meta:  0.125,
	Repo:  0.1,
}

// FuzzyMatch records the best content token found for a query term.
type FuzzyMatch struct {
	Original string  `json:"original"`
	Matched  string  `json:"matched"`
	Score    float64 `json:"score"`
}

// MatchDetails collects the evidence gathered while scoring one issue.
type MatchDetails struct {
	TitleMatches []string     `json:"titleMatches"`
	BodyMatches  []string     `json:"bodyMatches"`
	LabelMatches []string     `json:"labelMatches"`
	NumberMatch  bool         `json:"numberMatch"`
	RepoMatch    bool         `json:"repoMatch"`
	FuzzyMatches []FuzzyMatch `json:"fuzzyMatches"`
}

// Result is the outcome of a query for a single issue.
type Result struct {
	Visible      bool         `json:"visible"`
	Score        float64      `json:"score"`
	MatchDetails MatchDetails `json:"matchDetails"`
}

func emptyResult(visible bool) Result {
	score := 0.0
	if visible {
		score = 1
	}
	return Result{
		Visible: visible,
		Score:   score,
		MatchDetails: MatchDetails{
			TitleMatches: []string{},
			BodyMatches:  []string{},
			LabelMatches: []string{},
			FuzzyMatches: []FuzzyMatch{},
		},
	}
}
