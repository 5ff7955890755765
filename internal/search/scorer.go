package search

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/danielolaszy/issuedir/pkg/models"
)

const (
	maxTitleScore = 3.0
	maxBodyScore  = 2.0
	maxFuzzyScore = 2.0

	phraseBonus    = 1.0
	codeBlockBonus = 0.5
	numberBonus    = 2.0
	labelPrefix    = 0.8
	labelContains  = 0.5
)

var (
	codeBlockPattern   = regexp.MustCompile("(?s)```.*?```")
	numericTermPattern = regexp.MustCompile(`^\d+$`)
	punctuationPattern = regexp.MustCompile(`[^\w\s]`)
)

// Scorer computes per-field relevance. Every method appends the evidence it
// finds to the supplied MatchDetails and returns a non-negative score.
type Scorer struct {
	config Config
}

// NewScorer creates a Scorer with the given tuning.
func NewScorer(config Config) *Scorer {
	return &Scorer{config: config}
}

// wordStartBoost rewards short terms matching the start of a longer word.
func wordStartBoost(term, word string) float64 {
	return math.Exp(-float64(utf8.RuneCountInString(term)) / float64(utf8.RuneCountInString(word)))
}

// TitleScore scores exact term hits in the title, capped at 3.
func (s *Scorer) TitleScore(issue *models.Issue, terms []string, details *MatchDetails) float64 {
	score := 0.0
	title := strings.ToLower(issue.Title)
	words := strings.Fields(title)

	for _, term := range terms {
		if !strings.Contains(title, term) {
			continue
		}
		details.TitleMatches = append(details.TitleMatches, term)
		score += s.config.ExactMatchBonus

		for _, word := range words {
			if strings.HasPrefix(word, term) {
				score += wordStartBoost(term, word)
			}
		}
	}

	if len(terms) > 1 && strings.Contains(title, strings.Join(terms, " ")) {
		score += phraseBonus
	}

	return math.Min(score, maxTitleScore)
}

// BodyScore scores word-start hits and fenced code block hits in the body, capped at 2.
func (s *Scorer) BodyScore(issue *models.Issue, terms []string, details *MatchDetails) float64 {
	score := 0.0
	body := strings.ToLower(issue.Body)
	words := strings.Fields(body)
	blocks := codeBlockPattern.FindAllString(body, -1)

	for _, term := range terms {
		termScore := 0.0
		for _, word := range words {
			if strings.HasPrefix(word, term) {
				termScore += wordStartBoost(term, word)
			}
		}

		if termScore > 0 {
			details.BodyMatches = append(details.BodyMatches, term)
			score += math.Min(termScore, 1)
		}

		for _, block := range blocks {
			if strings.Contains(block, term) {
				score += codeBlockBonus
			}
		}
	}

	return math.Min(score, maxBodyScore)
}

// MetaScore scores an exact issue number hit and label hits. It is not capped.
// Only the first purely numeric term is compared against the issue number.
func (s *Scorer) MetaScore(issue *models.Issue, terms []string, details *MatchDetails) float64 {
	score := 0.0

	for _, term := range terms {
		if !numericTermPattern.MatchString(term) {
			continue
		}
		if strconv.Itoa(issue.Number) == term {
			details.NumberMatch = true
			score += numberBonus
		}
		break
	}

	names := issue.Labels.Names()
	for _, term := range terms {
		for _, name := range names {
			labelName := strings.ToLower(name)
			if !strings.Contains(labelName, term) {
				continue
			}
			details.LabelMatches = append(details.LabelMatches, name)
			if strings.HasPrefix(labelName, term) {
				score += labelPrefix
			} else {
				score += labelContains
			}
		}
	}

	return score
}

// RepoScore scores prefix hits on the repository and owner names. It is not capped.
func (s *Scorer) RepoScore(issue *models.Issue, terms []string, details *MatchDetails) float64 {
	if issue.RepositoryURL == "" {
		return 0
	}

	score := 0.0
	owner, repo := issue.OwnerAndRepo()
	owner = strings.ToLower(owner)
	repo = strings.ToLower(repo)

	for _, term := range terms {
		term = strings.ToLower(term)
		termLen := float64(utf8.RuneCountInString(term))
		if strings.HasPrefix(repo, term) {
			details.RepoMatch = true
			score += termLen / float64(utf8.RuneCountInString(repo))
		}
		if strings.HasPrefix(owner, term) {
			score += termLen / float64(utf8.RuneCountInString(owner))
		}
	}

	return score
}

// FuzzyScore finds, per term, the content token with the best adjusted
// similarity above the threshold, capped at 2.
func (s *Scorer) FuzzyScore(content string, terms []string, details *MatchDetails) float64 {
	score := 0.0
	tokens := tokenizeContent(content)

	for _, term := range terms {
		var (
			bestWord    string
			bestScore   float64
			isWordStart bool
		)

		for _, token := range tokens {
			startsWith := strings.HasPrefix(token, term)
			adjusted := Similarity(term, token)
			if startsWith {
				adjusted += wordStartBoost(term, token)
			}

			if adjusted > s.config.FuzzySearchThreshold && adjusted > bestScore {
				bestWord = token
				bestScore = adjusted
				isWordStart = startsWith
			}
		}

		if bestScore <= 0 {
			continue
		}

		details.FuzzyMatches = append(details.FuzzyMatches, FuzzyMatch{
			Original: term,
			Matched:  bestWord,
			Score:    bestScore,
		})

		if isWordStart {
			score += bestScore * math.Exp(s.config.FuzzyMatchWeight)
		} else {
			score += bestScore * s.config.FuzzyMatchWeight
		}
	}

	return math.Min(score, maxFuzzyScore)
}

// tokenizeContent lower-cases content, blanks out punctuation and keeps
// words longer than two characters.
func tokenizeContent(content string) []string {
	cleaned := punctuationPattern.ReplaceAllString(strings.ToLower(content), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) > 2 {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
