package search

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/danielolaszy/issuedir/internal/logging"
	"github.com/danielolaszy/issuedir/pkg/models"
)

var urlPattern = regexp.MustCompile(`(?:https?://|http?://|www\.)[^\s]+`)

// IssueLookup resolves an indexed id back to the full issue.
type IssueLookup interface {
	GetIssueByID(id int64) (*models.Issue, bool)
}

// snapshot is the immutable searchable index built by Initialize.
type snapshot struct {
	ids     []int64
	content map[int64]string
}

// IssueSearch owns the searchable index and answers queries against it.
//
// The index is rebuilt wholesale by Initialize and swapped atomically, so a
// Search running concurrently with Initialize sees either the old or the new
// index, never a mix.
type IssueSearch struct {
	lookup  IssueLookup
	scorer  *Scorer
	weights Weights

	index    atomic.Pointer[snapshot]
	lastNDCG atomic.Uint64
}

// NewIssueSearch creates an empty index that resolves issues through lookup.
func NewIssueSearch(lookup IssueLookup, config Config) *IssueSearch {
	s := &IssueSearch{
		lookup:  lookup,
		scorer:  NewScorer(config),
		weights: DefaultWeights,
	}
	s.index.Store(&snapshot{content: map[int64]string{}})
	return s
}

// Initialize replaces the index with the searchable content of issues.
func (s *IssueSearch) Initialize(issues []models.Issue) {
	next := &snapshot{
		ids:     make([]int64, 0, len(issues)),
		content: make(map[int64]string, len(issues)),
	}
	for i := range issues {
		issue := &issues[i]
		if _, seen := next.content[issue.ID]; !seen {
			next.ids = append(next.ids, issue.ID)
		}
		next.content[issue.ID] = searchableContent(issue)
	}
	s.index.Store(next)

	logging.Debug("search index rebuilt", "issues", len(next.ids))
}

// IDs returns the indexed ids in the order they were first seen.
func (s *IssueSearch) IDs() []int64 {
	ids := s.index.Load().ids
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}

// Search scores every indexed issue against query. A leading "?" enables
// fuzzy matching; an empty query makes every issue visible with score 1.
func (s *IssueSearch) Search(query string) map[int64]Result {
	index := s.index.Load()
	results := make(map[int64]Result, len(index.ids))

	text := strings.TrimSpace(strings.ToLower(query))
	fuzzy := strings.HasPrefix(text, "?")
	if fuzzy {
		text = strings.TrimSpace(text[1:])
	}

	if text == "" {
		for _, id := range index.ids {
			results[id] = emptyResult(true)
		}
		return results
	}

	terms := strings.Fields(text)

	for _, id := range index.ids {
		issue, ok := s.lookup.GetIssueByID(id)
		if !ok || issue == nil {
			results[id] = emptyResult(false)
			continue
		}
		results[id] = s.relevance(issue, index.content[id], terms, fuzzy)
	}

	ndcg := NDCG(results)
	s.lastNDCG.Store(math.Float64bits(ndcg))

	logging.Debug("search completed",
		"terms", len(terms),
		"fuzzy", fuzzy,
		"indexed", len(index.ids),
		"ndcg", ndcg)

	return results
}

// LastNDCG returns the ranking quality of the most recent non-empty query.
func (s *IssueSearch) LastNDCG() float64 {
	return math.Float64frombits(s.lastNDCG.Load())
}

func (s *IssueSearch) relevance(issue *models.Issue, content string, terms []string, fuzzy bool) Result {
	details := MatchDetails{
		TitleMatches: []string{},
		BodyMatches:  []string{},
		LabelMatches: []string{},
		FuzzyMatches: []FuzzyMatch{},
	}

	if content == "" {
		content = searchableContent(issue)
	}

	total := s.weights.Title * s.scorer.TitleScore(issue, terms, &details)
	total += s.weights.Body * s.scorer.BodyScore(issue, terms, &details)
	if fuzzy {
		total += s.weights.Fuzzy * s.scorer.FuzzyScore(content, terms, &details)
	}
	total += s.weights.Meta * s.scorer.MetaScore(issue, terms, &details)
	total += s.weights.Repo * s.scorer.RepoScore(issue, terms, &details)

	visible := total > 0 || details.NumberMatch
	if !visible {
		total = 0
	}

	return Result{
		Visible:      visible,
		Score:        total,
		MatchDetails: details,
	}
}

// NDCG computes the normalized discounted cumulative gain of the visible
// scores in results. It returns 0 when nothing is visible.
func NDCG(results map[int64]Result) float64 {
	scores := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Visible {
			scores = append(scores, r.Score)
		}
	}
	if len(scores) == 0 {
		return 0
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	dcg := discountedGain(scores)

	ideal := make([]float64, len(scores))
	copy(ideal, scores)
	sort.Sort(sort.Reverse(sort.Float64Slice(ideal)))
	idcg := discountedGain(ideal)

	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

func discountedGain(scores []float64) float64 {
	sum := 0.0
	for i, score := range scores {
		sum += (math.Pow(2, score) - 1) / math.Log2(float64(i+2))
	}
	return sum
}

// searchableContent is the lower-cased title, URL-free body and label names.
func searchableContent(issue *models.Issue) string {
	labels := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		name := ""
		if named, ok := label.(models.NamedLabel); ok {
			name = named.Name
		}
		labels = append(labels, name)
	}

	body := urlPattern.ReplaceAllString(issue.Body, "")
	return strings.ToLower(issue.Title + " " + body + " " + strings.Join(labels, " "))
}
