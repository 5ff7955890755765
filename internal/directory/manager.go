// Package directory keeps the current issue collection and answers the
// lookups, searches and sorted views the CLI presents.
package directory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/danielolaszy/issuedir/internal/logging"
	"github.com/danielolaszy/issuedir/internal/search"
	"github.com/danielolaszy/issuedir/internal/sorting"
	"github.com/danielolaszy/issuedir/pkg/models"
)

// IssueSource provides the issues that make up the directory.
type IssueSource interface {
	FetchIssues(ctx context.Context) ([]models.Issue, error)
}

// IssueSourceFunc adapts a function to IssueSource.
type IssueSourceFunc func(ctx context.Context) ([]models.Issue, error)

// FetchIssues calls f(ctx).
func (f IssueSourceFunc) FetchIssues(ctx context.Context) ([]models.Issue, error) {
	return f(ctx)
}

// ScoredIssue is an issue that matched a search together with its result.
type ScoredIssue struct {
	Issue  models.Issue
	Result search.Result
}

// Manager owns the issue collection and its search index. The collection
// is replaced wholesale, never edited in place.
type Manager struct {
	mu     sync.RWMutex
	issues []models.Issue
	byID   map[int64]int

	searcher *search.IssueSearch
}

// NewManager creates an empty directory whose index scores with config.
func NewManager(config search.Config) *Manager {
	m := &Manager{byID: map[int64]int{}}
	m.searcher = search.NewIssueSearch(m, config)
	return m
}

// Sync replaces the collection with the issues returned by source and
// rebuilds the search index.
func (m *Manager) Sync(ctx context.Context, source IssueSource) error {
	issues, err := source.FetchIssues(ctx)
	if err != nil {
		logging.Error("failed to sync directory", "error", err)
		return fmt.Errorf("failed to sync directory: %w", err)
	}

	m.SetIssues(issues)
	return nil
}

// SetIssues replaces the collection and rebuilds the search index.
func (m *Manager) SetIssues(issues []models.Issue) {
	next := slices.Clone(issues)
	byID := make(map[int64]int, len(next))
	for i, issue := range next {
		if _, seen := byID[issue.ID]; !seen {
			byID[issue.ID] = i
		}
	}

	m.mu.Lock()
	m.issues = next
	m.byID = byID
	m.mu.Unlock()

	m.searcher.Initialize(next)

	logging.Info("directory updated", "issues", len(next))
}

// Issues returns a copy of the current collection.
func (m *Manager) Issues() []models.Issue {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.issues)
}

// GetIssueByID returns a copy of the first issue with id.
func (m *Manager) GetIssueByID(id int64) (*models.Issue, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byID[id]
	if !ok {
		return nil, false
	}
	issue := m.issues[i]
	return &issue, true
}

// Searcher exposes the index backing the directory.
func (m *Manager) Searcher() *search.IssueSearch {
	return m.searcher
}

// FilterBySearch returns the issues scoring above zero for text, best
// first. Ties keep collection order.
func (m *Manager) FilterBySearch(text string) []ScoredIssue {
	results := m.searcher.Search(text)

	var matches []ScoredIssue
	for _, id := range m.searcher.IDs() {
		result, ok := results[id]
		if !ok || result.Score <= 0 {
			continue
		}
		issue, ok := m.GetIssueByID(id)
		if !ok {
			continue
		}
		matches = append(matches, ScoredIssue{Issue: *issue, Result: result})
	}

	slices.SortStableFunc(matches, func(a, b ScoredIssue) int {
		switch {
		case a.Result.Score > b.Result.Score:
			return -1
		case a.Result.Score < b.Result.Score:
			return 1
		default:
			return 0
		}
	})

	logging.Debug("filtered directory by search",
		"query", text,
		"matches", len(matches),
		"ndcg", m.searcher.LastNDCG())
	return matches
}

// SortedIssues runs the collection through the sort pipeline.
func (m *Manager) SortedIssues(key sorting.Key, options sorting.Options) []models.Aggregated {
	issues := m.Issues()
	records := make([]models.Aggregated, 0, len(issues))
	for _, issue := range issues {
		records = append(records, models.FromIssue(issue))
	}
	return sorting.Sort(records, key, options)
}
