// Package render prints directory listings as ASCII tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"github.com/danielolaszy/issuedir/internal/directory"
	"github.com/danielolaszy/issuedir/internal/search"
	"github.com/danielolaszy/issuedir/pkg/models"
)

const maxTitleWidth = 60

// Table writes headers and rows to w.
func Table(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to build table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// IssueTable lists directory issues with their priority and price.
func IssueTable(w io.Writer, issues []models.Issue) error {
	data := make([][]string, 0, len(issues))
	for _, issue := range issues {
		price, _ := issue.LabelValue("Price")
		data = append(data, []string{
			strconv.Itoa(issue.Number),
			repositoryName(&issue),
			truncate(issue.Title),
			priority(&issue),
			price,
			formatTime(issue.UpdatedAt),
		})
	}
	return Table(w, []string{"#", "Repository", "Title", "Priority", "Price", "Updated"}, data)
}

// SearchTable lists search matches best first with the fields they matched.
func SearchTable(w io.Writer, matches []directory.ScoredIssue) error {
	data := make([][]string, 0, len(matches))
	for _, match := range matches {
		issue := match.Issue
		data = append(data, []string{
			strconv.FormatFloat(match.Result.Score, 'f', 3, 64),
			strconv.Itoa(issue.Number),
			repositoryName(&issue),
			truncate(issue.Title),
			matchedFields(match.Result.MatchDetails),
		})
	}
	return Table(w, []string{"Score", "#", "Repository", "Title", "Matched"}, data)
}

// NotificationTable lists aggregated notifications.
func NotificationTable(w io.Writer, records []models.Aggregated) error {
	data := make([][]string, 0, len(records))
	for _, record := range records {
		issue := record.Issue
		pullRequest := ""
		if record.PullRequest != nil {
			pullRequest = "#" + strconv.Itoa(record.PullRequest.Number)
		}
		data = append(data, []string{
			record.Notification.Reason,
			record.Notification.Repository.FullName,
			"#" + strconv.Itoa(issue.Number) + " " + truncate(issue.Title),
			pullRequest,
			strconv.Itoa(record.BacklinkCount),
			priority(&issue),
			formatTime(record.ActivityTime()),
		})
	}
	return Table(w, []string{"Reason", "Repository", "Issue", "Pull Request", "Backlinks", "Priority", "Updated"}, data)
}

func repositoryName(issue *models.Issue) string {
	owner, repo := issue.OwnerAndRepo()
	if owner == "" {
		return repo
	}
	return owner + "/" + repo
}

func priority(issue *models.Issue) string {
	if p := issue.Priority(); p >= 0 {
		return strconv.Itoa(p)
	}
	return ""
}

func matchedFields(details search.MatchDetails) string {
	var fields []string
	if len(details.TitleMatches) > 0 {
		fields = append(fields, "title")
	}
	if len(details.BodyMatches) > 0 {
		fields = append(fields, "body")
	}
	if len(details.LabelMatches) > 0 {
		fields = append(fields, "labels")
	}
	if details.NumberMatch {
		fields = append(fields, "number")
	}
	if details.RepoMatch {
		fields = append(fields, "repo")
	}
	for _, fuzzy := range details.FuzzyMatches {
		fields = append(fields, fuzzy.Original+"~"+fuzzy.Matched)
	}
	return strings.Join(fields, ", ")
}

// truncate shortens title to maxTitleWidth terminal columns.
func truncate(title string) string {
	return runewidth.Truncate(title, maxTitleWidth, "...")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
