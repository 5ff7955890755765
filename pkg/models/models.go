// Package models defines the records shared across the application.
package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// User is the author of an issue or pull request.
type User struct {
	// Login is the GitHub handle (e.g., "octocat" or "renovate[bot]")
	Login string `json:"login"`

	// Type is "User", "Bot" or "Organization"
	Type string `json:"type"`
}

// Issue represents a GitHub issue as consumed by the directory.
type Issue struct {
	// ID is the globally unique GitHub issue id, used as the index key
	ID int64 `json:"id"`

	// Number is the issue number inside its repository (e.g., 42)
	Number int `json:"number"`

	// Title is the issue's title or summary
	Title string `json:"title"`

	// Body is the markdown body, empty when GitHub returned null
	Body string `json:"body"`

	// Labels holds the issue labels in GitHub order
	Labels Labels `json:"labels"`

	// RepositoryURL is the API URL of the repository, ending in /<owner>/<repo>
	RepositoryURL string `json:"repository_url"`

	// HTMLURL is the browser URL of the issue
	HTMLURL string `json:"html_url"`

	// State is "open" or "closed"
	State string `json:"state"`

	// User is the issue author
	User *User `json:"user,omitempty"`

	// UpdatedAt is the timestamp of the last update
	UpdatedAt time.Time `json:"updated_at"`
}

var priorityPattern = regexp.MustCompile(`Priority: (\d+)`)

// LabelValue returns the value of the first label named "<category>: <value>".
// The category prefix is matched case-sensitively.
func (i *Issue) LabelValue(category string) (string, bool) {
	pattern := regexp.MustCompile(`^(` + regexp.QuoteMeta(category) + `): `)
	for _, name := range i.Labels.Names() {
		if loc := pattern.FindStringIndex(name); loc != nil {
			return name[loc[1]:], true
		}
	}
	return "", false
}

// HasLabelPrefix reports whether any named label starts with prefix.
func (i *Issue) HasLabelPrefix(prefix string) bool {
	for _, name := range i.Labels.Names() {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Priority extracts the number of the first label matching "Priority: N".
// It returns -1 when no such label exists.
func (i *Issue) Priority() int {
	for _, name := range i.Labels.Names() {
		match := priorityPattern.FindStringSubmatch(name)
		if match == nil {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		return n
	}
	return -1
}

// OwnerAndRepo splits RepositoryURL into its last two path segments.
func (i *Issue) OwnerAndRepo() (string, string) {
	parts := strings.Split(i.RepositoryURL, "/")
	repo := parts[len(parts)-1]
	owner := ""
	if len(parts) > 1 {
		owner = parts[len(parts)-2]
	}
	return owner, repo
}

// IsBot reports whether the issue was opened by a bot account.
func (i *Issue) IsBot() bool {
	if i.User == nil {
		return false
	}
	return i.User.Type == "Bot" || strings.HasSuffix(i.User.Login, "[bot]")
}

// PullRequest represents the subset of a GitHub pull request the directory needs.
type PullRequest struct {
	ID       int64  `json:"id"`
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	State    string `json:"state"`
	Draft    bool   `json:"draft"`
	HTMLURL  string `json:"html_url"`
	IssueURL string `json:"issue_url"`
}

// Subject is the thread a notification refers to.
type Subject struct {
	Title            string `json:"title"`
	URL              string `json:"url"`
	LatestCommentURL string `json:"latest_comment_url"`

	// Type is "Issue" or "PullRequest"
	Type string `json:"type"`
}

// Repository identifies the repository a notification belongs to.
type Repository struct {
	FullName string `json:"full_name"`
	URL      string `json:"url"`
}

// Notification represents a GitHub notification thread.
type Notification struct {
	ID         string     `json:"id"`
	Reason     string     `json:"reason"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Subject    Subject    `json:"subject"`
	Repository Repository `json:"repository"`
}

// Aggregated joins a notification with the issue and pull request it concerns.
type Aggregated struct {
	Issue        Issue        `json:"issue"`
	PullRequest  *PullRequest `json:"pullRequest"`
	Notification Notification `json:"notification"`

	// BacklinkCount is derived on every aggregation pass, never authoritative
	BacklinkCount int `json:"backlinkCount"`
}

// FromIssue wraps a directory issue so it can go through the sort pipeline.
func FromIssue(issue Issue) Aggregated {
	return Aggregated{Issue: issue}
}

// ActivityTime is the notification update time, or the issue update time
// for records that carry no notification.
func (a *Aggregated) ActivityTime() time.Time {
	if !a.Notification.UpdatedAt.IsZero() {
		return a.Notification.UpdatedAt
	}
	return a.Issue.UpdatedAt
}

// CountBacklinks sets every record's BacklinkCount to the number of pull
// request records that resolve the same issue.
func CountBacklinks(records []Aggregated) {
	counts := make(map[int64]int)
	for _, record := range records {
		if record.PullRequest != nil {
			counts[record.Issue.ID]++
		}
	}
	for i := range records {
		records[i].BacklinkCount = counts[records[i].Issue.ID]
	}
}
