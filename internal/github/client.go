// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/danielolaszy/issuedir/internal/config"
	"github.com/danielolaszy/issuedir/internal/logging"
	"github.com/danielolaszy/issuedir/pkg/models"
	"github.com/google/go-github/v41/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentRequests bounds the number of in-flight API calls per fetch.
const maxConcurrentRequests = 8

var (
	// subjectPattern extracts owner, repo and number from a notification subject URL.
	subjectPattern = regexp.MustCompile(`/repos/([^/]+)/([^/]+)/(?:pulls|issues)/(\d+)$`)

	resolvesURLPattern    = regexp.MustCompile(`Resolves .*/issues/(\d+)`)
	resolvesNumberPattern = regexp.MustCompile(`Resolves #(\d+)`)
)

// Client encapsulates the GitHub API client.
type Client struct {
	client        *github.Client
	organizations []string
}

// NewClient creates a new GitHub API client from the loaded configuration.
// It authenticates every request with the configured token and targets the
// GitHub Enterprise API when a custom domain is set.
func NewClient(config *config.Config) (*Client, error) {
	token := config.GitHub.Token
	if token == "" {
		return nil, fmt.Errorf("github token not found in configuration")
	}

	apiURL := config.GitHub.APIURL()

	logging.Info("github configuration",
		"domain", config.GitHub.Domain,
		"api_url", apiURL,
		"token", logging.MaskSensitive(token))

	// Create the oauth2 client
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return newClient(tc, apiURL, config.Directory.Organizations)
}

// newClient builds a Client against an arbitrary API root.
func newClient(httpClient *http.Client, apiURL string, organizations []string) (*Client, error) {
	client := github.NewClient(httpClient)

	if apiURL != "https://api.github.com/" {
		parsedURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github api url: %w", err)
		}
		if !strings.HasSuffix(parsedURL.Path, "/") {
			parsedURL.Path += "/"
		}

		client.BaseURL = parsedURL
		client.UploadURL = parsedURL
	}

	return &Client{client: client, organizations: organizations}, nil
}

// Authenticate checks the token by fetching the authenticated user.
func (c *Client) Authenticate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user, resp, err := c.client.Users.Get(ctx, "")
	if err != nil {
		logging.Error("failed to test github token",
			"error", err,
			"status_code", statusCode(resp))
		return fmt.Errorf("error testing github token: %w", err)
	}

	logging.Info("github authentication successful",
		"username", user.GetLogin())
	return nil
}

// ParseRepository splits an "owner/repo" string.
func ParseRepository(repository string) (string, string, error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format: %s, expected format: owner/repo", repository)
	}
	return parts[0], parts[1], nil
}

// FetchIssues retrieves the open issues of every repository concurrently.
// Pull requests returned by the issues endpoint are skipped. A repository
// that fails is logged and left out; an error is returned only when every
// repository failed.
func (c *Client) FetchIssues(ctx context.Context, repositories []string) ([]models.Issue, error) {
	results := make([][]models.Issue, len(repositories))
	failures := make([]error, len(repositories))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRequests)

	for i, repository := range repositories {
		g.Go(func() error {
			issues, err := c.fetchRepositoryIssues(ctx, repository)
			if err != nil {
				logging.Error("failed to fetch github issues", "repository", repository, "error", err)
				failures[i] = err
				return nil
			}
			results[i] = issues
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.Issue
	for _, issues := range results {
		all = append(all, issues...)
	}

	if len(repositories) > 0 && len(all) == 0 {
		if err := errors.Join(failures...); err != nil {
			return nil, fmt.Errorf("failed to fetch GitHub issues: %w", err)
		}
	}

	logging.Debug("fetched github issues",
		"repositories", len(repositories),
		"issues", len(all))
	return all, nil
}

func (c *Client) fetchRepositoryIssues(ctx context.Context, repository string) ([]models.Issue, error) {
	owner, repo, err := ParseRepository(repository)
	if err != nil {
		return nil, err
	}

	opts := &github.IssueListByRepoOptions{
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	var result []models.Issue
	for {
		issues, resp, err := c.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues of %s: %w", repository, err)
		}

		for _, issue := range issues {
			// Skip pull requests (they're also returned by the Issues API)
			if issue.PullRequestLinks != nil {
				continue
			}
			result = append(result, convertIssue(issue))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

// FetchNotifications lists the user's notifications and joins each one with
// the issue it concerns. Pull request notifications are resolved through the
// "Resolves" reference in the pull request body; draft and closed pull
// requests are skipped. Notifications that cannot be resolved are dropped.
func (c *Client) FetchNotifications(ctx context.Context) ([]models.Aggregated, error) {
	notifications, err := c.listNotifications(ctx)
	if err != nil {
		logging.Error("failed to fetch github notifications", "error", err)
		return nil, fmt.Errorf("failed to fetch GitHub notifications: %w", err)
	}

	notifications = c.preFilter(notifications)
	resolved := make([]*models.Aggregated, len(notifications))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRequests)

	for i, notification := range notifications {
		g.Go(func() error {
			record, err := c.resolve(ctx, notification)
			if err != nil {
				logging.Warn("skipping notification",
					"id", notification.ID,
					"subject", notification.Subject.URL,
					"error", err)
				return nil
			}
			resolved[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch GitHub notifications: %w", err)
	}

	var aggregated []models.Aggregated
	for _, record := range resolved {
		if record != nil {
			aggregated = append(aggregated, *record)
		}
	}
	models.CountBacklinks(aggregated)

	logging.Debug("aggregated github notifications",
		"notifications", len(notifications),
		"aggregated", len(aggregated))
	return aggregated, nil
}

func (c *Client) listNotifications(ctx context.Context) ([]models.Notification, error) {
	opts := &github.NotificationListOptions{
		ListOptions: github.ListOptions{
			PerPage: 50,
		},
	}

	var result []models.Notification
	for {
		notifications, resp, err := c.client.Activity.ListNotifications(ctx, opts)
		if err != nil {
			return nil, err
		}

		for _, notification := range notifications {
			result = append(result, convertNotification(notification))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

// preFilter drops CI activity and notifications outside the allowed organizations.
func (c *Client) preFilter(notifications []models.Notification) []models.Notification {
	kept := make([]models.Notification, 0, len(notifications))
	for _, notification := range notifications {
		if notification.Reason == "ci_activity" {
			continue
		}
		owner, _, _ := strings.Cut(notification.Repository.FullName, "/")
		if !slices.Contains(c.organizations, owner) {
			continue
		}
		kept = append(kept, notification)
	}
	return kept
}

// resolve returns nil without error for notifications that are intentionally skipped.
func (c *Client) resolve(ctx context.Context, notification models.Notification) (*models.Aggregated, error) {
	owner, repo, number, err := parseSubjectURL(notification.Subject.URL)
	if err != nil {
		return nil, err
	}

	switch notification.Subject.Type {
	case "PullRequest":
		pr, _, err := c.client.PullRequests.Get(ctx, owner, repo, number)
		if err != nil {
			return nil, fmt.Errorf("failed to get pull request %s/%s#%d: %w", owner, repo, number, err)
		}
		if pr.GetDraft() || pr.GetState() == "closed" {
			return nil, nil
		}

		issueNumber, ok := parseResolvedIssue(pr.GetBody())
		if !ok {
			return nil, nil
		}

		issue, _, err := c.client.Issues.Get(ctx, owner, repo, issueNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to get issue %s/%s#%d: %w", owner, repo, issueNumber, err)
		}

		pullRequest := convertPullRequest(pr)
		return &models.Aggregated{
			Issue:        convertIssue(issue),
			PullRequest:  &pullRequest,
			Notification: notification,
		}, nil

	case "Issue":
		issue, _, err := c.client.Issues.Get(ctx, owner, repo, number)
		if err != nil {
			return nil, fmt.Errorf("failed to get issue %s/%s#%d: %w", owner, repo, number, err)
		}
		return &models.Aggregated{
			Issue:        convertIssue(issue),
			Notification: notification,
		}, nil

	default:
		return nil, nil
	}
}

func parseSubjectURL(subjectURL string) (string, string, int, error) {
	match := subjectPattern.FindStringSubmatch(subjectURL)
	if match == nil {
		return "", "", 0, fmt.Errorf("unsupported subject url %q", subjectURL)
	}
	number, err := strconv.Atoi(match[3])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid number in subject url %q: %w", subjectURL, err)
	}
	return match[1], match[2], number, nil
}

// parseResolvedIssue finds the issue a pull request body claims to resolve.
// A full issue URL reference wins over a "#N" shorthand.
func parseResolvedIssue(body string) (int, bool) {
	match := resolvesURLPattern.FindStringSubmatch(body)
	if match == nil {
		match = resolvesNumberPattern.FindStringSubmatch(body)
	}
	if match == nil {
		return 0, false
	}
	number, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return number, true
}

func convertIssue(issue *github.Issue) models.Issue {
	labels := make(models.Labels, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		labels = append(labels, models.NamedLabel{
			ID:          label.GetID(),
			Name:        label.GetName(),
			Description: label.GetDescription(),
			Color:       label.GetColor(),
			Default:     label.GetDefault(),
		})
	}

	result := models.Issue{
		ID:            issue.GetID(),
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		Body:          issue.GetBody(),
		Labels:        labels,
		RepositoryURL: issue.GetRepositoryURL(),
		HTMLURL:       issue.GetHTMLURL(),
		State:         issue.GetState(),
		UpdatedAt:     issue.GetUpdatedAt(),
	}
	if issue.User != nil {
		result.User = &models.User{
			Login: issue.User.GetLogin(),
			Type:  issue.User.GetType(),
		}
	}
	return result
}

func convertPullRequest(pr *github.PullRequest) models.PullRequest {
	return models.PullRequest{
		ID:       pr.GetID(),
		Number:   pr.GetNumber(),
		Title:    pr.GetTitle(),
		Body:     pr.GetBody(),
		State:    pr.GetState(),
		Draft:    pr.GetDraft(),
		HTMLURL:  pr.GetHTMLURL(),
		IssueURL: pr.GetIssueURL(),
	}
}

func convertNotification(notification *github.Notification) models.Notification {
	return models.Notification{
		ID:        notification.GetID(),
		Reason:    notification.GetReason(),
		UpdatedAt: notification.GetUpdatedAt(),
		Subject: models.Subject{
			Title:            notification.GetSubject().GetTitle(),
			URL:              notification.GetSubject().GetURL(),
			LatestCommentURL: notification.GetSubject().GetLatestCommentURL(),
			Type:             notification.GetSubject().GetType(),
		},
		Repository: models.Repository{
			FullName: notification.GetRepository().GetFullName(),
			URL:      notification.GetRepository().GetURL(),
		},
	}
}

func statusCode(resp *github.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
