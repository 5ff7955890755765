package models

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelsUnmarshalMixed(t *testing.T) {
	data := []byte(`["bug", {"id": 7, "name": "Priority: 3", "color": "ff0000"}, {"id": 8}, null]`)

	var labels Labels
	require.NoError(t, json.Unmarshal(data, &labels))
	require.Len(t, labels, 3)

	assert.Equal(t, PlainLabel("bug"), labels[0])
	assert.Equal(t, NamedLabel{ID: 7, Name: "Priority: 3", Color: "ff0000"}, labels[1])
	assert.Equal(t, []string{"Priority: 3"}, labels.Names())
}

func TestLabelsUnmarshalNull(t *testing.T) {
	var issue Issue
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "labels": null, "body": null}`), &issue))
	assert.Nil(t, issue.Labels)
	assert.Equal(t, "", issue.Body)
}

func TestLabelsMarshalKeepsShape(t *testing.T) {
	labels := Labels{PlainLabel("bug"), NamedLabel{Name: "Time: <1 Hour"}}

	data, err := json.Marshal(labels)
	require.NoError(t, err)
	assert.JSONEq(t, `["bug", {"name": "Time: <1 Hour"}]`, string(data))
}

func TestIssuePriority(t *testing.T) {
	testCases := []struct {
		name     string
		labels   Labels
		expected int
	}{
		{name: "single priority label", labels: Named("Priority: 5"), expected: 5},
		{name: "first matching label wins", labels: Named("Time: 1h", "Priority: 2", "Priority: 4"), expected: 2},
		{name: "no priority label", labels: Named("Time: 1h"), expected: -1},
		{name: "plain string ignored", labels: Labels{PlainLabel("Priority: 9")}, expected: -1},
		{name: "no labels", labels: nil, expected: -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			issue := Issue{Labels: tc.labels}
			assert.Equal(t, tc.expected, issue.Priority())
		})
	}
}

func TestIssueLabelValue(t *testing.T) {
	issue := Issue{Labels: Named("priority: 1", "Priority: 3 (High)", "Price: 100 USD")}

	value, ok := issue.LabelValue("Priority")
	assert.True(t, ok)
	assert.Equal(t, "3 (High)", value)

	value, ok = issue.LabelValue("Price")
	assert.True(t, ok)
	assert.Equal(t, "100 USD", value)

	_, ok = issue.LabelValue("Time")
	assert.False(t, ok)
}

func TestIssueOwnerAndRepo(t *testing.T) {
	issue := Issue{RepositoryURL: "https://api.github.com/repos/ubiquity/work.ubq.fi"}

	owner, repo := issue.OwnerAndRepo()
	assert.Equal(t, "ubiquity", owner)
	assert.Equal(t, "work.ubq.fi", repo)
}

func TestIssueIsBot(t *testing.T) {
	assert.False(t, (&Issue{}).IsBot())
	assert.True(t, (&Issue{User: &User{Login: "renovate[bot]"}}).IsBot())
	assert.True(t, (&Issue{User: &User{Login: "ubiquity-os", Type: "Bot"}}).IsBot())
	assert.False(t, (&Issue{User: &User{Login: "octocat", Type: "User"}}).IsBot())
}

func TestAggregatedActivityTime(t *testing.T) {
	issueTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	notificationTime := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	plain := FromIssue(Issue{UpdatedAt: issueTime})
	assert.Equal(t, issueTime, plain.ActivityTime())

	withNotification := Aggregated{
		Issue:        Issue{UpdatedAt: issueTime},
		Notification: Notification{UpdatedAt: notificationTime},
	}
	assert.Equal(t, notificationTime, withNotification.ActivityTime())
}

func TestCountBacklinks(t *testing.T) {
	pr := &PullRequest{Number: 1}
	records := []Aggregated{
		{Issue: Issue{ID: 1}, PullRequest: pr},
		{Issue: Issue{ID: 2}},
		{Issue: Issue{ID: 1}, PullRequest: pr},
		{Issue: Issue{ID: 1}},
		{Issue: Issue{ID: 2}, PullRequest: pr, BacklinkCount: 9},
	}

	CountBacklinks(records)

	got := make([]int, 0, len(records))
	for _, record := range records {
		got = append(got, record.BacklinkCount)
	}
	assert.Equal(t, []int{2, 1, 2, 2, 1}, got)
}
