package directory

import (
	"testing"

	"github.com/danielolaszy/issuedir/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestProposalFilter(t *testing.T) {
	issues := []models.Issue{
		{ID: 1, Labels: models.Named("Price: 100 USD", "Priority: 1")},
		{ID: 2, Labels: models.Named("Priority: 2")},
		{ID: 3, Labels: models.Labels{models.PlainLabel("Price: 5 USD")}},
		{ID: 4},
	}

	testCases := []struct {
		name          string
		proposalsOnly bool
		want          []int64
	}{
		{name: "directory keeps priced issues", proposalsOnly: false, want: []int64{1}},
		{name: "proposals keep unpriced issues", proposalsOnly: true, want: []int64{2, 3, 4}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Filter(issues, ProposalFilter(tc.proposalsOnly)), issueID))
		})
	}
}

func TestFilterByOrganization(t *testing.T) {
	issues := []models.Issue{
		{ID: 1, RepositoryURL: "https://api.github.com/repos/ubiquity/work.ubq.fi"},
		{ID: 2, RepositoryURL: "https://api.github.com/repos/ubiquity-os/plugins"},
		{ID: 3, RepositoryURL: "https://api.github.com/repos/ubiquity/pay.ubq.fi"},
	}

	assert.Equal(t, []int64{1, 3}, ids(FilterByOrganization(issues, "ubiquity"), issueID))
	assert.Equal(t, []int64{1, 2, 3}, ids(FilterByOrganization(issues, ""), issueID))
	assert.Empty(t, FilterByOrganization(issues, "acme"))
}

func TestFilterBots(t *testing.T) {
	records := []models.Aggregated{
		{Issue: models.Issue{ID: 1, User: &models.User{Login: "octocat", Type: "User"}}},
		{Issue: models.Issue{ID: 2, User: &models.User{Login: "renovate[bot]"}}},
		{Issue: models.Issue{ID: 3}},
		{Issue: models.Issue{ID: 4, User: &models.User{Login: "ubiquity-os", Type: "Bot"}}},
	}

	assert.Equal(t, []int64{1, 3}, ids(FilterBots(records, false), recordID))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(FilterBots(records, true), recordID))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(Issues(records), issueID))
}
