package directory

import (
	"github.com/danielolaszy/issuedir/pkg/models"
)

const priceLabelPrefix = "Price: "

// ProposalFilter returns a predicate selecting proposals (issues without a
// price label) when proposalsOnly is set, and priced issues otherwise.
func ProposalFilter(proposalsOnly bool) func(models.Issue) bool {
	return func(issue models.Issue) bool {
		priced := issue.HasLabelPrefix(priceLabelPrefix)
		if proposalsOnly {
			return !priced
		}
		return priced
	}
}

// Filter keeps the issues matching keep, in order.
func Filter(issues []models.Issue, keep func(models.Issue) bool) []models.Issue {
	kept := make([]models.Issue, 0, len(issues))
	for _, issue := range issues {
		if keep(issue) {
			kept = append(kept, issue)
		}
	}
	return kept
}

// FilterByOrganization keeps issues whose repository owner is org.
// An empty org keeps everything.
func FilterByOrganization(issues []models.Issue, org string) []models.Issue {
	if org == "" {
		return issues
	}
	return Filter(issues, func(issue models.Issue) bool {
		owner, _ := issue.OwnerAndRepo()
		return owner == org
	})
}

// FilterBots drops records opened by bot accounts unless showBots is set.
func FilterBots(records []models.Aggregated, showBots bool) []models.Aggregated {
	if showBots {
		return records
	}
	kept := make([]models.Aggregated, 0, len(records))
	for _, record := range records {
		if !record.Issue.IsBot() {
			kept = append(kept, record)
		}
	}
	return kept
}

// Issues unwraps aggregated records.
func Issues(records []models.Aggregated) []models.Issue {
	issues := make([]models.Issue, 0, len(records))
	for _, record := range records {
		issues = append(issues, record.Issue)
	}
	return issues
}
