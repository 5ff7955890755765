package cmd

import (
	"fmt"

	"github.com/danielolaszy/issuedir/internal/directory"
	"github.com/danielolaszy/issuedir/internal/render"
	"github.com/danielolaszy/issuedir/internal/snapshot"
	"github.com/danielolaszy/issuedir/internal/sorting"
	"github.com/spf13/cobra"
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List directory issues",
	Long: fmt.Sprintf(`List the open issues of the configured repositories.

By default priced issues are shown, ordered by priority, then backlinks, then
activity, then notification reason. --proposals shows unpriced issues instead.
Supported sort keys: %v`, sorting.Keys()),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, options, err := sortFlags(cmd)
		if err != nil {
			return err
		}
		org, err := cmd.Flags().GetString("org")
		if err != nil {
			return err
		}
		proposals, err := cmd.Flags().GetBool("proposals")
		if err != nil {
			return err
		}
		save, err := cmd.Flags().GetString("save")
		if err != nil {
			return err
		}

		manager, err := loadDirectory(cmd)
		if err != nil {
			return err
		}

		if save != "" {
			if err := snapshot.Save(save, manager.Issues()); err != nil {
				return err
			}
		}

		issues := directory.Issues(manager.SortedIssues(key, options))
		issues = directory.Filter(issues, directory.ProposalFilter(proposals))
		issues = directory.FilterByOrganization(issues, org)

		return render.IssueTable(cmd.OutOrStdout(), issues)
	},
}

// sortFlags reads and validates --sort and --reverse.
func sortFlags(cmd *cobra.Command) (sorting.Key, sorting.Options, error) {
	options := sorting.DefaultOptions()

	sortBy, err := cmd.Flags().GetString("sort")
	if err != nil {
		return sorting.KeyNone, options, err
	}
	key, err := sorting.ParseKey(sortBy)
	if err != nil {
		return sorting.KeyNone, options, err
	}

	reverse, err := cmd.Flags().GetBool("reverse")
	if err != nil {
		return sorting.KeyNone, options, err
	}
	if reverse {
		options.Ordering = sorting.OrderingReverse
	}
	return key, options, nil
}

func init() {
	issuesCmd.Flags().StringP("sort", "s", "", "Sort key (default: combined ordering)")
	issuesCmd.Flags().BoolP("reverse", "R", false, "Reverse the final order")
	issuesCmd.Flags().StringP("org", "o", "", "Only show issues of this organization")
	issuesCmd.Flags().BoolP("proposals", "p", false, "Show proposals (issues without a price) instead")
	issuesCmd.Flags().String("save", "", "Also write the fetched issues to this snapshot file")
}
