package cmd

import (
	"strings"

	"github.com/danielolaszy/issuedir/internal/logging"
	"github.com/danielolaszy/issuedir/internal/render"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Rank directory issues against a query",
	Long: `Rank the open issues of the directory against a free-text query.

Terms are matched against titles, bodies, labels, issue numbers and repository
names. Start the query with '?' to also match misspelled words, e.g.
'issuedir search "?rendring bug"'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}

		manager, err := loadDirectory(cmd)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		matches := manager.FilterBySearch(query)
		if limit > 0 && len(matches) > limit {
			matches = matches[:limit]
		}

		logging.Info("search results", "query", query, "matches", len(matches))
		return render.SearchTable(cmd.OutOrStdout(), matches)
	},
}

func init() {
	searchCmd.Flags().IntP("limit", "n", 0, "Show at most this many results (0 shows all)")
}
