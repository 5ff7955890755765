package cmd

import (
	"fmt"

	"github.com/danielolaszy/issuedir/internal/directory"
	"github.com/danielolaszy/issuedir/internal/logging"
	"github.com/danielolaszy/issuedir/internal/render"
	"github.com/danielolaszy/issuedir/internal/snapshot"
	"github.com/danielolaszy/issuedir/internal/sorting"
	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List notifications joined with their issues",
	Long: `List your GitHub notifications from the configured organizations.

Pull request notifications are shown with the issue the pull request resolves;
draft and closed pull requests are left out. CI activity is ignored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, options, err := sortFlags(cmd)
		if err != nil {
			return err
		}
		showBots, err := cmd.Flags().GetBool("bots")
		if err != nil {
			return err
		}
		save, err := cmd.Flags().GetString("save")
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		source, err := notificationsFrom(cmd, cfg)
		if err != nil {
			return err
		}

		records, err := source.FetchNotifications(cmd.Context())
		if err != nil {
			return err
		}
		if save != "" {
			if err := snapshot.Save(save, records); err != nil {
				return err
			}
		}

		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No notifications")
			return nil
		}

		records = directory.FilterBots(records, showBots)
		records = sorting.Sort(records, key, options)

		logging.Info("notifications listed", "count", len(records))
		return render.NotificationTable(cmd.OutOrStdout(), records)
	},
}

func init() {
	notificationsCmd.Flags().StringP("sort", "s", "", "Sort key (default: combined ordering)")
	notificationsCmd.Flags().BoolP("reverse", "R", false, "Reverse the final order")
	notificationsCmd.Flags().Bool("bots", false, "Include issues opened by bots")
	notificationsCmd.Flags().String("save", "", "Also write the aggregated notifications to this snapshot file")
}
