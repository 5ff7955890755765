package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/danielolaszy/issuedir/internal/config"
	"github.com/danielolaszy/issuedir/internal/directory"
	"github.com/danielolaszy/issuedir/internal/github"
	"github.com/danielolaszy/issuedir/internal/logging"
	"github.com/danielolaszy/issuedir/internal/snapshot"
	"github.com/danielolaszy/issuedir/pkg/models"
	"github.com/spf13/cobra"
)

const appName = "issuedir"

var logFile *os.File

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Issuedir searches and sorts GitHub issues and notifications",
	Long: `Issuedir is a CLI tool that builds a directory of open GitHub issues across
repositories. It ranks issues against free-text queries, sorts them by priority,
activity and other criteria, and lists your notifications joined with the
issues they concern.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		enabled, err := cmd.Flags().GetBool("log-file")
		if err != nil || !enabled {
			return err
		}

		file, err := logging.OpenLogFile(appName)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = file
		logging.SetupLogger(file, logging.LevelFromEnv())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
			logFile = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Add persistent flags that will be available to all commands
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringP("input", "i", "", "Read from a JSON snapshot instead of the GitHub API")
	rootCmd.PersistentFlags().Bool("log-file", false, "Write logs to ~/."+appName+"/logs instead of stderr")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(issuesCmd)
	rootCmd.AddCommand(notificationsCmd)
}

// loadConfig reads the configuration named by the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Error("failed to load configuration", "error", err)
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newGitHubClient connects to GitHub and verifies the token.
func newGitHubClient(cmd *cobra.Command, cfg *config.Config) (*github.Client, error) {
	if err := config.ValidateGitHubConfig(cfg); err != nil {
		return nil, err
	}

	client, err := github.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GitHub client: %w", err)
	}
	if err := client.Authenticate(cmd.Context()); err != nil {
		return nil, err
	}
	return client, nil
}

// issueSource picks the snapshot named by --input or the configured repositories on GitHub.
func issueSource(cmd *cobra.Command, cfg *config.Config) (directory.IssueSource, error) {
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return nil, err
	}
	if input != "" {
		return snapshot.File{Path: input}, nil
	}

	if len(cfg.Directory.Repositories) == 0 {
		return nil, fmt.Errorf("no repositories configured, set ISSUEDIR_REPOS or directory.repositories")
	}

	client, err := newGitHubClient(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return directory.IssueSourceFunc(func(ctx context.Context) ([]models.Issue, error) {
		return client.FetchIssues(ctx, cfg.Directory.Repositories)
	}), nil
}

type notificationSource interface {
	FetchNotifications(ctx context.Context) ([]models.Aggregated, error)
}

// notificationsFrom picks the snapshot named by --input or the GitHub notifications API.
func notificationsFrom(cmd *cobra.Command, cfg *config.Config) (notificationSource, error) {
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return nil, err
	}
	if input != "" {
		return snapshot.File{Path: input}, nil
	}

	client, err := newGitHubClient(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// loadDirectory builds the directory from the selected issue source.
func loadDirectory(cmd *cobra.Command) (*directory.Manager, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	source, err := issueSource(cmd, cfg)
	if err != nil {
		return nil, err
	}

	manager := directory.NewManager(cfg.Search)
	if err := manager.Sync(cmd.Context(), source); err != nil {
		return nil, err
	}
	return manager, nil
}
