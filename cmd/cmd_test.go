package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const issuesSnapshot = `[
	{"id": 1, "number": 10, "title": "Fix login bug", "labels": [{"name": "Priority: 1"}, {"name": "Price: 50 USD"}],
	 "repository_url": "https://api.github.com/repos/ubiquity/work"},
	{"id": 2, "number": 20, "title": "Update docs", "labels": [{"name": "Priority: 3"}, {"name": "Price: 25 USD"}],
	 "repository_url": "https://api.github.com/repos/ubiquity-os/plugins"},
	{"id": 3, "number": 30, "title": "Login proposal", "labels": [],
	 "repository_url": "https://api.github.com/repos/ubiquity/work"}
]`

const notificationsSnapshot = `[
	{"issue": {"id": 1, "number": 10, "title": "Fix login bug", "user": {"login": "octocat"}},
	 "pullRequest": {"number": 11}, "notification": {"id": "a", "reason": "review_requested"}},
	{"issue": {"id": 4, "number": 40, "title": "Bump deps", "user": {"login": "renovate[bot]"}},
	 "pullRequest": null, "notification": {"id": "b", "reason": "subscribed"}}
]`

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ISSUEDIR_REPOS", "")
	t.Setenv("GITHUB_TOKEN", "")
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSearchCommand(t *testing.T) {
	input := writeSnapshot(t, issuesSnapshot)

	output, err := run(t, "search", "--input", input, "login")
	require.NoError(t, err)

	assert.Contains(t, output, "Fix login bug")
	assert.Contains(t, output, "Login proposal")
	assert.NotContains(t, output, "Update docs")
}

func TestIssuesCommand(t *testing.T) {
	input := writeSnapshot(t, issuesSnapshot)

	t.Run("priced issues by priority", func(t *testing.T) {
		output, err := run(t, "issues", "--input", input, "--sort", "priority")
		require.NoError(t, err)

		docs := strings.Index(output, "Update docs")
		login := strings.Index(output, "Fix login bug")
		require.NotEqual(t, -1, docs)
		require.NotEqual(t, -1, login)
		assert.Less(t, docs, login)
		assert.NotContains(t, output, "Login proposal")
	})

	t.Run("proposals of one organization", func(t *testing.T) {
		output, err := run(t, "issues", "--input", input, "--proposals", "--org", "ubiquity")
		require.NoError(t, err)
		assert.Contains(t, output, "Login proposal")
		assert.NotContains(t, output, "Fix login bug")
	})

	t.Run("save snapshot", func(t *testing.T) {
		saved := filepath.Join(t.TempDir(), "saved.json")
		_, err := run(t, "issues", "--input", input, "--save", saved)
		require.NoError(t, err)

		data, err := os.ReadFile(saved)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Login proposal")
	})

	t.Run("unknown sort key", func(t *testing.T) {
		_, err := run(t, "issues", "--input", input, "--sort", "stars")
		assert.ErrorContains(t, err, "unknown sort key")
	})

	t.Run("no repositories without snapshot", func(t *testing.T) {
		_, err := run(t, "issues")
		assert.ErrorContains(t, err, "no repositories configured")
	})
}

func TestNotificationsCommand(t *testing.T) {
	input := writeSnapshot(t, notificationsSnapshot)

	output, err := run(t, "notifications", "--input", input)
	require.NoError(t, err)
	assert.Contains(t, output, "review_requested")
	assert.NotContains(t, output, "Bump deps")

	output, err = run(t, "notifications", "--input", input, "--bots")
	require.NoError(t, err)
	assert.Contains(t, output, "Bump deps")

	_, err = run(t, "notifications")
	assert.ErrorContains(t, err, "GITHUB_TOKEN")
}
