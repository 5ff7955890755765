// Package snapshot reads and writes JSON snapshots of issues and aggregated
// notifications so the directory can be used without network access.
package snapshot

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/danielolaszy/issuedir/internal/logging"
	"github.com/danielolaszy/issuedir/pkg/models"
)

// File is a snapshot on disk usable as an issue or notification source.
type File struct {
	Path string
}

// FetchIssues loads the issues stored at f.Path.
func (f File) FetchIssues(ctx context.Context) ([]models.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadIssues(f.Path)
}

// FetchNotifications loads the aggregated notifications stored at f.Path.
func (f File) FetchNotifications(ctx context.Context) ([]models.Aggregated, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadNotifications(f.Path)
}

// LoadIssues decodes a JSON array of issues.
func LoadIssues(path string) ([]models.Issue, error) {
	var issues []models.Issue
	if err := load(path, &issues); err != nil {
		return nil, err
	}

	logging.Debug("loaded issue snapshot", "path", path, "issues", len(issues))
	return issues, nil
}

// LoadNotifications decodes a JSON array of aggregated notifications.
// Stored backlink counts are ignored and recomputed from the records.
func LoadNotifications(path string) ([]models.Aggregated, error) {
	var records []models.Aggregated
	if err := load(path, &records); err != nil {
		return nil, err
	}
	models.CountBacklinks(records)

	logging.Debug("loaded notification snapshot", "path", path, "records", len(records))
	return records, nil
}

// Save writes v as indented JSON to path.
func Save(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		logging.Error("failed to write snapshot", "path", path, "error", err)
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}

	logging.Info("snapshot saved", "path", path)
	return nil
}

func load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		logging.Error("failed to read snapshot", "path", path, "error", err)
		return fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		logging.Error("failed to decode snapshot", "path", path, "error", err)
		return fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return nil
}
