// Package sorting orders aggregated issue and notification records.
//
// Each criterion is a stable sort over the whole slice. Chaining them lets
// every criterion act as the tie-break for the one applied after it.
package sorting

import (
	"slices"

	"github.com/danielolaszy/issuedir/pkg/models"
)

// ReasonOrder lists notification reasons from most to least important.
var ReasonOrder = []string{
	"security_alert",
	"review_requested",
	"mention",
	"manual",
	"assign",
	"approval_requested",
	"author",
}

// reasonIndex returns the position of reason in ReasonOrder, or -1.
// Unknown reasons therefore sort ahead of every listed reason.
func reasonIndex(reason string) int {
	return slices.Index(ReasonOrder, reason)
}

// ByPriority sorts records by their "Priority: N" label, highest first.
// Records without one rank as -1.
func ByPriority(records []models.Aggregated) []models.Aggregated {
	slices.SortStableFunc(records, func(a, b models.Aggregated) int {
		return b.Issue.Priority() - a.Issue.Priority()
	})
	return records
}

// ByFreshness sorts records by notification update time, most recent first.
func ByFreshness(records []models.Aggregated) []models.Aggregated {
	slices.SortStableFunc(records, func(a, b models.Aggregated) int {
		return b.Notification.UpdatedAt.Compare(a.Notification.UpdatedAt)
	})
	return records
}

// ByOldest sorts records by notification update time, least recent first.
func ByOldest(records []models.Aggregated) []models.Aggregated {
	slices.SortStableFunc(records, func(a, b models.Aggregated) int {
		return a.Notification.UpdatedAt.Compare(b.Notification.UpdatedAt)
	})
	return records
}

// ByActivity sorts records by their latest activity, most recent first.
// Plain directory issues fall back to the issue update time.
func ByActivity(records []models.Aggregated) []models.Aggregated {
	slices.SortStableFunc(records, func(a, b models.Aggregated) int {
		return b.ActivityTime().Compare(a.ActivityTime())
	})
	return records
}

// ByBacklinks sorts records by backlink count, highest first.
func ByBacklinks(records []models.Aggregated) []models.Aggregated {
	slices.SortStableFunc(records, func(a, b models.Aggregated) int {
		return b.BacklinkCount - a.BacklinkCount
	})
	return records
}

// ByReason sorts records by the position of their notification reason in ReasonOrder.
func ByReason(records []models.Aggregated) []models.Aggregated {
	slices.SortStableFunc(records, func(a, b models.Aggregated) int {
		return reasonIndex(a.Notification.Reason) - reasonIndex(b.Notification.Reason)
	})
	return records
}
