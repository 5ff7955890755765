package sorting

import (
	"slices"
	"testing"
	"time"

	"github.com/danielolaszy/issuedir/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var base = time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

func record(number int, labels ...string) models.Aggregated {
	return models.Aggregated{
		Issue: models.Issue{ID: int64(number), Number: number, Labels: models.Named(labels...)},
	}
}

func numbers(records []models.Aggregated) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		out = append(out, r.Issue.Number)
	}
	return out
}

func TestByPriority(t *testing.T) {
	records := []models.Aggregated{
		record(1, "Priority: 1"),
		record(2),
		record(3, "Time: <1 Hour", "Priority: 5"),
	}

	sorted := ByPriority(records)
	assert.Equal(t, []int{3, 1, 2}, numbers(sorted))
}

func TestByPriorityScenario(t *testing.T) {
	rec1 := record(10, "Priority: 3")
	rec2 := record(20)

	assert.Equal(t, []int{10, 20}, numbers(ByPriority([]models.Aggregated{rec1, rec2})))
	assert.Equal(t, []int{10, 20}, numbers(ByPriority([]models.Aggregated{rec2, rec1})))
}

func TestByFreshnessAndOldest(t *testing.T) {
	records := []models.Aggregated{
		{Issue: models.Issue{Number: 1}, Notification: models.Notification{UpdatedAt: base}},
		{Issue: models.Issue{Number: 2}, Notification: models.Notification{UpdatedAt: base.Add(2 * time.Hour)}},
		{Issue: models.Issue{Number: 3}, Notification: models.Notification{UpdatedAt: base.Add(time.Hour)}},
	}

	assert.Equal(t, []int{2, 3, 1}, numbers(ByFreshness(slices.Clone(records))))
	assert.Equal(t, []int{1, 3, 2}, numbers(ByOldest(slices.Clone(records))))
}

func TestByActivityFallsBackToIssueTime(t *testing.T) {
	records := []models.Aggregated{
		models.FromIssue(models.Issue{Number: 1, UpdatedAt: base}),
		{Issue: models.Issue{Number: 2, UpdatedAt: base.Add(-time.Hour)}, Notification: models.Notification{UpdatedAt: base.Add(time.Hour)}},
		models.FromIssue(models.Issue{Number: 3, UpdatedAt: base.Add(30 * time.Minute)}),
	}

	assert.Equal(t, []int{2, 3, 1}, numbers(ByActivity(records)))
}

func TestByBacklinks(t *testing.T) {
	records := []models.Aggregated{
		{Issue: models.Issue{Number: 1}, BacklinkCount: 0},
		{Issue: models.Issue{Number: 2}, BacklinkCount: 3},
		{Issue: models.Issue{Number: 3}, BacklinkCount: 1},
	}

	assert.Equal(t, []int{2, 3, 1}, numbers(ByBacklinks(records)))
}

func TestByReason(t *testing.T) {
	records := []models.Aggregated{
		{Issue: models.Issue{Number: 1}, Notification: models.Notification{Reason: "author"}},
		{Issue: models.Issue{Number: 2}, Notification: models.Notification{Reason: "mention"}},
		{Issue: models.Issue{Number: 3}, Notification: models.Notification{Reason: "subscribed"}},
		{Issue: models.Issue{Number: 4}, Notification: models.Notification{Reason: "security_alert"}},
	}

	// Unlisted reasons sort ahead of every listed reason.
	assert.Equal(t, []int{3, 4, 2, 1}, numbers(ByReason(records)))
}

func TestSortExplicitKey(t *testing.T) {
	records := []models.Aggregated{
		record(1, "Priority: 1"),
		record(2, "Priority: 5"),
		record(3),
	}

	normal := Sort(records, KeyPriority, DefaultOptions())
	assert.Equal(t, []int{2, 1, 3}, numbers(normal))

	reversed := Sort(records, KeyPriority, Options{Ordering: OrderingReverse})
	assert.Equal(t, []int{3, 1, 2}, numbers(reversed))

	// The input slice keeps its original order.
	assert.Equal(t, []int{1, 2, 3}, numbers(records))
}

func TestSortUnknownKeyKeepsOrder(t *testing.T) {
	records := []models.Aggregated{record(2), record(1, "Priority: 9")}
	assert.Equal(t, []int{2, 1}, numbers(Sort(records, Key("stars"), DefaultOptions())))
}

func TestSortDefaultChain(t *testing.T) {
	records := []models.Aggregated{
		{
			Issue:         models.Issue{Number: 1, Labels: models.Named("Priority: 2")},
			Notification:  models.Notification{Reason: "author", UpdatedAt: base},
			BacklinkCount: 0,
		},
		{
			Issue:         models.Issue{Number: 2, Labels: models.Named("Priority: 2")},
			Notification:  models.Notification{Reason: "mention", UpdatedAt: base},
			BacklinkCount: 2,
		},
		{
			Issue:        models.Issue{Number: 3},
			Notification: models.Notification{Reason: "review_requested", UpdatedAt: base.Add(time.Hour)},
		},
		{
			Issue:        models.Issue{Number: 4, Labels: models.Named("Priority: 2")},
			Notification: models.Notification{Reason: "mention", UpdatedAt: base.Add(time.Hour)},
		},
		{
			Issue:        models.Issue{Number: 5, Labels: models.Named("Priority: 2")},
			Notification: models.Notification{Reason: "assign", UpdatedAt: base},
		},
	}

	sorted := Sort(records, KeyNone, DefaultOptions())

	// Priority dominates, then backlinks, then activity, then reason.
	assert.Equal(t, []int{2, 4, 5, 1, 3}, numbers(sorted))
}

func TestParseKey(t *testing.T) {
	testCases := []struct {
		input   string
		want    Key
		wantErr bool
	}{
		{input: "", want: KeyNone},
		{input: "priority", want: KeyPriority},
		{input: " Activity ", want: KeyActivity},
		{input: "oldest", want: KeyOldest},
		{input: "stars", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			key, err := ParseKey(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, key)
		})
	}
}

func TestParseOrdering(t *testing.T) {
	ordering, err := ParseOrdering("")
	require.NoError(t, err)
	assert.Equal(t, OrderingNormal, ordering)

	ordering, err = ParseOrdering("REVERSE")
	require.NoError(t, err)
	assert.Equal(t, OrderingReverse, ordering)

	_, err = ParseOrdering("sideways")
	assert.Error(t, err)
}

func TestSortReverseProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		records := make([]models.Aggregated, n)
		for i := range records {
			labels := []string{}
			if p := rapid.IntRange(-1, 5).Draw(t, "priority"); p >= 0 {
				labels = append(labels, "Priority: "+string(rune('0'+p)))
			}
			records[i] = record(i, labels...)
			records[i].BacklinkCount = rapid.IntRange(0, 3).Draw(t, "backlinks")
		}
		key := rapid.SampledFrom(append(Keys(), KeyNone)).Draw(t, "key")

		normal := Sort(records, key, DefaultOptions())
		reversed := Sort(records, key, Options{Ordering: OrderingReverse})
		slices.Reverse(reversed)

		if !slices.Equal(numbers(normal), numbers(reversed)) {
			t.Fatalf("key %q: reverse ordering %v is not the reverse of %v", key, numbers(reversed), numbers(normal))
		}
		if len(normal) != len(records) {
			t.Fatalf("sorted length %d, want %d", len(normal), len(records))
		}
	})
}
