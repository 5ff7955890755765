package sorting

import (
	"fmt"
	"slices"
	"strings"

	"github.com/danielolaszy/issuedir/internal/logging"
	"github.com/danielolaszy/issuedir/pkg/models"
)

// Key names a single sort criterion.
type Key string

const (
	// KeyNone applies the default chain.
	KeyNone      Key = ""
	KeyPriority  Key = "priority"
	KeyFreshness Key = "freshness"
	KeyOldest    Key = "oldest"
	KeyActivity  Key = "activity"
	KeyBacklinks Key = "backlinks"
	KeyReason    Key = "reason"
)

// Ordering is either normal or reverse.
type Ordering string

const (
	OrderingNormal  Ordering = "normal"
	OrderingReverse Ordering = "reverse"
)

// Options controls the controller output.
type Options struct {
	Ordering Ordering
}

// DefaultOptions returns normal ordering.
func DefaultOptions() Options {
	return Options{Ordering: OrderingNormal}
}

type criterion func([]models.Aggregated) []models.Aggregated

var criteria = map[Key]criterion{
	KeyPriority:  ByPriority,
	KeyFreshness: ByFreshness,
	KeyOldest:    ByOldest,
	KeyActivity:  ByActivity,
	KeyBacklinks: ByBacklinks,
	KeyReason:    ByReason,
}

// defaultChain is applied in order; the last criterion dominates.
var defaultChain = []criterion{ByReason, ByActivity, ByBacklinks, ByPriority}

// Keys returns the supported sort keys in a stable order.
func Keys() []Key {
	return []Key{KeyPriority, KeyFreshness, KeyOldest, KeyActivity, KeyBacklinks, KeyReason}
}

// ParseKey validates a user supplied sort key. An empty string selects the default chain.
func ParseKey(s string) (Key, error) {
	key := Key(strings.ToLower(strings.TrimSpace(s)))
	if key == KeyNone {
		return KeyNone, nil
	}
	if _, ok := criteria[key]; !ok {
		return KeyNone, fmt.Errorf("unknown sort key %q, expected one of %v", s, Keys())
	}
	return key, nil
}

// ParseOrdering validates a user supplied ordering. An empty string means normal.
func ParseOrdering(s string) (Ordering, error) {
	switch Ordering(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderingNormal:
		return OrderingNormal, nil
	case OrderingReverse:
		return OrderingReverse, nil
	default:
		return OrderingNormal, fmt.Errorf("unknown ordering %q, expected %q or %q", s, OrderingNormal, OrderingReverse)
	}
}

// Sort orders a copy of records. An explicit key applies only that criterion;
// KeyNone applies the default chain. Unknown keys keep the input order.
// The caller's slice is never modified.
func Sort(records []models.Aggregated, key Key, options Options) []models.Aggregated {
	sorted := slices.Clone(records)

	if key != KeyNone {
		sortBy, ok := criteria[key]
		if ok {
			sorted = sortBy(sorted)
		} else {
			logging.Warn("ignoring unknown sort key", "key", key)
		}
	} else {
		for _, sortBy := range defaultChain {
			sorted = sortBy(sorted)
		}
	}

	if options.Ordering == OrderingReverse {
		slices.Reverse(sorted)
	}

	logging.Debug("sorted records",
		"count", len(sorted),
		"key", key,
		"ordering", options.Ordering)

	return sorted
}
