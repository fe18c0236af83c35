// Package ranking provides the display ordering for discovered job results.
package ranking

import (
	"sort"

	"github.com/mhe931/jobflow/internal/types"
)

// Rank returns a permutation of results in display order. The sort is a
// stable two-key sort: results the user has not interacted with come first
// ("recede": interacted results sink to the bottom), and within each group
// results are ordered by hire probability descending. Ties preserve the
// original relative order.
//
// Rank is pure: the input slice is never mutated, and calling it twice on the
// same input yields identical output. Display order is recomputed on every
// read rather than persisted, so it can never go stale when interaction state
// changes.
func Rank(results []types.ResultRecord) []types.ResultRecord {
	ranked := append([]types.ResultRecord(nil), results...)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Interacted != b.Interacted {
			return !a.Interacted
		}
		return a.HireProbability > b.HireProbability
	})

	return ranked
}
