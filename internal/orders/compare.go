package orders

import (
	"sort"

	"lv-perpquery/internal/model"
	"lv-perpquery/internal/types"
)

// lessExpiry orders two results of the same expiry kind, numerically for
// height bounds and chronologically for time bounds.
func lessExpiry(a, b model.OrderResult) bool {
	if a.GoodTilBlock != nil {
		return *a.GoodTilBlock < *b.GoodTilBlock
	}
	return a.GoodTilBlockTime.Before(*b.GoodTilBlockTime)
}

// sortResults orders the merged set by expiry. Height-bounded orders sort
// before time-bounded ones in both directions; descending mode reverses the
// comparator's inputs only within a kind, so the height-before-time
// convention is unaffected by the requested direction.
//
// An order bearing neither expiry field cannot be positioned at all; that
// is corrupt upstream data and aborts the request.
func sortResults(results []model.OrderResult, ordering types.SortDirection) error {
	for _, r := range results {
		if r.GoodTilBlock == nil && r.GoodTilBlockTime == nil {
			return &model.DataIntegrityError{
				Reason: "order has neither goodTilBlock nor goodTilBlockTime",
				IDs:    []string{r.ID.String()},
			}
		}
	}
	descending := ordering == types.SortDescending
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if (a.GoodTilBlock != nil) != (b.GoodTilBlock != nil) {
			return a.GoodTilBlock != nil
		}
		if descending {
			a, b = b, a
		}
		return lessExpiry(a, b)
	})
	return nil
}
