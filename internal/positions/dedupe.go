package positions

import (
	"sort"

	"lv-perpquery/internal/model"

	"github.com/google/uuid"
)

// Deduplicate collapses multiple stored rows for the same perpetual into
// the row touched by the most recent event. The indexer guarantees at most
// one open position per perpetual per subaccount, but the durable store can
// transiently hold duplicates between event batches; this enforces the
// invariant on the read side.
//
// Each position's lastEventId must resolve in events; a dangling reference
// is corrupt upstream data. Output is sorted by event recency, most recent
// first.
func Deduplicate(positions []model.PerpetualPosition, events map[uuid.UUID]model.BlockEvent) ([]model.PerpetualPosition, error) {
	for _, pos := range positions {
		if _, ok := events[pos.LastEventID]; !ok {
			return nil, &model.DataIntegrityError{
				Reason: "position references unknown event",
				IDs:    []string{pos.PerpetualID, pos.LastEventID.String()},
			}
		}
	}

	sorted := make([]model.PerpetualPosition, len(positions))
	copy(sorted, positions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return events[sorted[j].LastEventID].Before(events[sorted[i].LastEventID])
	})

	seen := make(map[string]bool, len(sorted))
	out := sorted[:0]
	for _, pos := range sorted {
		if seen[pos.PerpetualID] {
			continue
		}
		seen[pos.PerpetualID] = true
		out = append(out, pos)
	}
	return out, nil
}
