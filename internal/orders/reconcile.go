package orders

import (
	"time"

	"lv-perpquery/internal/model"
	"lv-perpquery/internal/types"

	"github.com/shopspring/decimal"
)

// ReconcileParams narrows and orders the merged result set. Filter fields
// are nil when unset. Expiry bounds are inclusive ("before or at").
type ReconcileParams struct {
	ClobPairID                 *string
	Side                       *types.OrderSide
	GoodTilBlockBeforeOrAt     *uint32
	GoodTilBlockTimeBeforeOrAt *time.Time
	Ordering                   types.SortDirection
	Limit                      int
}

// Reconcile merges the durable-store view of a subaccount's orders with the
// cache-resident live view into one canonical list.
//
// The persisted rows arrive pre-filtered by the store query; filters here
// apply to the live source only. The result id set is the union of both
// sources. When both views exist for an id the persisted view is the base
// and the live view overrides the fields the matching engine can change
// between flushes. A live-only order is reported as best-effort opened with
// nothing filled, since the durable store has not seen it yet.
func Reconcile(persisted []model.PersistedOrder, live []model.LiveOrder, params ReconcileParams) ([]model.OrderResult, error) {
	liveByID := make(map[string]model.LiveOrder)
	liveIDs := make([]string, 0, len(live))
	for _, o := range live {
		if !matchesLiveFilters(o, params) {
			continue
		}
		if _, ok := liveByID[o.ID.String()]; !ok {
			liveIDs = append(liveIDs, o.ID.String())
		}
		liveByID[o.ID.String()] = o
	}

	results := make([]model.OrderResult, 0, len(persisted)+len(liveByID))
	merged := make(map[string]bool, len(persisted))
	for _, p := range persisted {
		if l, ok := liveByID[p.ID.String()]; ok {
			results = append(results, mergeViews(p, l))
			merged[p.ID.String()] = true
			continue
		}
		results = append(results, fromPersisted(p))
	}
	for _, id := range liveIDs {
		if merged[id] {
			continue
		}
		results = append(results, fromLive(liveByID[id]))
	}

	if err := sortResults(results, params.Ordering); err != nil {
		return nil, err
	}
	if params.Limit > 0 && len(results) > params.Limit {
		results = results[:params.Limit]
	}
	return results, nil
}

// matchesLiveFilters applies the cache-source filters. Only limit orders
// are mirrored into the cache; anything else in there is stale. An expiry
// bound excludes orders of the other expiry kind outright: an order bounded
// by block height can never satisfy a wall-clock bound, and vice versa.
func matchesLiveFilters(o model.LiveOrder, params ReconcileParams) bool {
	if o.Type != types.OrderTypeLimit {
		return false
	}
	if params.ClobPairID != nil && o.ClobPairID != *params.ClobPairID {
		return false
	}
	if params.Side != nil && o.Side != *params.Side {
		return false
	}
	if params.GoodTilBlockBeforeOrAt != nil {
		if o.GoodTilBlock == nil || *o.GoodTilBlock > *params.GoodTilBlockBeforeOrAt {
			return false
		}
	}
	if params.GoodTilBlockTimeBeforeOrAt != nil {
		if o.GoodTilBlockTime == nil || o.GoodTilBlockTime.After(*params.GoodTilBlockTimeBeforeOrAt) {
			return false
		}
	}
	return true
}

func fromPersisted(p model.PersistedOrder) model.OrderResult {
	return model.OrderResult{
		ID:               p.ID,
		SubaccountID:     p.SubaccountID,
		ClientID:         p.ClientID,
		ClobPairID:       p.ClobPairID,
		Side:             p.Side,
		Type:             p.Type,
		Status:           p.Status,
		Size:             p.Size,
		TotalFilled:      p.TotalFilled,
		Price:            p.Price,
		TimeInForce:      p.TimeInForce,
		PostOnly:         p.PostOnly,
		ReduceOnly:       p.ReduceOnly,
		GoodTilBlock:     p.GoodTilBlock,
		GoodTilBlockTime: p.GoodTilBlockTime,
		CreatedAtHeight:  p.CreatedAtHeight,
		UpdatedAt:        p.UpdatedAt,
	}
}

// mergeViews starts from the persisted view and overrides the fields the
// matching engine can legitimately change before the next flush.
func mergeViews(p model.PersistedOrder, l model.LiveOrder) model.OrderResult {
	out := fromPersisted(p)
	out.Size = l.Size
	out.Price = l.Price
	out.TimeInForce = l.TimeInForce
	out.PostOnly = l.PostOnly
	out.ReduceOnly = l.ReduceOnly
	out.GoodTilBlock = l.GoodTilBlock
	out.GoodTilBlockTime = l.GoodTilBlockTime
	return out
}

// fromLive synthesizes a result for an order the durable store has not
// recorded yet. Status is best-effort opened and nothing has filled as far
// as this view can tell.
func fromLive(l model.LiveOrder) model.OrderResult {
	return model.OrderResult{
		ID:               l.ID,
		SubaccountID:     l.SubaccountID,
		ClientID:         l.ClientID,
		ClobPairID:       l.ClobPairID,
		Side:             l.Side,
		Type:             l.Type,
		Status:           types.OrderStatusBestEffortOpened,
		Size:             l.Size,
		TotalFilled:      decimal.Zero,
		Price:            l.Price,
		TimeInForce:      l.TimeInForce,
		PostOnly:         l.PostOnly,
		ReduceOnly:       l.ReduceOnly,
		GoodTilBlock:     l.GoodTilBlock,
		GoodTilBlockTime: l.GoodTilBlockTime,
	}
}
