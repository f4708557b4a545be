package account

import (
	"context"
	"log/slog"
	"time"

	"lv-perpquery/internal/cache"
	"lv-perpquery/internal/equity"
	"lv-perpquery/internal/funding"
	"lv-perpquery/internal/model"
	"lv-perpquery/internal/orders"
	"lv-perpquery/internal/pnl"
	"lv-perpquery/internal/positions"
	"lv-perpquery/internal/store"
	"lv-perpquery/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service fetches one snapshot of store and cache state per request and
// hands it to the pure calculators. It performs no computation of its own.
// Store and cache are read at roughly the same instant but without a
// transactional view; the order reconciler is built to tolerate the two
// sources disagreeing.
type Service struct {
	store  *store.Store
	cache  *cache.Reader
	logger *slog.Logger
}

func NewService(st *store.Store, ca *cache.Reader, logger *slog.Logger) *Service {
	return &Service{store: st, cache: ca, logger: logger.With("component", "account_service")}
}

type SubaccountSummary struct {
	Subaccount         model.Subaccount               `json:"subaccount"`
	Equity             decimal.Decimal                `json:"equity"`
	FreeCollateral     decimal.Decimal                `json:"free_collateral"`
	UnsettledFunding   decimal.Decimal                `json:"unsettled_funding"`
	PerpetualPositions []model.PerpetualPosition      `json:"perpetual_positions"`
	AssetPositions     map[string]model.AssetPosition `json:"asset_positions"`
}

// GetSubaccountSummary derives equity, free collateral and per-position
// unsettled funding for one subaccount from a fresh store snapshot.
func (s *Service) GetSubaccountSummary(ctx context.Context, address string, subaccountNumber int) (SubaccountSummary, error) {
	sub, err := s.store.GetSubaccount(ctx, address, subaccountNumber)
	if err != nil {
		return SubaccountSummary{}, err
	}

	perpPositions, err := s.store.ListPerpetualPositions(ctx, sub.ID, nil)
	if err != nil {
		return SubaccountSummary{}, err
	}
	events, err := s.store.GetBlockEvents(ctx, lastEventIDs(perpPositions))
	if err != nil {
		return SubaccountSummary{}, err
	}
	perpPositions, err = positions.Deduplicate(perpPositions, events)
	if err != nil {
		return SubaccountSummary{}, err
	}

	assetPositions, err := s.store.ListAssetPositions(ctx, sub.ID)
	if err != nil {
		return SubaccountSummary{}, err
	}
	markets, err := s.store.ListMarkets(ctx)
	if err != nil {
		return SubaccountSummary{}, err
	}
	tiers, err := s.store.ListLiquidityTiers(ctx)
	if err != nil {
		return SubaccountSummary{}, err
	}
	latestHeight, _, err := s.store.LatestBlock(ctx)
	if err != nil {
		return SubaccountSummary{}, err
	}
	lastApplied, err := s.store.FundingIndexAt(ctx, sub.UpdatedAtHeight)
	if err != nil {
		return SubaccountSummary{}, err
	}
	latest, err := s.store.FundingIndexAt(ctx, latestHeight)
	if err != nil {
		return SubaccountSummary{}, err
	}

	summary, err := equity.Compute(perpPositions, assetPositions, markets, tiers, lastApplied, latest)
	if err != nil {
		return SubaccountSummary{}, err
	}
	s.logger.Debug("subaccount summary computed",
		"subaccount_id", sub.ID,
		"positions", len(perpPositions),
		"equity", summary.Equity.String(),
	)

	withFunding := make([]model.PerpetualPosition, len(perpPositions))
	for i, pos := range perpPositions {
		pos.UnsettledFunding = funding.Unsettled(pos, lastApplied, latest)
		withFunding[i] = pos
	}

	return SubaccountSummary{
		Subaccount:         sub,
		Equity:             summary.Equity,
		FreeCollateral:     summary.FreeCollateral,
		UnsettledFunding:   summary.UnsettledFunding,
		PerpetualPositions: withFunding,
		AssetPositions:     summary.AssetPositions,
	}, nil
}

type ListOrdersParams struct {
	Address                    string
	SubaccountNumber           int
	ClobPairID                 *string
	Side                       *types.OrderSide
	GoodTilBlockBeforeOrAt     *uint32
	GoodTilBlockTimeBeforeOrAt *time.Time
	Ordering                   types.SortDirection
	Limit                      int
}

// ListOrders reconciles the durable order history with the live cache view.
func (s *Service) ListOrders(ctx context.Context, params ListOrdersParams) ([]model.OrderResult, error) {
	sub, err := s.store.GetSubaccount(ctx, params.Address, params.SubaccountNumber)
	if err != nil {
		return nil, err
	}
	persisted, err := s.store.ListOrders(ctx, sub.ID, params.ClobPairID, params.Side, params.GoodTilBlockBeforeOrAt, params.GoodTilBlockTimeBeforeOrAt, 0)
	if err != nil {
		return nil, err
	}
	live, err := s.cache.ListLiveOrders(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	return orders.Reconcile(persisted, live, orders.ReconcileParams{
		ClobPairID:                 params.ClobPairID,
		Side:                       params.Side,
		GoodTilBlockBeforeOrAt:     params.GoodTilBlockBeforeOrAt,
		GoodTilBlockTimeBeforeOrAt: params.GoodTilBlockTimeBeforeOrAt,
		Ordering:                   params.Ordering,
		Limit:                      params.Limit,
	})
}

// GetPortfolioPnl aggregates the historical pnl ticks of a set of
// subaccounts under one address into a portfolio series, then appends a
// synthetic tick carrying the portfolio's current equity at the latest
// block.
func (s *Service) GetPortfolioPnl(ctx context.Context, address string, subaccountNumbers []int) ([]model.PnlTick, error) {
	ids := make([]string, 0, len(subaccountNumbers))
	currentEquity := decimal.Zero
	for _, n := range subaccountNumbers {
		summary, err := s.GetSubaccountSummary(ctx, address, n)
		if err != nil {
			return nil, err
		}
		ids = append(ids, summary.Subaccount.ID)
		currentEquity = currentEquity.Add(summary.Equity)
	}

	ticks, err := s.store.ListPnlTicks(ctx, ids)
	if err != nil {
		return nil, err
	}
	series := pnl.Aggregate(ticks)

	latestHeight, latestTime, err := s.store.LatestBlock(ctx)
	if err != nil {
		return nil, err
	}
	return pnl.AppendCurrent(series, currentEquity, latestHeight, latestTime), nil
}

func lastEventIDs(positions []model.PerpetualPosition) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(positions))
	for _, p := range positions {
		ids = append(ids, p.LastEventID)
	}
	return ids
}
