package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"lv-perpquery/internal/account"
	"lv-perpquery/internal/cache"
	"lv-perpquery/internal/config"
	"lv-perpquery/internal/db"
	"lv-perpquery/internal/store"
	"lv-perpquery/internal/types"
)

func main() {
	var (
		address     = flag.String("address", "", "subaccount owner address")
		subaccounts = flag.String("subaccounts", "0", "comma-separated subaccount numbers")
		query       = flag.String("query", "summary", "query to run: summary, orders, pnl")
		clobPairID  = flag.String("clob-pair", "", "filter orders by clob pair id")
		side        = flag.String("side", "", "filter orders by side: BUY or SELL")
		ordering    = flag.String("ordering", "ASC", "order sort direction: ASC or DESC")
		limit       = flag.Int("limit", 100, "maximum orders returned")
	)
	flag.Parse()

	if *address == "" {
		fmt.Fprintln(os.Stderr, "-address is required")
		os.Exit(2)
	}
	numbers, err := parseSubaccounts(*subaccounts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	orderCache, err := cache.New(cfg.RedisURL, cfg.RedisPassword, logger)
	if err != nil {
		logger.Error("redis connect failed", "err", err)
		os.Exit(1)
	}
	defer orderCache.Close()

	svc := account.NewService(store.New(pool), orderCache, logger)

	var result any
	switch *query {
	case "summary":
		result, err = svc.GetSubaccountSummary(ctx, *address, numbers[0])
	case "orders":
		params := account.ListOrdersParams{
			Address:          *address,
			SubaccountNumber: numbers[0],
			Ordering:         types.SortDirection(strings.ToUpper(*ordering)),
			Limit:            *limit,
		}
		if *clobPairID != "" {
			params.ClobPairID = clobPairID
		}
		if *side != "" {
			s := types.OrderSide(strings.ToUpper(*side))
			params.Side = &s
		}
		result, err = svc.ListOrders(ctx, params)
	case "pnl":
		result, err = svc.GetPortfolioPnl(ctx, *address, numbers)
	default:
		fmt.Fprintf(os.Stderr, "unknown query %q\n", *query)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("query failed", "query", *query, "address", *address, "err", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("encode failed", "err", err)
		os.Exit(1)
	}
}

func parseSubaccounts(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid subaccount number %q", p)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no subaccount numbers given")
	}
	return out, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
