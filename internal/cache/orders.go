package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"lv-perpquery/internal/model"

	"github.com/redis/go-redis/v9"
)

// Reader reads matching-engine order state mirrored into redis. Each
// subaccount's resting orders live in one hash, field per order id, value a
// JSON-encoded order.
type Reader struct {
	client *redis.Client
	logger *slog.Logger
}

func New(redisURL, password string, logger *slog.Logger) (*Reader, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if password != "" {
		opt.Password = password
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Reader{client: client, logger: logger.With("component", "order_cache")}, nil
}

func ordersKey(subaccountID string) string {
	return fmt.Sprintf("orders:%s", subaccountID)
}

// ListLiveOrders returns the cache-resident orders for a subaccount. A
// missing key means the matching engine holds nothing for the subaccount,
// not an error. Entries that fail to decode are skipped and logged; one
// corrupt mirror entry must not take down the whole read.
func (r *Reader) ListLiveOrders(ctx context.Context, subaccountID string) ([]model.LiveOrder, error) {
	start := time.Now()
	fields, err := r.client.HGetAll(ctx, ordersKey(subaccountID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis HGETALL failed: %w", err)
	}

	out := make([]model.LiveOrder, 0, len(fields))
	for id, raw := range fields {
		var o model.LiveOrder
		if err := json.Unmarshal([]byte(raw), &o); err != nil {
			r.logger.Warn("skipping undecodable live order",
				"subaccount_id", subaccountID,
				"order_id", id,
				"err", err,
			)
			continue
		}
		out = append(out, o)
	}

	r.logger.Debug("live orders fetched",
		"subaccount_id", subaccountID,
		"count", len(out),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (r *Reader) Close() error {
	return r.client.Close()
}
