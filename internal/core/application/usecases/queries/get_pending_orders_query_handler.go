package queries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orders/internal/core/application/ordercache"
	"orders/internal/core/ports"
	"orders/internal/pkg/metrics"
)

// GetPendingOrdersQueryHandler serves the pending list through a read-through cache.
//
// A hit on ordercache.ListKey is returned as is, without touching the store.
// A miss, a cache failure or an undecodable entry falls back to the store and
// repopulates the key with the configured TTL. Failing to repopulate only
// gets logged.
type GetPendingOrdersQueryHandler struct {
	reader  ports.OrderReader
	cache   ports.Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewGetPendingOrdersQueryHandler(
	reader ports.OrderReader,
	cache ports.Cache,
	ttl time.Duration,
	logger *slog.Logger,
	m *metrics.Metrics,
) GetPendingOrdersQueryHandler {
	if ttl <= 0 {
		ttl = ordercache.DefaultListTTL
	}
	return GetPendingOrdersQueryHandler{
		reader:  reader,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.With("component", "GetPendingOrdersQueryHandler"),
		metrics: m,
	}
}

func (h GetPendingOrdersQueryHandler) Handle(ctx context.Context, query GetPendingOrdersQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if cached, ok := h.fromCache(ctx); ok {
		return cached, nil
	}

	aggregates, err := h.reader.FindNonDelivered(ctx)
	if err != nil {
		return nil, fmt.Errorf("find non delivered orders: %w", err)
	}

	orders := make([]OrderResponse, 0, len(aggregates))
	for _, o := range aggregates {
		orders = append(orders, NewOrderResponse(o))
	}

	h.toCache(ctx, orders)
	return orders, nil
}

func (h GetPendingOrdersQueryHandler) fromCache(ctx context.Context) ([]OrderResponse, bool) {
	raw, err := h.cache.Get(ctx, ordercache.ListKey)
	switch {
	case errors.Is(err, ports.ErrCacheMiss):
		h.metrics.RecordCacheMiss(ordercache.ListKey)
		return nil, false
	case err != nil:
		h.metrics.RecordCacheError("get")
		h.logger.WarnContext(ctx, "cache read failed, falling back to store",
			"key", ordercache.ListKey, "error", err)
		return nil, false
	}

	orders := make([]OrderResponse, 0)
	if err = json.Unmarshal([]byte(raw), &orders); err != nil {
		h.metrics.RecordCacheError("decode")
		h.logger.WarnContext(ctx, "discarding undecodable cache entry",
			"key", ordercache.ListKey, "error", err)
		return nil, false
	}

	h.metrics.RecordCacheHit(ordercache.ListKey)
	return orders, true
}

func (h GetPendingOrdersQueryHandler) toCache(ctx context.Context, orders []OrderResponse) {
	payload, err := json.Marshal(orders)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to encode pending orders", "error", err)
		return
	}

	if err = h.cache.Set(ctx, ordercache.ListKey, string(payload), h.ttl); err != nil {
		h.metrics.RecordCacheError("set")
		h.logger.WarnContext(ctx, "failed to populate cache", "key", ordercache.ListKey, "error", err)
	}
}
