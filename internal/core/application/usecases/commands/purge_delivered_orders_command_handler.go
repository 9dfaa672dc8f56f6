package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orders/internal/core/application/ordercache"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// PurgeDeliveredOrdersCommandHandler deletes every persisted delivered order
// with its items in a single transaction.
type PurgeDeliveredOrdersCommandHandler struct {
	uowFactory  OrderUoWFactory
	invalidator CacheInvalidator
	publisher   ports.OrderEventPublisher
	logger      *slog.Logger
}

func NewPurgeDeliveredOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	invalidator CacheInvalidator,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) PurgeDeliveredOrdersCommandHandler {
	return PurgeDeliveredOrdersCommandHandler{
		uowFactory:  uowFactory,
		invalidator: invalidator,
		publisher:   publisher,
		logger:      logger.With("component", "PurgeDeliveredOrdersCommandHandler"),
	}
}

// Handle returns the number of purged orders.
func (h PurgeDeliveredOrdersCommandHandler) Handle(ctx context.Context, cmd PurgeDeliveredOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	ids, err := orderRepo.FindDeliveredIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("find delivered orders: %w", err)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	for _, id := range ids {
		if err = orderRepo.DeleteItemsByOrder(ctx, id); err != nil {
			return 0, fmt.Errorf("delete items of order %d: %w", id, err)
		}
		if err = orderRepo.Delete(ctx, id); err != nil {
			return 0, fmt.Errorf("delete order %d: %w", id, err)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, ordercache.ListKey)
	events := make([]order.ChangedEvent, 0, len(ids))
	now := time.Now().UTC()
	for _, id := range ids {
		keys = append(keys, ordercache.OrderKey(id))
		events = append(events, order.ChangedEvent{
			OrderID:    id,
			Status:     order.Delivered,
			Deleted:    true,
			OccurredAt: now,
		})
	}

	_ = h.invalidator.Invalidate(ctx, keys...)
	publish(ctx, h.publisher, h.logger, events...)

	h.logger.InfoContext(ctx, "purged delivered orders", "count", len(ids))
	return len(ids), nil
}
