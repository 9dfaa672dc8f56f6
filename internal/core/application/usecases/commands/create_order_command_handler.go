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

// CreateOrderCommandHandler stores a new initiated order with its items.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, invalidator, publisher, logger)
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// created.ID() is assigned, created.Status() == order.Initiated
type CreateOrderCommandHandler struct {
	uowFactory  OrderUoWFactory
	invalidator CacheInvalidator
	publisher   ports.OrderEventPublisher
	logger      *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	invalidator CacheInvalidator,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:  uowFactory,
		invalidator: invalidator,
		publisher:   publisher,
		logger:      logger.With("component", "CreateOrderCommandHandler"),
	}
}

// Handle inserts the order and its items in one transaction and returns the
// order as read back from the store. The pending list is invalidated only
// after the commit succeeded.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	aggregate, err := order.NewOrder(cmd.ClientName(), cmd.Items())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	id, err := orderRepo.Add(ctx, aggregate)
	if err != nil {
		return nil, fmt.Errorf("add order: %w", err)
	}

	created, err := orderRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload order %d: %w", id, err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	_ = h.invalidator.Invalidate(ctx, ordercache.ListKey)
	publish(ctx, h.publisher, h.logger, order.NewChangedEvent(created, false, time.Now()))

	return created, nil
}

// publish is best effort: the change is already committed.
func publish(ctx context.Context, publisher ports.OrderEventPublisher, logger *slog.Logger, events ...order.ChangedEvent) {
	if err := publisher.Publish(context.WithoutCancel(ctx), events...); err != nil {
		logger.ErrorContext(ctx, "failed to publish order events", "count", len(events), "error", err)
	}
}
