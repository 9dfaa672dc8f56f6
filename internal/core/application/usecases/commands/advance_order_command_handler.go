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

// DeliveredMessage is returned in place of the order once it has been delivered and removed.
const DeliveredMessage = "Order delivered and deleted"

// AdvanceOrderResult carries either the order after the advance or, when the
// advance delivered it, the deletion message.
type AdvanceOrderResult struct {
	Order   *order.Order
	Deleted bool
	Message string
}

// TransitionRecorder observes successful status changes.
type TransitionRecorder interface {
	RecordTransition(from, to string)
}

// AdvanceOrderCommandHandler applies the lifecycle table:
//
//	initiated -> sent       persist status, invalidate the pending list
//	sent      -> delivered  persist status, delete items, delete order (one
//	                        transaction), invalidate the list and order:<id>
//	delivered               no-op, nothing invalidated
//
// The order row is locked for the whole transaction so two concurrent advances
// of the same order are serialized. The loser of a race on a sent order sees
// the row gone and gets a not found error.
type AdvanceOrderCommandHandler struct {
	uowFactory  OrderUoWFactory
	invalidator CacheInvalidator
	publisher   ports.OrderEventPublisher
	recorder    TransitionRecorder
	logger      *slog.Logger
}

func NewAdvanceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	invalidator CacheInvalidator,
	publisher ports.OrderEventPublisher,
	recorder TransitionRecorder,
	logger *slog.Logger,
) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{
		uowFactory:  uowFactory,
		invalidator: invalidator,
		publisher:   publisher,
		recorder:    recorder,
		logger:      logger.With("component", "AdvanceOrderCommandHandler"),
	}
}

func (h AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) (AdvanceOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return AdvanceOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AdvanceOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return AdvanceOrderResult{}, err
	}

	transition, err := aggregate.Advance()
	if err != nil {
		return AdvanceOrderResult{}, err
	}

	if transition.IsNoop() {
		return AdvanceOrderResult{Order: aggregate}, nil
	}

	if err = orderRepo.UpdateStatus(ctx, aggregate.ID(), transition.To); err != nil {
		return AdvanceOrderResult{}, fmt.Errorf("update status of order %d: %w", aggregate.ID(), err)
	}

	if transition.IsTerminal() {
		return h.deliver(ctx, uow, orderRepo, aggregate, transition)
	}

	updated, err := orderRepo.Get(ctx, aggregate.ID())
	if err != nil {
		return AdvanceOrderResult{}, fmt.Errorf("reload order %d: %w", aggregate.ID(), err)
	}

	if err = uow.Commit(ctx); err != nil {
		return AdvanceOrderResult{}, err
	}

	h.afterCommit(ctx, transition, updated, false, ordercache.ListKey)
	return AdvanceOrderResult{Order: updated}, nil
}

func (h AdvanceOrderCommandHandler) deliver(
	ctx context.Context,
	uow TxManager,
	orderRepo ports.OrderRepository,
	aggregate *order.Order,
	transition order.Transition,
) (AdvanceOrderResult, error) {
	if err := orderRepo.DeleteItemsByOrder(ctx, aggregate.ID()); err != nil {
		return AdvanceOrderResult{}, fmt.Errorf("delete items of order %d: %w", aggregate.ID(), err)
	}

	if err := orderRepo.Delete(ctx, aggregate.ID()); err != nil {
		return AdvanceOrderResult{}, fmt.Errorf("delete order %d: %w", aggregate.ID(), err)
	}

	if err := uow.Commit(ctx); err != nil {
		return AdvanceOrderResult{}, err
	}

	h.afterCommit(ctx, transition, aggregate, true, ordercache.ListKey, ordercache.OrderKey(aggregate.ID()))
	return AdvanceOrderResult{Deleted: true, Message: DeliveredMessage}, nil
}

func (h AdvanceOrderCommandHandler) afterCommit(
	ctx context.Context,
	transition order.Transition,
	aggregate *order.Order,
	deleted bool,
	keys ...string,
) {
	_ = h.invalidator.Invalidate(ctx, keys...)

	if h.recorder != nil {
		h.recorder.RecordTransition(transition.From.String(), transition.To.String())
	}

	h.logger.InfoContext(ctx, "order advanced",
		"order_id", aggregate.ID(),
		"from", transition.From.String(),
		"to", transition.To.String(),
		"deleted", deleted)

	publish(ctx, h.publisher, h.logger, order.NewChangedEvent(aggregate, deleted, time.Now()))
}
