package commands_test

import (
	"errors"
	"testing"
	"time"

	"orders/internal/core/application/ordercache"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedOrder(t *testing.T, id int64, status order.Status) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(id, "Juan Pérez", status, time.Now(), time.Now(), nil)
	require.NoError(t, err)
	return o
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand("Juan Pérez", validItems())
	require.NoError(t, err)
	created := storedOrder(t, 11, order.Initiated)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	invalidator := new(MockInvalidator)
	publisher := new(MockPublisher)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.MatchedBy(func(o *order.Order) bool {
			return o.Status() == order.Initiated && len(o.Items()) == 2
		})).Return(int64(11), nil).Once(),
		repo.On("Get", ctx, int64(11)).Return(created, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		invalidator.On("Invalidate", ctx, []string{ordercache.ListKey}).Return(nil).Once(),
		publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []order.ChangedEvent) bool {
			return len(events) == 1 && events[0].OrderID == 11 && !events[0].Deleted
		})).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, invalidator, publisher, logger.Discard())
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Same(t, created, result)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	invalidator.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockOrderUoWFactory)
	h := commands.NewCreateOrderCommandHandler(factory, new(MockInvalidator), new(MockPublisher), logger.Discard())

	_, err := h.Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCreateOrderCommand("Juan", validItems())

	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateOrderCommandHandler(factory, new(MockInvalidator), new(MockPublisher), logger.Discard())
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_AddErrorDoesNotInvalidate(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCreateOrderCommand("Juan", validItems())

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	invalidator := new(MockInvalidator)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(int64(0), errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, invalidator, new(MockPublisher), logger.Discard())
	_, err := h.Handle(ctx, cmd)

	require.ErrorContains(t, err, "add error")
	uow.AssertExpectations(t)
	invalidator.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_CommitErrorDoesNotInvalidate(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCreateOrderCommand("Juan", validItems())

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	invalidator := new(MockInvalidator)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(int64(3), nil).Once(),
		repo.On("Get", ctx, int64(3)).Return(storedOrder(t, 3, order.Initiated), nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, invalidator, new(MockPublisher), logger.Discard())
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "commit error")
	invalidator.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_SideEffectFailuresAreNotFatal(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewCreateOrderCommand("Juan", nil)
	created := storedOrder(t, 5, order.Initiated)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	invalidator := new(MockInvalidator)
	publisher := new(MockPublisher)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	repo.On("Add", ctx, mock.Anything).Return(int64(5), nil)
	repo.On("Get", ctx, int64(5)).Return(created, nil)
	invalidator.On("Invalidate", ctx, mock.Anything).Return(errors.New("redis down"))
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("kafka down"))

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	h := commands.NewCreateOrderCommandHandler(factory, invalidator, publisher, logger.Discard())
	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(5), result.ID())
}
