package commands_test

import (
	"context"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) (int64, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) FindDeliveredIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockOrderRepository) DeleteItemsByOrder(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockInvalidator struct{ mock.Mock }

func (m *MockInvalidator) Invalidate(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, events ...order.ChangedEvent) error {
	return m.Called(ctx, events).Error(0)
}

type MockRecorder struct{ mock.Mock }

func (m *MockRecorder) RecordTransition(from, to string) {
	m.Called(from, to)
}
