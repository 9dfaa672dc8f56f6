package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	postgres_adapter "orders/internal/adapters/out/postgres"
	"orders/internal/adapters/out/postgres/pgtest"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises transactions and row locking against
// a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	factory  ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(database.Gorm)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder() *order.Order {
	item, err := order.NewItem("Refresco", 2, kernel.MustNewPrice("5.75"))
	suite.Require().NoError(err)
	o, err := order.NewOrder("Juan Pérez", []order.Item{item})
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction, "Rollback after commit is a no-op")
	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersists() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	id, err := uow.OrderRepository().Add(ctx, suite.newOrder())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.Commit(ctx))

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, id)
	suite.Require().NoError(err)
	suite.Equal(order.Initiated, stored.Status())
	suite.Len(stored.Items(), 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscards() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	id, err := uow.OrderRepository().Add(ctx, suite.newOrder())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.Rollback(ctx))

	_, err = suite.factory.Create().OrderRepository().Get(ctx, id)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CascadeIsAtomic() {
	ctx := context.Background()
	seed := suite.factory.Create()
	id, err := seed.OrderRepository().Add(ctx, suite.newOrder())
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	repo := uow.OrderRepository()
	suite.Require().NoError(repo.UpdateStatus(ctx, id, order.Delivered))
	suite.Require().NoError(repo.DeleteItemsByOrder(ctx, id))
	suite.Require().NoError(uow.Rollback(ctx))

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, id)
	suite.Require().NoError(err)
	suite.Equal(order.Initiated, stored.Status(), "Status change must roll back with the cascade")
	suite.Len(stored.Items(), 1)
}

// TestUnitOfWork_GetForUpdateSerializesTerminalAdvance runs two transactions that
// both try to deliver the same order. The second one waits on the row lock and
// must observe the order as gone.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_GetForUpdateSerializesTerminalAdvance() {
	ctx := context.Background()
	id, err := suite.factory.Create().OrderRepository().Add(ctx, suite.newOrder())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().OrderRepository().UpdateStatus(ctx, id, order.Sent))

	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	_, err = first.OrderRepository().GetForUpdate(ctx, id)
	suite.Require().NoError(err)

	var (
		wg        sync.WaitGroup
		secondErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		second := suite.factory.Create()
		if beginErr := second.Begin(ctx); beginErr != nil {
			secondErr = beginErr
			return
		}
		defer func() { _ = second.Rollback(ctx) }()
		_, secondErr = second.OrderRepository().GetForUpdate(ctx, id)
	}()

	time.Sleep(200 * time.Millisecond)
	repo := first.OrderRepository()
	suite.Require().NoError(repo.UpdateStatus(ctx, id, order.Delivered))
	suite.Require().NoError(repo.DeleteItemsByOrder(ctx, id))
	suite.Require().NoError(repo.Delete(ctx, id))
	suite.Require().NoError(first.Commit(ctx))

	wg.Wait()
	suite.Require().ErrorIs(secondErr, errs.ErrObjectNotFound)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
