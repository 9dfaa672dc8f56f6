package orderquery_test

import (
	"context"
	"testing"

	"orders/internal/adapters/out/postgres/orderquery"
	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/adapters/out/postgres/pgtest"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type ReaderIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	reader   *orderquery.Reader
	repo     *orderrepo.GormOrderRepository
}

func (suite *ReaderIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.reader = orderquery.NewReader(database.SQL)
	suite.repo = orderrepo.NewGormOrderRepository(database.Gorm)
}

func (suite *ReaderIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *ReaderIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *ReaderIntegrationTestSuite) TestFindNonDelivered_EmptyDatabase() {
	orders, err := suite.reader.FindNonDelivered(context.Background())

	suite.Require().NoError(err)
	suite.NotNil(orders)
	suite.Empty(orders)
}

func (suite *ReaderIntegrationTestSuite) TestFindNonDelivered_FiltersDelivered() {
	ctx := context.Background()
	initiated := suite.add("Ana", 2)
	sent := suite.add("Luis", 1)
	delivered := suite.add("Marta", 3)
	suite.Require().NoError(suite.repo.UpdateStatus(ctx, sent, order.Sent))
	suite.Require().NoError(suite.repo.UpdateStatus(ctx, delivered, order.Delivered))

	orders, err := suite.reader.FindNonDelivered(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(orders, 2)
	suite.Equal(initiated, orders[0].ID())
	suite.Equal(order.Initiated, orders[0].Status())
	suite.Len(orders[0].Items(), 2)
	suite.Equal(sent, orders[1].ID())
	suite.Equal(order.Sent, orders[1].Status())
	suite.Len(orders[1].Items(), 1)
	for _, o := range orders {
		suite.NotEqual(order.Delivered, o.Status())
	}
}

func (suite *ReaderIntegrationTestSuite) TestFindNonDelivered_IncludesOrdersWithoutItems() {
	id := suite.add("Ana", 0)

	orders, err := suite.reader.FindNonDelivered(context.Background())

	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Equal(id, orders[0].ID())
	suite.Empty(orders[0].Items())
}

func (suite *ReaderIntegrationTestSuite) TestGet() {
	id := suite.add("Ana", 2)

	o, err := suite.reader.Get(context.Background(), id)

	suite.Require().NoError(err)
	suite.Equal("Ana", o.ClientName())
	suite.Require().Len(o.Items(), 2)
	suite.Less(o.Items()[0].ID(), o.Items()[1].ID())
}

func (suite *ReaderIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.reader.Get(context.Background(), 99)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ReaderIntegrationTestSuite) TestGet_CancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.reader.Get(ctx, 1)

	suite.Require().Error(err)
}

func (suite *ReaderIntegrationTestSuite) add(clientName string, items int) int64 {
	lines := make([]order.Item, 0, items)
	for i := range items {
		item, err := order.NewItem("Item", i+1, kernel.MustNewPrice("1.25"))
		suite.Require().NoError(err)
		lines = append(lines, item)
	}
	o, err := order.NewOrder(clientName, lines)
	suite.Require().NoError(err)

	id, err := suite.repo.Add(context.Background(), o)
	suite.Require().NoError(err)
	return id
}

func TestReaderIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ReaderIntegrationTestSuite))
}
