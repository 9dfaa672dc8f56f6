package cmd

import (
	"log/slog"

	"orders/internal/adapters/out/memory"
	"orders/internal/adapters/out/postgres"
	"orders/internal/adapters/out/postgres/orderquery"
	"orders/internal/core/application/ordercache"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/ports"
	"orders/internal/jobs"
	"orders/internal/pkg/metrics"

	"gorm.io/gorm"
)

// Adapters carries the outbound infrastructure opened by main. A nil field
// selects the in-memory adapter for that concern.
type Adapters struct {
	GormDB    *gorm.DB
	Cache     ports.Cache
	Publisher ports.OrderEventPublisher
}

type CompositionRoot struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	uowFactory  ports.UnitOfWorkFactory
	reader      ports.OrderReader
	cache       ports.Cache
	publisher   ports.OrderEventPublisher
	invalidator *ordercache.Invalidator
}

func NewCompositionRoot(cfg Config, adapters Adapters, logger *slog.Logger, m *metrics.Metrics) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
		cache:     adapters.Cache,
		publisher: adapters.Publisher,
	}

	if adapters.GormDB != nil {
		sqlDB, err := adapters.GormDB.DB()
		if err != nil {
			return nil, err
		}
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(adapters.GormDB)
		c.reader = orderquery.NewReader(sqlDB)
	} else {
		store := memory.NewStore()
		c.uowFactory = store
		c.reader = store
		logger.Warn("DB_HOST is not set, orders are kept in memory")
	}

	if c.cache == nil {
		c.cache = memory.NewCache()
		logger.Warn("REDIS_ADDR is not set, using an in-process cache")
	}
	if c.publisher == nil {
		c.publisher = memory.NewEventLog(logger)
	}

	c.invalidator = ordercache.NewInvalidator(c.cache, logger, ordercache.WithMetrics(m))
	return c, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.invalidator, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	return commands.NewAdvanceOrderCommandHandler(c.orderUoWFactory(), c.invalidator, c.publisher, c.metrics, c.logger)
}

func (c *CompositionRoot) CreatePurgeDeliveredOrdersCommandHandler() commands.PurgeDeliveredOrdersCommandHandler {
	return commands.NewPurgeDeliveredOrdersCommandHandler(c.orderUoWFactory(), c.invalidator, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateGetPendingOrdersQueryHandler() queries.GetPendingOrdersQueryHandler {
	return queries.NewGetPendingOrdersQueryHandler(c.reader, c.cache, c.cfg.ListCacheTTL, c.logger, c.metrics)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.invalidator, c.CreatePurgeDeliveredOrdersCommandHandler(), c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
