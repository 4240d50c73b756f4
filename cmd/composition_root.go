package cmd

import (
	"errors"
	"log/slog"
	"time"

	httpadapter "aqualink/internal/adapters/in/http"
	"aqualink/internal/adapters/out/kafka"
	"aqualink/internal/adapters/out/postgres"
	"aqualink/internal/adapters/out/postgres/directoryrepo"
	"aqualink/internal/adapters/out/postgres/outboxrepo"
	"aqualink/internal/core/application/usecases/commands"
	"aqualink/internal/core/application/usecases/queries"
	"aqualink/internal/core/domain/services"
	"aqualink/internal/core/ports"
	"aqualink/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	directory  *directoryrepo.GormDirectory
	publisher  ports.MessagePublisher
	redis      *redis.Client
	logger     *slog.Logger
	clock      func() time.Time
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	root := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		directory:  directoryrepo.NewGormDirectory(gormDB),
		logger:     logger,
		clock:      func() time.Time { return time.Now().UTC() },
	}

	if len(config.KafkaBrokers) > 0 {
		root.publisher = kafka.NewPublisher(kafka.Config{
			Brokers: config.KafkaBrokers,
			Topic:   config.KafkaOrderChangedTopic,
		})
	} else {
		root.publisher = kafka.NewLogPublisher(logger)
	}

	if config.RedisAddr != "" {
		root.redis = redis.NewClient(&redis.Options{Addr: config.RedisAddr})
	}

	return root
}

func (c *CompositionRoot) biddingUoWFactory() commands.BiddingUoWFactory {
	return FuncBiddingUoWFactory(func() commands.BiddingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) coverageUoWFactory() commands.CoverageUoWFactory {
	return FuncCoverageUoWFactory(func() commands.CoverageUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateDeliveryRequestCommandHandler() commands.CreateDeliveryRequestCommandHandler {
	return commands.NewCreateDeliveryRequestCommandHandler(
		c.biddingUoWFactory(), c.directory, c.config.QuoteRequestTTL(), c.clock)
}

func (c *CompositionRoot) CreateSubmitQuoteCommandHandler() commands.SubmitQuoteCommandHandler {
	return commands.NewSubmitQuoteCommandHandler(c.biddingUoWFactory(), c.config.QuoteValidity(), c.clock)
}

func (c *CompositionRoot) CreateAcceptQuoteCommandHandler() commands.AcceptQuoteCommandHandler {
	return commands.NewAcceptQuoteCommandHandler(c.biddingUoWFactory(), services.NewQuoteAcceptor(), c.clock)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.biddingUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.biddingUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateSetCoverageCommandHandler() commands.SetCoverageCommandHandler {
	return commands.NewSetCoverageCommandHandler(c.coverageUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateSetAvailabilityCommandHandler() commands.SetAvailabilityCommandHandler {
	return commands.NewSetAvailabilityCommandHandler(c.coverageUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateExpireStaleQuotesCommandHandler() commands.ExpireStaleQuotesCommandHandler {
	return commands.NewExpireStaleQuotesCommandHandler(c.biddingUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreatePublishOutboxEventsCommandHandler() commands.PublishOutboxEventsCommandHandler {
	return commands.NewPublishOutboxEventsCommandHandler(
		outboxrepo.NewGormOutboxRepository(c.gormDB), c.publisher, c.logger)
}

func (c *CompositionRoot) CreateListOpenRequestsQueryHandler() queries.ListOpenRequestsQueryHandler {
	return queries.NewListOpenRequestsQueryHandler(c.gormDB, c.directory, services.NewQuoteMatcher(), c.clock)
}

func (c *CompositionRoot) CreateListOrderQuotesQueryHandler() queries.ListOrderQuotesQueryHandler {
	return queries.NewListOrderQuotesQueryHandler(c.gormDB, c.clock)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB, c.clock)
}

func (c *CompositionRoot) CreateListSellerOrdersQueryHandler() queries.ListSellerOrdersQueryHandler {
	return queries.NewListSellerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListProviderOrdersQueryHandler() queries.ListProviderOrdersQueryHandler {
	return queries.NewListProviderOrdersQueryHandler(c.gormDB, c.clock)
}

func (c *CompositionRoot) CreateGetCoverageQueryHandler() queries.GetCoverageQueryHandler {
	return queries.NewGetCoverageQueryHandler(c.gormDB)
}

// Server wires every use case into the HTTP server.
func (c *CompositionRoot) Server() *httpadapter.Server {
	createDeliveryRequest := c.CreateCreateDeliveryRequestCommandHandler()
	submitQuote := c.CreateSubmitQuoteCommandHandler()
	acceptQuote := c.CreateAcceptQuoteCommandHandler()
	changeOrderStatus := c.CreateChangeOrderStatusCommandHandler()
	completeDelivery := c.CreateCompleteDeliveryCommandHandler()
	setCoverage := c.CreateSetCoverageCommandHandler()
	setAvailability := c.CreateSetAvailabilityCommandHandler()

	return httpadapter.NewServer(httpadapter.Handlers{
		CreateDeliveryRequest: &createDeliveryRequest,
		SubmitQuote:           &submitQuote,
		AcceptQuote:           &acceptQuote,
		ChangeOrderStatus:     &changeOrderStatus,
		CompleteDelivery:      &completeDelivery,
		SetCoverage:           &setCoverage,
		SetAvailability:       &setAvailability,

		ListOpenRequests:   c.CreateListOpenRequestsQueryHandler(),
		ListOrderQuotes:    c.CreateListOrderQuotesQueryHandler(),
		GetOrder:           c.CreateGetOrderQueryHandler(),
		ListSellerOrders:   c.CreateListSellerOrdersQueryHandler(),
		ListProviderOrders: c.CreateListProviderOrdersQueryHandler(),
		GetCoverage:        c.CreateGetCoverageQueryHandler(),
	}, c.clock, c.logger)
}

// RouterOptions returns the router settings. Redis is left nil when REDIS_ADDR is
// unset so that idempotency keys are not enforced.
func (c *CompositionRoot) RouterOptions(document []byte) httpadapter.RouterOptions {
	opts := httpadapter.RouterOptions{
		JWTSecret: []byte(c.config.JWTSecret),
		Document:  document,
		Logger:    c.logger,
	}
	if c.redis != nil {
		opts.Redis = c.redis
	}
	return opts
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	expire := c.CreateExpireStaleQuotesCommandHandler()
	relay := c.CreatePublishOutboxEventsCommandHandler()

	return jobs.NewJobManager(&expire, &relay, jobs.Schedules{
		ExpirySchedule:  c.config.ExpirySweepSchedule,
		ExpiryBatchSize: c.config.ExpiryBatchSize,
		RelaySchedule:   c.config.OutboxRelaySchedule,
		RelayBatchSize:  c.config.OutboxBatchSize,
	}, c.logger)
}

// Close releases the broker and cache connections.
func (c *CompositionRoot) Close() error {
	var closeErrs []error
	if p, ok := c.publisher.(*kafka.Publisher); ok {
		closeErrs = append(closeErrs, p.Close())
	}
	if c.redis != nil {
		closeErrs = append(closeErrs, c.redis.Close())
	}
	return errors.Join(closeErrs...)
}

type FuncBiddingUoWFactory func() commands.BiddingUoW

func (f FuncBiddingUoWFactory) Create() commands.BiddingUoW {
	return f()
}

type FuncCoverageUoWFactory func() commands.CoverageUoW

func (f FuncCoverageUoWFactory) Create() commands.CoverageUoW {
	return f()
}
