package queries_test

import (
	"context"
	"testing"
	"time"

	"aqualink/internal/adapters/out/postgres"
	"aqualink/internal/adapters/out/postgres/directoryrepo"
	"aqualink/internal/adapters/out/postgres/pgtest"
	"aqualink/internal/core/application/usecases/queries"
	"aqualink/internal/core/domain/model/coverage"
	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/core/domain/model/quote"
	"aqualink/internal/core/domain/services"
	"aqualink/internal/pkg/errs"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/suite"
)

type QueriesTestSuite struct {
	suite.Suite
	ctx      context.Context
	database *pgtest.Database
	factory  *postgres.GormUnitOfWorkFactory
	now      time.Time
	clock    queries.Clock
}

func (suite *QueriesTestSuite) SetupSuite() {
	suite.ctx = context.Background()

	database, err := pgtest.Start(suite.ctx)
	suite.Require().NoError(err)
	suite.database = database
	suite.factory = postgres.NewGormUnitOfWorkFactory(database.DB)
}

func (suite *QueriesTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.now = time.Now().UTC().Truncate(time.Microsecond)
	suite.clock = func() time.Time { return suite.now }
}

func (suite *QueriesTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(suite.ctx))
	}
}

func TestQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesTestSuite))
}

type seededOrder struct {
	order   *order.Order
	request *quote.Request
	seller  kernel.UUID
}

// seedOrder stores a DELIVERY_PENDING order to district/town with one line of the
// seller, plus an OPEN request with the given deadline.
func (suite *QueriesTestSuite) seedOrder(buyer, seller kernel.UUID, district, town string, createdAt time.Time, ttl time.Duration) seededOrder {
	item, err := order.NewItem(kernel.NewUUID(), seller, 2, decimal.MustParse("450"))
	suite.Require().NoError(err)
	other, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), 1, decimal.MustParse("100"))
	suite.Require().NoError(err)
	addr, err := kernel.NewAddress("Apt 4", "Main Street", district, town)
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), buyer, []order.Item{item, other}, addr, createdAt)
	suite.Require().NoError(err)
	r, err := quote.NewRequest(kernel.NewUUID(), o.ID(), createdAt, createdAt.Add(ttl))
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(suite.ctx))
	suite.Require().NoError(uow.OrderRepository().Add(suite.ctx, o))
	suite.Require().NoError(uow.QuoteRequestRepository().Add(suite.ctx, r))
	suite.Require().NoError(uow.Commit(suite.ctx))
	return seededOrder{order: o, request: r, seller: seller}
}

func (suite *QueriesTestSuite) seedCoverage(provider kernel.UUID, available bool, areas ...kernel.Area) {
	c, err := coverage.NewCoverage(provider, suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(c.ReplaceAreas(areas, suite.now))
	c.SetAvailability(available, suite.now)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(suite.ctx))
	suite.Require().NoError(uow.CoverageRepository().Save(suite.ctx, c))
	suite.Require().NoError(uow.Commit(suite.ctx))
}

func (suite *QueriesTestSuite) submitQuote(r *quote.Request, provider kernel.UUID, createdAt time.Time, validity time.Duration) *quote.Quote {
	q, err := quote.NewQuote(kernel.NewUUID(), r.ID(), provider, decimal.MustParse("350"),
		suite.now.Add(48*time.Hour), "fragile", validity, createdAt)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(suite.ctx))
	suite.Require().NoError(uow.QuoteRepository().Add(suite.ctx, q))
	suite.Require().NoError(uow.Commit(suite.ctx))
	return q
}

// accept settles the bidding of s in favour of quoteID as the command does.
func (suite *QueriesTestSuite) accept(s seededOrder, quoteID kernel.UUID) {
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(suite.ctx))
	defer func() { _ = uow.Rollback(suite.ctx) }()

	req, err := uow.QuoteRequestRepository().GetForUpdate(suite.ctx, s.request.ID())
	suite.Require().NoError(err)
	quotes, err := uow.QuoteRepository().GetAllByRequestForUpdate(suite.ctx, req.ID())
	suite.Require().NoError(err)
	o, err := uow.OrderRepository().GetForUpdate(suite.ctx, s.order.ID())
	suite.Require().NoError(err)

	_, err = services.NewQuoteAcceptor().Accept(o, req, quotes, quoteID, o.BuyerID(), suite.now)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.QuoteRepository().UpdateAll(suite.ctx, quotes))
	suite.Require().NoError(uow.QuoteRequestRepository().Update(suite.ctx, req))
	suite.Require().NoError(uow.OrderRepository().Update(suite.ctx, o))
	suite.Require().NoError(uow.Commit(suite.ctx))
}

func (suite *QueriesTestSuite) area(district, town string) kernel.Area {
	a, err := kernel.NewArea(district, town)
	suite.Require().NoError(err)
	return a
}

func (suite *QueriesTestSuite) listOpen(provider kernel.UUID) []queries.ListOpenRequestsQueryResponse {
	handler := queries.NewListOpenRequestsQueryHandler(suite.database.DB,
		directoryrepo.NewGormDirectory(suite.database.DB), services.NewQuoteMatcher(), suite.clock)
	query, err := queries.NewListOpenRequestsQuery(provider)
	suite.Require().NoError(err)
	result, err := handler.Handle(suite.ctx, query)
	suite.Require().NoError(err)
	return result
}

func (suite *QueriesTestSuite) TestListOpenRequests_MatchesCoverage() {
	buyer := kernel.NewUUID()
	suite.Require().NoError(suite.database.DB.Create(&directoryrepo.CustomerDTO{
		ID: buyer.Bytes(), Name: "Nimal Perera", Phone: "+94770000000",
	}).Error)

	provider := kernel.NewUUID()
	suite.seedCoverage(provider, true, suite.area("Gampaha", "Negombo"), suite.area("Colombo", "Dehiwala"))

	match1 := suite.seedOrder(buyer, kernel.NewUUID(), "Gampaha", "Negombo", suite.now.Add(-time.Hour), 72*time.Hour)
	match2 := suite.seedOrder(kernel.NewUUID(), kernel.NewUUID(), "Colombo", "Dehiwala", suite.now.Add(-time.Hour), 72*time.Hour)
	suite.seedOrder(buyer, kernel.NewUUID(), "Kandy", "Peradeniya", suite.now.Add(-time.Hour), 72*time.Hour)

	result := suite.listOpen(provider)

	suite.Require().Len(result, 2)
	suite.True(result[0].RequestID.Less(result[1].RequestID))

	byOrder := map[kernel.UUID]queries.ListOpenRequestsQueryResponse{}
	for _, r := range result {
		byOrder[r.OrderID] = r
	}
	first := byOrder[match1.order.ID()]
	suite.Equal("Nimal Perera", first.CustomerName)
	suite.Equal("+94770000000", first.CustomerPhone)
	suite.Equal("Negombo", first.Address.Town())
	suite.Equal(3, first.ItemCount)
	suite.Equal("1000", first.Total.Trim(0).String())
	suite.WithinDuration(match1.request.Deadline(), first.Deadline, time.Microsecond)

	// Unknown buyer leaves the contact blank.
	second := byOrder[match2.order.ID()]
	suite.Empty(second.CustomerName)
	suite.Empty(second.CustomerPhone)
}

func (suite *QueriesTestSuite) TestListOpenRequests_UnavailableOrUnknownProviderSeesNothing() {
	suite.seedOrder(kernel.NewUUID(), kernel.NewUUID(), "Gampaha", "Negombo", suite.now, 72*time.Hour)

	unavailable := kernel.NewUUID()
	suite.seedCoverage(unavailable, false, suite.area("Gampaha", "Negombo"))

	suite.Empty(suite.listOpen(unavailable))
	suite.Empty(suite.listOpen(kernel.NewUUID()))
}

func (suite *QueriesTestSuite) TestListOpenRequests_ExcludesQuotedExpiredAndClosed() {
	provider := kernel.NewUUID()
	suite.seedCoverage(provider, true, suite.area("Gampaha", "Negombo"))

	quoted := suite.seedOrder(kernel.NewUUID(), kernel.NewUUID(), "Gampaha", "Negombo", suite.now, 72*time.Hour)
	suite.submitQuote(quoted.request, provider, suite.now, time.Hour)

	// Past its deadline but not yet swept.
	suite.seedOrder(kernel.NewUUID(), kernel.NewUUID(), "Gampaha", "Negombo", suite.now.Add(-4*time.Hour), time.Hour)

	won := suite.seedOrder(kernel.NewUUID(), kernel.NewUUID(), "Gampaha", "Negombo", suite.now, 72*time.Hour)
	winner := suite.submitQuote(won.request, kernel.NewUUID(), suite.now, time.Hour)
	suite.accept(won, winner.ID())

	open := suite.seedOrder(kernel.NewUUID(), kernel.NewUUID(), "Gampaha", "Negombo", suite.now, 72*time.Hour)

	result := suite.listOpen(provider)
	suite.Require().Len(result, 1)
	suite.Equal(open.request.ID(), result[0].RequestID)
}

func (suite *QueriesTestSuite) TestListOrderQuotes_BuyerOnlyAndEffectiveStatus() {
	buyer := kernel.NewUUID()
	s := suite.seedOrder(buyer, kernel.NewUUID(), "Gampaha", "Negombo", suite.now.Add(-3*time.Hour), 72*time.Hour)
	lapsed := suite.submitQuote(s.request, kernel.NewUUID(), suite.now.Add(-2*time.Hour), time.Hour)
	fresh := suite.submitQuote(s.request, kernel.NewUUID(), suite.now.Add(-time.Minute), 48*time.Hour)

	handler := queries.NewListOrderQuotesQueryHandler(suite.database.DB, suite.clock)

	query, err := queries.NewListOrderQuotesQuery(s.order.ID(), buyer)
	suite.Require().NoError(err)
	result, err := handler.Handle(suite.ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal(lapsed.ID(), result[0].ID)
	suite.Equal(quote.Expired, result[0].Status)
	suite.Equal(fresh.ID(), result[1].ID)
	suite.Equal(quote.Pending, result[1].Status)
	suite.Equal("fragile", result[1].Note)

	query, err = queries.NewListOrderQuotesQuery(s.order.ID(), kernel.NewUUID())
	suite.Require().NoError(err)
	_, err = handler.Handle(suite.ctx, query)
	suite.ErrorIs(err, errs.ErrUnauthorized)

	query, err = queries.NewListOrderQuotesQuery(kernel.NewUUID(), buyer)
	suite.Require().NoError(err)
	_, err = handler.Handle(suite.ctx, query)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesTestSuite) TestGetOrder_Access() {
	buyer, seller, provider := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	s := suite.seedOrder(buyer, seller, "Gampaha", "Negombo", suite.now, 72*time.Hour)
	loser := kernel.NewUUID()
	winner := suite.submitQuote(s.request, provider, suite.now, 48*time.Hour)
	suite.submitQuote(s.request, loser, suite.now, 48*time.Hour)
	suite.accept(s, winner.ID())

	handler := queries.NewGetOrderQueryHandler(suite.database.DB, suite.clock)
	get := func(actor kernel.UUID) (queries.GetOrderQueryResponse, error) {
		query, err := queries.NewGetOrderQuery(s.order.ID(), actor)
		suite.Require().NoError(err)
		return handler.Handle(suite.ctx, query)
	}

	resp, err := get(buyer)
	suite.Require().NoError(err)
	suite.Equal(order.OrderPending, resp.Order.Status)
	suite.Require().NotNil(resp.Order.AcceptedQuoteID)
	suite.Equal(winner.ID(), *resp.Order.AcceptedQuoteID)
	suite.Require().NotNil(resp.AcceptedQuote)
	suite.Equal(quote.Accepted, resp.AcceptedQuote.Status)
	suite.Len(resp.Order.Items, 2)

	resp, err = get(seller)
	suite.Require().NoError(err)
	suite.True(resp.Order.Items[0].Mine)
	suite.False(resp.Order.Items[1].Mine)

	_, err = get(provider)
	suite.Require().NoError(err)

	_, err = get(loser)
	suite.ErrorIs(err, errs.ErrUnauthorized)

	query, err := queries.NewGetOrderQuery(kernel.NewUUID(), buyer)
	suite.Require().NoError(err)
	_, err = handler.Handle(suite.ctx, query)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesTestSuite) TestListSellerOrders_FiltersAndSorts() {
	seller := kernel.NewUUID()
	older := suite.seedOrder(kernel.NewUUID(), seller, "Gampaha", "Negombo", suite.now.Add(-48*time.Hour), 72*time.Hour)
	newer := suite.seedOrder(kernel.NewUUID(), seller, "Gampaha", "Negombo", suite.now.Add(-time.Hour), 72*time.Hour)
	suite.seedOrder(kernel.NewUUID(), kernel.NewUUID(), "Gampaha", "Negombo", suite.now, 72*time.Hour)

	handler := queries.NewListSellerOrdersQueryHandler(suite.database.DB)

	query, err := queries.NewListSellerOrdersQuery(seller, queries.OrderFilter{})
	suite.Require().NoError(err)
	result, err := handler.Handle(suite.ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal(newer.order.ID(), result[0].ID)
	suite.Equal(older.order.ID(), result[1].ID)
	suite.Len(result[0].Items, 2)
	suite.True(result[0].Items[0].Mine)
	suite.False(result[0].Items[1].Mine)

	from := suite.now.Add(-2 * time.Hour)
	query, err = queries.NewListSellerOrdersQuery(seller, queries.OrderFilter{From: &from})
	suite.Require().NoError(err)
	result, err = handler.Handle(suite.ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(newer.order.ID(), result[0].ID)

	shipped := order.Shipped
	query, err = queries.NewListSellerOrdersQuery(seller, queries.OrderFilter{Status: &shipped})
	suite.Require().NoError(err)
	result, err = handler.Handle(suite.ctx, query)
	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *QueriesTestSuite) TestListProviderOrders_OnlyAcceptedQuotesOfProvider() {
	provider := kernel.NewUUID()
	won := suite.seedOrder(kernel.NewUUID(), kernel.NewUUID(), "Gampaha", "Negombo", suite.now, 72*time.Hour)
	winner := suite.submitQuote(won.request, provider, suite.now, 48*time.Hour)
	suite.accept(won, winner.ID())

	lost := suite.seedOrder(kernel.NewUUID(), kernel.NewUUID(), "Gampaha", "Negombo", suite.now, 72*time.Hour)
	suite.submitQuote(lost.request, provider, suite.now, 48*time.Hour)
	other := suite.submitQuote(lost.request, kernel.NewUUID(), suite.now, 48*time.Hour)
	suite.accept(lost, other.ID())

	handler := queries.NewListProviderOrdersQueryHandler(suite.database.DB, suite.clock)
	query, err := queries.NewListProviderOrdersQuery(provider, queries.OrderFilter{})
	suite.Require().NoError(err)

	result, err := handler.Handle(suite.ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(won.order.ID(), result[0].Order.ID)
	suite.Equal(winner.ID(), result[0].QuoteID)
	suite.Equal("350", result[0].Fee.Trim(0).String())
	suite.Equal(winner.DeliveryDate(), result[0].DeliveryDate.UTC())
}

func (suite *QueriesTestSuite) TestGetCoverage() {
	provider := kernel.NewUUID()
	handler := queries.NewGetCoverageQueryHandler(suite.database.DB)

	query, err := queries.NewGetCoverageQuery(provider)
	suite.Require().NoError(err)
	_, err = handler.Handle(suite.ctx, query)
	suite.ErrorIs(err, errs.ErrObjectNotFound)

	suite.seedCoverage(provider, true, suite.area("Kandy", "Peradeniya"), suite.area("Colombo", "Dehiwala"))

	resp, err := handler.Handle(suite.ctx, query)
	suite.Require().NoError(err)
	suite.True(resp.Available)
	suite.Require().Len(resp.Areas, 2)
	suite.Equal("Colombo", resp.Areas[0].District())
	suite.Equal("Kandy", resp.Areas[1].District())
}
