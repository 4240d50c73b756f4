package commands_test

import (
	"context"
	"testing"
	"time"

	"aqualink/internal/core/application/usecases/commands"
	"aqualink/internal/core/domain/model/coverage"
	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/core/domain/model/quote"
	"aqualink/internal/core/ports"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockQuoteRequestRepository struct{ mock.Mock }

func (m *MockQuoteRequestRepository) Add(ctx context.Context, r *quote.Request) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockQuoteRequestRepository) Update(ctx context.Context, r *quote.Request) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockQuoteRequestRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*quote.Request, error) {
	args := m.Called(ctx, orderID)
	r, _ := args.Get(0).(*quote.Request)
	return r, args.Error(1)
}

func (m *MockQuoteRequestRepository) GetByOrderIDForUpdate(ctx context.Context, orderID kernel.UUID) (*quote.Request, error) {
	args := m.Called(ctx, orderID)
	r, _ := args.Get(0).(*quote.Request)
	return r, args.Error(1)
}

func (m *MockQuoteRequestRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*quote.Request, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*quote.Request)
	return r, args.Error(1)
}

func (m *MockQuoteRequestRepository) ExpireOverdue(ctx context.Context, at time.Time, limit int) (int64, error) {
	args := m.Called(ctx, at, limit)
	return args.Get(0).(int64), args.Error(1)
}

type MockQuoteRepository struct{ mock.Mock }

func (m *MockQuoteRepository) Add(ctx context.Context, q *quote.Quote) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuoteRepository) UpdateAll(ctx context.Context, quotes []*quote.Quote) error {
	return m.Called(ctx, quotes).Error(0)
}

func (m *MockQuoteRepository) Get(ctx context.Context, id kernel.UUID) (*quote.Quote, error) {
	args := m.Called(ctx, id)
	q, _ := args.Get(0).(*quote.Quote)
	return q, args.Error(1)
}

func (m *MockQuoteRepository) ExistsForProvider(ctx context.Context, requestID, providerID kernel.UUID) (bool, error) {
	args := m.Called(ctx, requestID, providerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuoteRepository) GetAllByRequestForUpdate(ctx context.Context, requestID kernel.UUID) ([]*quote.Quote, error) {
	args := m.Called(ctx, requestID)
	quotes, _ := args.Get(0).([]*quote.Quote)
	return quotes, args.Error(1)
}

func (m *MockQuoteRepository) ExpireOverdue(ctx context.Context, at time.Time, limit int) (int64, error) {
	args := m.Called(ctx, at, limit)
	return args.Get(0).(int64), args.Error(1)
}

type MockCoverageRepository struct{ mock.Mock }

func (m *MockCoverageRepository) Save(ctx context.Context, c *coverage.Coverage) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCoverageRepository) Get(ctx context.Context, providerID kernel.UUID) (*coverage.Coverage, error) {
	args := m.Called(ctx, providerID)
	c, _ := args.Get(0).(*coverage.Coverage)
	return c, args.Error(1)
}

func (m *MockCoverageRepository) GetForUpdate(ctx context.Context, providerID kernel.UUID) (*coverage.Coverage, error) {
	args := m.Called(ctx, providerID)
	c, _ := args.Get(0).(*coverage.Coverage)
	return c, args.Error(1)
}

type MockBiddingUoW struct {
	mock.Mock
	orders   *MockOrderRepository
	requests *MockQuoteRequestRepository
	quotes   *MockQuoteRepository
}

func newMockBiddingUoW() *MockBiddingUoW {
	return &MockBiddingUoW{
		orders:   new(MockOrderRepository),
		requests: new(MockQuoteRequestRepository),
		quotes:   new(MockQuoteRepository),
	}
}

func (m *MockBiddingUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockBiddingUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockBiddingUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockBiddingUoW) OrderRepository() ports.OrderRepository {
	return m.orders
}

func (m *MockBiddingUoW) QuoteRequestRepository() ports.QuoteRequestRepository {
	return m.requests
}

func (m *MockBiddingUoW) QuoteRepository() ports.QuoteRepository {
	return m.quotes
}

func (m *MockBiddingUoW) AssertAll(t *testing.T) {
	t.Helper()
	m.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.requests.AssertExpectations(t)
	m.quotes.AssertExpectations(t)
}

// expectCommitted sets up Begin, Commit and the deferred Rollback.
func (m *MockBiddingUoW) expectCommitted() {
	m.On("Begin", mock.Anything).Return(nil).Once()
	m.On("Commit", mock.Anything).Return(nil).Once()
	m.On("Rollback", mock.Anything).Return(nil).Maybe()
}

// expectRolledBack sets up Begin and the deferred Rollback, with no Commit.
func (m *MockBiddingUoW) expectRolledBack() {
	m.On("Begin", mock.Anything).Return(nil).Once()
	m.On("Rollback", mock.Anything).Return(nil).Once()
}

type MockBiddingUoWFactory struct {
	uow commands.BiddingUoW
}

func (f MockBiddingUoWFactory) Create() commands.BiddingUoW {
	return f.uow
}

type MockCoverageUoW struct {
	mock.Mock
	repo *MockCoverageRepository
}

func (m *MockCoverageUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCoverageUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCoverageUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCoverageUoW) CoverageRepository() ports.CoverageRepository {
	return m.repo
}

type MockCoverageUoWFactory struct {
	uow commands.CoverageUoW
}

func (f MockCoverageUoWFactory) Create() commands.CoverageUoW {
	return f.uow
}

type MockProductCatalog struct{ mock.Mock }

func (m *MockProductCatalog) FindProducts(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]ports.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).(map[kernel.UUID]ports.Product)
	return products, args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) FetchBatch(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	messages, _ := args.Get(0).([]ports.OutboxMessage)
	return messages, args.Error(1)
}

func (m *MockOutboxRepository) MarkProcessed(ctx context.Context, ids []kernel.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, ids []kernel.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

type MockMessagePublisher struct{ mock.Mock }

func (m *MockMessagePublisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func mustAddress(t *testing.T) kernel.Address {
	t.Helper()
	addr, err := kernel.NewAddress("", "Beach Road", "Gampaha", "Negombo")
	require.NoError(t, err)
	return addr
}

// pendingOrder returns a DELIVERY_PENDING order with one item sold by seller.
func pendingOrder(t *testing.T, buyer, seller kernel.UUID) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), seller, 1, decimal.MustParse("1000"))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), buyer, []order.Item{item}, mustAddress(t), now.Add(-time.Hour))
	require.NoError(t, err)
	return o
}

func openRequest(t *testing.T, o *order.Order) *quote.Request {
	t.Helper()
	r, err := quote.NewRequest(kernel.NewUUID(), o.ID(), now.Add(-time.Hour), now.Add(72*time.Hour))
	require.NoError(t, err)
	return r
}

func pendingQuote(t *testing.T, r *quote.Request, provider kernel.UUID, validity time.Duration) *quote.Quote {
	t.Helper()
	q, err := quote.NewQuote(kernel.NewUUID(), r.ID(), provider, decimal.MustParse("300"),
		now.Add(24*time.Hour), "", validity, now.Add(-time.Minute))
	require.NoError(t, err)
	return q
}
