package cmd_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aqualink/cmd"
	httpadapter "aqualink/internal/adapters/in/http"
	"aqualink/internal/adapters/out/postgres/directoryrepo"
	"aqualink/internal/adapters/out/postgres/pgtest"
	"aqualink/internal/core/application/usecases/commands"
	"aqualink/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

const scenarioSecret = "scenario-secret"

type ScenarioTestSuite struct {
	suite.Suite
	ctx      context.Context
	database *pgtest.Database
	app      *cmd.CompositionRoot
	router   *echo.Echo
}

func TestScenarioTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ScenarioTestSuite))
}

func (s *ScenarioTestSuite) SetupSuite() {
	s.ctx = context.Background()

	database, err := pgtest.Start(s.ctx)
	s.Require().NoError(err)
	s.database = database

	cfg := cmd.Config{
		JWTSecret:            scenarioSecret,
		QuoteRequestTTLHours: 72,
		QuoteValidityHours:   48,
		ExpirySweepSchedule:  "0 * * * * *",
		ExpiryBatchSize:      500,
		OutboxRelaySchedule:  "*/5 * * * * *",
		OutboxBatchSize:      100,
		LogLevel:             "info",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.app = cmd.NewCompositionRoot(cfg, database.DB, logger)
	s.router = httpadapter.NewRouter(s.app.Server(), s.app.RouterOptions(nil))
}

func (s *ScenarioTestSuite) SetupTest() {
	s.Require().NoError(s.database.Truncate())
}

func (s *ScenarioTestSuite) TearDownSuite() {
	if s.app != nil {
		s.Require().NoError(s.app.Close())
	}
	if s.database != nil {
		s.Require().NoError(s.database.Terminate(s.ctx))
	}
}

type user struct {
	id   kernel.UUID
	role httpadapter.Role
}

func newUser(role httpadapter.Role) user {
	return user{id: kernel.NewUUID(), role: role}
}

func (s *ScenarioTestSuite) call(u user, method, path, body string, out any) int {
	signed, err := httpadapter.IssueToken([]byte(scenarioSecret), httpadapter.Actor{ID: u.id, Role: u.role},
		jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
	s.Require().NoError(err)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if out != nil {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func (s *ScenarioTestSuite) register(provider user, district, town string) {
	var cov httpadapter.CoverageDTO
	s.Require().Equal(http.StatusOK, s.call(provider, http.MethodPut, "/delivery/coverage-area",
		`{"areas": {"`+district+`": ["`+town+`"]}}`, &cov))
	s.Require().Equal(http.StatusOK, s.call(provider, http.MethodPut, "/delivery/availability",
		`{"available": true}`, &cov))
	s.Require().True(cov.Available)
}

func (s *ScenarioTestSuite) TestCheckoutToDelivery() {
	customer := newUser(httpadapter.RoleCustomer)
	seller := newUser(httpadapter.RoleSeller)
	provider := newUser(httpadapter.RoleDelivery)
	rival := newUser(httpadapter.RoleDelivery)
	elsewhere := newUser(httpadapter.RoleDelivery)

	productID := kernel.NewUUID()
	s.Require().NoError(s.database.DB.Create(&directoryrepo.ProductDTO{
		ID: productID.Bytes(), SellerID: seller.id.Bytes(), Name: "Water can 20L", Price: "500",
	}).Error)
	s.Require().NoError(s.database.DB.Create(&directoryrepo.CustomerDTO{
		ID: customer.id.Bytes(), Name: "Nimal Perera", Phone: "+94770000000",
	}).Error)

	s.register(provider, "Gampaha", "Negombo")
	s.register(rival, "Gampaha", "Negombo")
	s.register(elsewhere, "Kandy", "Kandy")

	// Checkout
	var created httpadapter.DeliveryRequestCreatedResponse
	s.Require().Equal(http.StatusCreated, s.call(customer, http.MethodPost, "/delivery-quotes/request", `{
		"items": [{"productId": "`+productID.String()+`", "quantity": 2}],
		"subtotal": "1000",
		"address": {"street": "Beach Road", "district": "Gampaha", "town": "Negombo"}
	}`, &created))
	orderID := created.OrderID.String()

	// Matching
	var open []httpadapter.OpenRequestDTO
	s.Require().Equal(http.StatusOK, s.call(provider, http.MethodGet, "/delivery-quotes/available", "", &open))
	s.Require().Len(open, 1)
	s.Equal(created.OrderID, open[0].OrderID)
	s.Equal("Nimal Perera", open[0].CustomerName)
	s.Equal(2, open[0].ItemCount)

	s.Require().Equal(http.StatusOK, s.call(elsewhere, http.MethodGet, "/delivery-quotes/available", "", &open))
	s.Empty(open)

	// Bidding
	var rivalQuote, quote httpadapter.QuoteDTO
	s.Require().Equal(http.StatusCreated, s.call(rival, http.MethodPost, "/delivery-quotes/create",
		`{"orderId": "`+orderID+`", "fee": "350", "deliveryDate": "2030-01-02"}`, &rivalQuote))
	s.Require().Equal(http.StatusCreated, s.call(provider, http.MethodPost, "/delivery-quotes/create",
		`{"orderId": "`+orderID+`", "fee": "300", "deliveryDate": "2030-01-02", "validityHours": 24}`, &quote))
	s.Equal("PENDING", quote.Status)
	s.WithinDuration(quote.CreatedAt.Add(24*time.Hour), quote.ValidUntil, time.Second)

	var failure httpadapter.ErrorResponse
	s.Equal(http.StatusConflict, s.call(provider, http.MethodPost, "/delivery-quotes/create",
		`{"orderId": "`+orderID+`", "fee": "280", "deliveryDate": "2030-01-02"}`, &failure))
	s.Equal("DuplicateQuote", failure.Kind)

	s.Require().Equal(http.StatusOK, s.call(provider, http.MethodGet, "/delivery-quotes/available", "", &open))
	s.Empty(open, "a provider does not see requests it already quoted")

	// Acceptance
	var acceptance httpadapter.AcceptanceDTO
	s.Require().Equal(http.StatusOK, s.call(customer, http.MethodPost,
		"/delivery-quotes/accept/"+quote.ID.String(), "", &acceptance))
	s.Equal("ACCEPTED", acceptance.Quote.Status)
	s.Equal("ORDER_PENDING", acceptance.Order.Status)
	s.Require().NotNil(acceptance.Order.AcceptedQuoteID)
	s.Equal(quote.ID, *acceptance.Order.AcceptedQuoteID)

	var quotes []httpadapter.QuoteDTO
	s.Require().Equal(http.StatusOK, s.call(customer, http.MethodGet,
		"/delivery-quotes/order/"+orderID+"/quotes", "", &quotes))
	s.Require().Len(quotes, 2)
	statuses := map[string]string{}
	for _, q := range quotes {
		statuses[q.ID.String()] = q.Status
	}
	s.Equal("ACCEPTED", statuses[quote.ID.String()])
	s.Equal("REJECTED", statuses[rivalQuote.ID.String()])

	s.Equal(http.StatusConflict, s.call(customer, http.MethodPost,
		"/delivery-quotes/accept/"+rivalQuote.ID.String(), "", &failure))
	s.Equal("QuoteUnavailable", failure.Kind)

	// Fulfillment
	var o httpadapter.OrderDTO
	s.Require().Equal(http.StatusOK, s.call(seller, http.MethodPut, "/shop/prepare-shipping/"+orderID, "", &o))
	s.Equal("SHIPPED", o.Status)

	s.Equal(http.StatusConflict, s.call(seller, http.MethodPut, "/shop/update-status",
		`{"orderId": "`+orderID+`", "status": "ORDER_PENDING"}`, &failure))
	s.Equal("InvalidTransition", failure.Kind)

	s.Equal(http.StatusForbidden, s.call(rival, http.MethodPut, "/delivery/complete/"+orderID, "", &failure))

	s.Require().Equal(http.StatusOK, s.call(provider, http.MethodPut, "/delivery/complete/"+orderID, "", &o))
	s.Equal("DELIVERED", o.Status)

	s.Equal(http.StatusConflict, s.call(seller, http.MethodPut, "/shop/cancel/"+orderID, "", &failure))

	// Projections
	var providerOrders []httpadapter.ProviderOrderDTO
	s.Require().Equal(http.StatusOK, s.call(provider, http.MethodGet, "/delivery/orders", "", &providerOrders))
	s.Require().Len(providerOrders, 1)
	s.Equal("300", providerOrders[0].Fee)
	s.Equal("2030-01-02", providerOrders[0].DeliveryDate)

	var sellerOrders []httpadapter.OrderDTO
	s.Require().Equal(http.StatusOK, s.call(seller, http.MethodGet, "/shop/orders?status=DELIVERED", "", &sellerOrders))
	s.Require().Len(sellerOrders, 1)
	s.True(sellerOrders[0].Items[0].Mine)

	var details httpadapter.OrderDetailsDTO
	s.Require().Equal(http.StatusOK, s.call(provider, http.MethodGet, "/orders/"+orderID, "", &details))
	s.Require().NotNil(details.AcceptedQuote)
	s.Equal(quote.ID, details.AcceptedQuote.ID)
	s.Equal(http.StatusForbidden, s.call(rival, http.MethodGet, "/orders/"+orderID, "", &failure))

	// Status events reach the relay: accepted, shipped, delivered.
	relay := s.app.CreatePublishOutboxEventsCommandHandler()
	relayCmd, err := commands.NewPublishOutboxEventsCommand(100)
	s.Require().NoError(err)
	result, err := relay.Handle(s.ctx, relayCmd)
	s.Require().NoError(err)
	s.Equal(3, result.Published)
	s.Zero(result.Failed)
}

func (s *ScenarioTestSuite) TestCancelClosesBidding() {
	customer := newUser(httpadapter.RoleCustomer)
	seller := newUser(httpadapter.RoleSeller)
	provider := newUser(httpadapter.RoleDelivery)

	productID := kernel.NewUUID()
	s.Require().NoError(s.database.DB.Create(&directoryrepo.ProductDTO{
		ID: productID.Bytes(), SellerID: seller.id.Bytes(), Name: "Water can 5L", Price: "150.00",
	}).Error)
	s.register(provider, "Colombo", "Dehiwala")

	var created httpadapter.DeliveryRequestCreatedResponse
	s.Require().Equal(http.StatusCreated, s.call(customer, http.MethodPost, "/delivery-quotes/request", `{
		"items": [{"productId": "`+productID.String()+`", "quantity": 3}],
		"subtotal": "450",
		"address": {"street": "Galle Road", "district": "Colombo", "town": "Dehiwala"}
	}`, &created))

	var quote httpadapter.QuoteDTO
	s.Require().Equal(http.StatusCreated, s.call(provider, http.MethodPost, "/delivery-quotes/create",
		`{"orderId": "`+created.OrderID.String()+`", "fee": "200", "deliveryDate": "2030-01-02"}`, &quote))

	var o httpadapter.OrderDTO
	s.Require().Equal(http.StatusOK, s.call(seller, http.MethodPut, "/shop/cancel/"+created.OrderID.String(), "", &o))
	s.Equal("CANCELED", o.Status)

	var quotes []httpadapter.QuoteDTO
	s.Require().Equal(http.StatusOK, s.call(customer, http.MethodGet,
		"/delivery-quotes/order/"+created.OrderID.String()+"/quotes", "", &quotes))
	s.Require().Len(quotes, 1)
	s.Equal("REJECTED", quotes[0].Status)

	var failure httpadapter.ErrorResponse
	s.Equal(http.StatusConflict, s.call(customer, http.MethodPost,
		"/delivery-quotes/accept/"+quote.ID.String(), "", &failure))
}

func (s *ScenarioTestSuite) TestCheckoutRejectsWrongSubtotal() {
	customer := newUser(httpadapter.RoleCustomer)
	productID := kernel.NewUUID()
	s.Require().NoError(s.database.DB.Create(&directoryrepo.ProductDTO{
		ID: productID.Bytes(), SellerID: kernel.NewUUID().Bytes(), Name: "Filter", Price: "999",
	}).Error)

	var failure httpadapter.ErrorResponse
	s.Equal(http.StatusBadRequest, s.call(customer, http.MethodPost, "/delivery-quotes/request", `{
		"items": [{"productId": "`+productID.String()+`", "quantity": 1}],
		"subtotal": "1",
		"address": {"street": "Beach Road", "district": "Gampaha", "town": "Negombo"}
	}`, &failure))
	s.Equal("ValidationError", failure.Kind)
}
