package cmd_test

import (
	"errors"
	"net/http"
	"sync"

	httpadapter "aqualink/internal/adapters/in/http"
	"aqualink/internal/adapters/out/postgres/directoryrepo"
	"aqualink/internal/core/application/usecases/commands"
	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"

	"github.com/google/uuid"
)

// acceptanceRounds repeats each race so lock ordering regressions surface reliably.
const acceptanceRounds = 5

type bidding struct {
	customer user
	orderID  kernel.UUID
	quoteIDs []kernel.UUID
}

// openBidding checks out one order and collects a quote from each of bidders providers.
func (s *ScenarioTestSuite) openBidding(bidders int) bidding {
	customer := newUser(httpadapter.RoleCustomer)
	seller := newUser(httpadapter.RoleSeller)

	productID := kernel.NewUUID()
	s.Require().NoError(s.database.DB.Create(&directoryrepo.ProductDTO{
		ID: productID.Bytes(), SellerID: seller.id.Bytes(), Name: "Water can 20L", Price: "500",
	}).Error)

	var created httpadapter.DeliveryRequestCreatedResponse
	s.Require().Equal(http.StatusCreated, s.call(customer, http.MethodPost, "/delivery-quotes/request", `{
		"items": [{"productId": "`+productID.String()+`", "quantity": 1}],
		"subtotal": "500",
		"address": {"street": "Beach Road", "district": "Gampaha", "town": "Negombo"}
	}`, &created))

	orderID, err := kernel.UUIDFromGoogle(created.OrderID)
	s.Require().NoError(err)

	b := bidding{customer: customer, orderID: orderID}
	for range bidders {
		provider := newUser(httpadapter.RoleDelivery)
		s.register(provider, "Gampaha", "Negombo")

		var q httpadapter.QuoteDTO
		s.Require().Equal(http.StatusCreated, s.call(provider, http.MethodPost, "/delivery-quotes/create",
			`{"orderId": "`+orderID.String()+`", "fee": "300", "deliveryDate": "2030-01-02"}`, &q))

		quoteID, idErr := kernel.UUIDFromGoogle(q.ID)
		s.Require().NoError(idErr)
		b.quoteIDs = append(b.quoteIDs, quoteID)
	}
	return b
}

// acceptConcurrently releases one AcceptQuote call per quote id at the same time.
func (s *ScenarioTestSuite) acceptConcurrently(customer kernel.UUID, quoteIDs ...kernel.UUID) []error {
	handler := s.app.CreateAcceptQuoteCommandHandler()

	start := make(chan struct{})
	results := make([]error, len(quoteIDs))
	var wg sync.WaitGroup
	for i, quoteID := range quoteIDs {
		cmd, err := commands.NewAcceptQuoteCommand(quoteID, customer)
		s.Require().NoError(err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, results[i] = handler.Handle(s.ctx, cmd)
		}()
	}
	close(start)
	wg.Wait()
	return results
}

// oneWinner returns the index of the single successful call and checks the rest lost
// with QuoteUnavailable.
func (s *ScenarioTestSuite) oneWinner(results []error) int {
	winner := -1
	for i, err := range results {
		if err == nil {
			s.Require().Equal(-1, winner, "more than one acceptance succeeded")
			winner = i
			continue
		}
		s.Require().True(errors.Is(err, errs.ErrQuoteUnavailable), "unexpected error: %v", err)
	}
	s.Require().NotEqual(-1, winner, "no acceptance succeeded: %v", results)
	return winner
}

func (s *ScenarioTestSuite) quoteStatuses(orderID kernel.UUID) map[kernel.UUID]string {
	rows, err := s.database.DB.Raw(`
		SELECT q.id, q.status
		FROM quotes q
		JOIN quote_requests r ON r.id = q.request_id
		WHERE r.order_id = ?
	`, orderID.Bytes()).Rows()
	s.Require().NoError(err)
	defer rows.Close()

	statuses := make(map[kernel.UUID]string)
	for rows.Next() {
		var (
			id     uuid.UUID
			status string
		)
		s.Require().NoError(rows.Scan(&id, &status))
		quoteID, idErr := kernel.UUIDFromGoogle(id)
		s.Require().NoError(idErr)
		statuses[quoteID] = status
	}
	s.Require().NoError(rows.Err())
	return statuses
}

func (s *ScenarioTestSuite) assertAccepted(orderID, quoteID kernel.UUID) {
	var order struct {
		Status          string
		AcceptedQuoteID *uuid.UUID
	}
	s.Require().NoError(s.database.DB.Raw(
		"SELECT status, accepted_quote_id FROM orders WHERE id = ?", orderID.Bytes(),
	).Row().Scan(&order.Status, &order.AcceptedQuoteID))

	s.Equal("ORDER_PENDING", order.Status)
	s.Require().NotNil(order.AcceptedQuoteID)
	accepted, err := kernel.UUIDFromGoogle(*order.AcceptedQuoteID)
	s.Require().NoError(err)
	s.Equal(quoteID, accepted)

	var requestStatus string
	s.Require().NoError(s.database.DB.Raw(
		"SELECT status FROM quote_requests WHERE order_id = ?", orderID.Bytes(),
	).Row().Scan(&requestStatus))
	s.Equal("CLOSED", requestStatus)
}

func (s *ScenarioTestSuite) TestConcurrentAcceptanceOfSiblingQuotes() {
	for range acceptanceRounds {
		b := s.openBidding(2)

		results := s.acceptConcurrently(b.customer.id, b.quoteIDs...)
		winner := b.quoteIDs[s.oneWinner(results)]

		statuses := s.quoteStatuses(b.orderID)
		s.Require().Len(statuses, 2)
		for id, status := range statuses {
			if id == winner {
				s.Equal("ACCEPTED", status)
			} else {
				s.Equal("REJECTED", status)
			}
		}
		s.assertAccepted(b.orderID, winner)
	}
}

func (s *ScenarioTestSuite) TestConcurrentAcceptanceOfSameQuote() {
	for range acceptanceRounds {
		b := s.openBidding(2)
		chosen := b.quoteIDs[0]

		s.oneWinner(s.acceptConcurrently(b.customer.id, chosen, chosen))

		statuses := s.quoteStatuses(b.orderID)
		s.Equal("ACCEPTED", statuses[chosen])
		s.Equal("REJECTED", statuses[b.quoteIDs[1]])
		s.assertAccepted(b.orderID, chosen)
	}
}
