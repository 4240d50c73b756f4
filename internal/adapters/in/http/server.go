package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"aqualink/internal/core/application/usecases/commands"
	"aqualink/internal/core/application/usecases/queries"
	"aqualink/internal/core/domain/model/coverage"
	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/core/domain/model/quote"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

type (
	CreateDeliveryRequestHandler interface {
		Handle(ctx context.Context, cmd commands.CreateDeliveryRequestCommand) (commands.CreateDeliveryRequestResult, error)
	}
	SubmitQuoteHandler interface {
		Handle(ctx context.Context, cmd commands.SubmitQuoteCommand) (*quote.Quote, error)
	}
	AcceptQuoteHandler interface {
		Handle(ctx context.Context, cmd commands.AcceptQuoteCommand) (commands.AcceptQuoteResult, error)
	}
	ChangeOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (*order.Order, error)
	}
	CompleteDeliveryHandler interface {
		Handle(ctx context.Context, cmd commands.CompleteDeliveryCommand) (*order.Order, error)
	}
	SetCoverageHandler interface {
		Handle(ctx context.Context, cmd commands.SetCoverageCommand) (*coverage.Coverage, error)
	}
	SetAvailabilityHandler interface {
		Handle(ctx context.Context, cmd commands.SetAvailabilityCommand) (*coverage.Coverage, error)
	}

	ListOpenRequestsHandler interface {
		Handle(ctx context.Context, query queries.ListOpenRequestsQuery) ([]queries.ListOpenRequestsQueryResponse, error)
	}
	ListOrderQuotesHandler interface {
		Handle(ctx context.Context, query queries.ListOrderQuotesQuery) ([]queries.QuoteView, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	ListSellerOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListSellerOrdersQuery) ([]queries.OrderView, error)
	}
	ListProviderOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListProviderOrdersQuery) ([]queries.ListProviderOrdersQueryResponse, error)
	}
	GetCoverageHandler interface {
		Handle(ctx context.Context, query queries.GetCoverageQuery) (queries.GetCoverageQueryResponse, error)
	}
)

// Handlers are the use cases served over HTTP.
type Handlers struct {
	// Command handlers
	CreateDeliveryRequest CreateDeliveryRequestHandler
	SubmitQuote           SubmitQuoteHandler
	AcceptQuote           AcceptQuoteHandler
	ChangeOrderStatus     ChangeOrderStatusHandler
	CompleteDelivery      CompleteDeliveryHandler
	SetCoverage           SetCoverageHandler
	SetAvailability       SetAvailabilityHandler

	// Query handlers
	ListOpenRequests   ListOpenRequestsHandler
	ListOrderQuotes    ListOrderQuotesHandler
	GetOrder           GetOrderHandler
	ListSellerOrders   ListSellerOrdersHandler
	ListProviderOrders ListProviderOrdersHandler
	GetCoverage        GetCoverageHandler
}

// Server translates HTTP requests into commands and queries and their results into
// JSON.
type Server struct {
	h      Handlers
	clock  func() time.Time
	logger *slog.Logger
}

func NewServer(h Handlers, clock func() time.Time, logger *slog.Logger) *Server {
	return &Server{h: h, clock: clock, logger: logger.With("component", "http")}
}

// CreateDeliveryRequest handles POST /delivery-quotes/request.
func (s *Server) CreateDeliveryRequest(c echo.Context) error {
	actor, _ := ActorFrom(c)

	var body CreateDeliveryRequestRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, err)
	}

	lines := make([]commands.OrderLine, 0, len(body.Items))
	for _, item := range body.Items {
		productID, err := kernel.UUIDFromGoogle(item.ProductID)
		if err != nil {
			return writeError(c, s.logger, errs.NewValueIsRequiredErrorWithCause("items.productId", err))
		}
		lines = append(lines, commands.OrderLine{ProductID: productID, Quantity: item.Quantity})
	}

	subtotal, err := parseMoney("subtotal", body.Subtotal)
	if err != nil {
		return writeError(c, s.logger, err)
	}
	address, err := body.Address.toDomain()
	if err != nil {
		return writeError(c, s.logger, err)
	}
	expiresIn, err := hours("expiresInHours", body.ExpiresInHours)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	cmd, err := commands.NewCreateDeliveryRequestCommand(
		kernel.NewUUID(), kernel.NewUUID(), actor.ID,
		lines, subtotal, address, expiresIn,
	)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	result, err := s.h.CreateDeliveryRequest.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	return c.JSON(http.StatusCreated, DeliveryRequestCreatedResponse{
		OrderID:   result.OrderID.Bytes(),
		RequestID: result.RequestID.Bytes(),
		Deadline:  result.Deadline,
	})
}

// ListOpenRequests handles GET /delivery-quotes/available.
func (s *Server) ListOpenRequests(c echo.Context) error {
	actor, _ := ActorFrom(c)

	query, err := queries.NewListOpenRequestsQuery(actor.ID)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	requests, err := s.h.ListOpenRequests.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	response := make([]OpenRequestDTO, len(requests))
	for i, r := range requests {
		response[i] = OpenRequestDTO{
			RequestID:     r.RequestID.Bytes(),
			OrderID:       r.OrderID.Bytes(),
			CustomerName:  r.CustomerName,
			CustomerPhone: r.CustomerPhone,
			Address:       addressDTO(r.Address),
			ItemCount:     r.ItemCount,
			Total:         r.Total.String(),
			Deadline:      r.Deadline,
			CreatedAt:     r.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, response)
}

// SubmitQuote handles POST /delivery-quotes/create.
func (s *Server) SubmitQuote(c echo.Context) error {
	actor, _ := ActorFrom(c)

	var body SubmitQuoteRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, err)
	}

	orderID, err := toKernel("orderId", body.OrderID)
	if err != nil {
		return writeError(c, s.logger, err)
	}
	fee, err := parseMoney("fee", body.Fee)
	if err != nil {
		return writeError(c, s.logger, err)
	}
	deliveryDate, err := parseDate("deliveryDate", body.DeliveryDate)
	if err != nil {
		return writeError(c, s.logger, err)
	}
	validity, err := hours("validityHours", body.ValidityHours)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	cmd, err := commands.NewSubmitQuoteCommand(
		kernel.NewUUID(), orderID, actor.ID,
		fee, deliveryDate, body.Note, validity,
	)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	q, err := s.h.SubmitQuote.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, s.logger, err)
	}
	metrics.QuotesSubmitted.Inc()

	return c.JSON(http.StatusCreated, quoteFromDomain(q, s.clock()))
}

// ListOrderQuotes handles GET /delivery-quotes/order/{orderId}/quotes.
func (s *Server) ListOrderQuotes(c echo.Context) error {
	actor, _ := ActorFrom(c)

	orderID, err := pathID(c, "orderId")
	if err != nil {
		return writeError(c, s.logger, err)
	}

	query, err := queries.NewListOrderQuotesQuery(orderID, actor.ID)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	quotes, err := s.h.ListOrderQuotes.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	response := make([]QuoteDTO, len(quotes))
	for i, q := range quotes {
		response[i] = quoteFromView(q)
	}
	return c.JSON(http.StatusOK, response)
}

// AcceptQuote handles POST /delivery-quotes/accept/{quoteId}.
func (s *Server) AcceptQuote(c echo.Context) error {
	actor, _ := ActorFrom(c)

	quoteID, err := pathID(c, "quoteId")
	if err != nil {
		return writeError(c, s.logger, err)
	}

	cmd, err := commands.NewAcceptQuoteCommand(quoteID, actor.ID)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	result, err := s.h.AcceptQuote.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, s.logger, err)
	}
	metrics.QuotesAccepted.Inc()
	metrics.OrderStatusChanges.WithLabelValues(result.Order.Status().String()).Inc()

	return c.JSON(http.StatusOK, AcceptanceDTO{
		Quote: quoteFromDomain(result.Quote, s.clock()),
		Order: orderFromDomain(result.Order, actor.ID),
	})
}

// GetOrder handles GET /orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	actor, _ := ActorFrom(c)

	orderID, err := pathID(c, "orderId")
	if err != nil {
		return writeError(c, s.logger, err)
	}

	query, err := queries.NewGetOrderQuery(orderID, actor.ID)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	result, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	response := OrderDetailsDTO{Order: orderFromView(result.Order)}
	if result.AcceptedQuote != nil {
		q := quoteFromView(*result.AcceptedQuote)
		response.AcceptedQuote = &q
	}
	return c.JSON(http.StatusOK, response)
}

// ListSellerOrders handles GET /shop/orders.
func (s *Server) ListSellerOrders(c echo.Context) error {
	actor, _ := ActorFrom(c)

	filter, err := orderFilter(c)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	query, err := queries.NewListSellerOrdersQuery(actor.ID, filter)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	orders, err := s.h.ListSellerOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	response := make([]OrderDTO, len(orders))
	for i, o := range orders {
		response[i] = orderFromView(o)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateOrderStatus handles PUT /shop/update-status.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	var body UpdateStatusRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, err)
	}

	orderID, err := toKernel("orderId", body.OrderID)
	if err != nil {
		return writeError(c, s.logger, err)
	}
	target, err := order.ParseStatus(body.Status)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	return s.changeStatus(c, orderID, target)
}

// PrepareShipping handles PUT /shop/prepare-shipping/{orderId}.
func (s *Server) PrepareShipping(c echo.Context) error {
	orderID, err := pathID(c, "orderId")
	if err != nil {
		return writeError(c, s.logger, err)
	}
	return s.changeStatus(c, orderID, order.Shipped)
}

// CancelOrder handles PUT /shop/cancel/{orderId}.
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, err := pathID(c, "orderId")
	if err != nil {
		return writeError(c, s.logger, err)
	}
	return s.changeStatus(c, orderID, order.Canceled)
}

func (s *Server) changeStatus(c echo.Context, orderID kernel.UUID, target order.Status) error {
	actor, _ := ActorFrom(c)

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, actor.ID, target)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	o, err := s.h.ChangeOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, s.logger, err)
	}
	metrics.OrderStatusChanges.WithLabelValues(o.Status().String()).Inc()

	return c.JSON(http.StatusOK, orderFromDomain(o, actor.ID))
}

// ListProviderOrders handles GET /delivery/orders.
func (s *Server) ListProviderOrders(c echo.Context) error {
	actor, _ := ActorFrom(c)

	filter, err := orderFilter(c)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	query, err := queries.NewListProviderOrdersQuery(actor.ID, filter)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	orders, err := s.h.ListProviderOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	response := make([]ProviderOrderDTO, len(orders))
	for i, o := range orders {
		response[i] = ProviderOrderDTO{
			Order:        orderFromView(o.Order),
			QuoteID:      o.QuoteID.Bytes(),
			Fee:          o.Fee.String(),
			DeliveryDate: o.DeliveryDate.Format(dateLayout),
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetCoverage handles GET /delivery/coverage-area.
func (s *Server) GetCoverage(c echo.Context) error {
	actor, _ := ActorFrom(c)

	query, err := queries.NewGetCoverageQuery(actor.ID)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	result, err := s.h.GetCoverage.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, s.logger, err)
	}
	return c.JSON(http.StatusOK, coverageFromQuery(result))
}

// SetCoverage handles PUT /delivery/coverage-area.
func (s *Server) SetCoverage(c echo.Context) error {
	actor, _ := ActorFrom(c)

	var body SetCoverageRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, err)
	}

	areas, err := kernel.AreasFromDistrictMap(body.Areas)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	cmd, err := commands.NewSetCoverageCommand(actor.ID, areas)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	cov, err := s.h.SetCoverage.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, s.logger, err)
	}
	return c.JSON(http.StatusOK, coverageFromDomain(cov))
}

// SetAvailability handles PUT /delivery/availability.
func (s *Server) SetAvailability(c echo.Context) error {
	actor, _ := ActorFrom(c)

	var body SetAvailabilityRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, err)
	}
	if body.Available == nil {
		return writeError(c, s.logger, errs.NewValueIsRequiredError("available"))
	}

	cmd, err := commands.NewSetAvailabilityCommand(actor.ID, *body.Available)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	cov, err := s.h.SetAvailability.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, s.logger, err)
	}
	return c.JSON(http.StatusOK, coverageFromDomain(cov))
}

// CompleteDelivery handles PUT /delivery/complete/{orderId}.
func (s *Server) CompleteDelivery(c echo.Context) error {
	actor, _ := ActorFrom(c)

	orderID, err := pathID(c, "orderId")
	if err != nil {
		return writeError(c, s.logger, err)
	}

	cmd, err := commands.NewCompleteDeliveryCommand(orderID, actor.ID)
	if err != nil {
		return writeError(c, s.logger, err)
	}

	o, err := s.h.CompleteDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, s.logger, err)
	}
	metrics.OrderStatusChanges.WithLabelValues(o.Status().String()).Inc()

	return c.JSON(http.StatusOK, orderFromDomain(o, actor.ID))
}
