package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// RouterOptions configure NewRouter. Redis may be nil, which disables
// Idempotency-Key handling. Document is the JSON API description served at
// /openapi.json; nil skips the documentation routes.
type RouterOptions struct {
	JWTSecret []byte
	Redis     redis.Cmdable
	Document  []byte
	Logger    *slog.Logger
}

// NewRouter builds the echo instance with every route of the service.
func NewRouter(s *Server, opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpErrorHandler(opts.Logger)

	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(Observe())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if opts.Document != nil {
		registerDocs(e, opts.Document)
	}

	secured := []echo.MiddlewareFunc{Authenticate(opts.JWTSecret)}
	if opts.Redis != nil {
		secured = append(secured, Idempotency(opts.Redis, opts.Logger))
	}

	customer := RequireRoles(RoleCustomer)
	seller := RequireRoles(RoleSeller)
	delivery := RequireRoles(RoleDelivery)

	quotes := e.Group("/delivery-quotes", secured...)
	quotes.POST("/request", s.CreateDeliveryRequest, customer)
	quotes.GET("/available", s.ListOpenRequests, delivery)
	quotes.POST("/create", s.SubmitQuote, delivery)
	quotes.GET("/order/:orderId/quotes", s.ListOrderQuotes, customer)
	quotes.POST("/accept/:quoteId", s.AcceptQuote, customer)

	orders := e.Group("/orders", secured...)
	orders.GET("/:orderId", s.GetOrder)

	shop := e.Group("/shop", secured...)
	shop.Use(seller)
	shop.GET("/orders", s.ListSellerOrders)
	shop.PUT("/update-status", s.UpdateOrderStatus)
	shop.PUT("/prepare-shipping/:orderId", s.PrepareShipping)
	shop.PUT("/cancel/:orderId", s.CancelOrder)

	dlv := e.Group("/delivery", secured...)
	dlv.Use(delivery)
	dlv.GET("/orders", s.ListProviderOrders)
	dlv.GET("/coverage-area", s.GetCoverage)
	dlv.PUT("/coverage-area", s.SetCoverage)
	dlv.PUT("/availability", s.SetAvailability)
	dlv.PUT("/complete/:orderId", s.CompleteDelivery)

	return e
}
