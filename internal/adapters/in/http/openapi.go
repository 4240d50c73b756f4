package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"aqualink/api"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

var registerSwagger sync.Once

// LoadOpenAPI parses and validates the embedded API description and returns it as
// JSON.
func LoadOpenAPI(ctx context.Context) ([]byte, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(api.OpenAPISpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}
	return raw, nil
}

// registerDocs serves the document at /openapi.json and through the swagger UI at
// /swagger/index.html.
func registerDocs(e *echo.Echo, document []byte) {
	registerSwagger.Do(func() {
		swag.Register(swag.Name, &swag.Spec{
			InfoInstanceName: swag.Name,
			SwaggerTemplate:  string(document),
			LeftDelim:        "[[[",
			RightDelim:       "]]]",
		})
	})

	e.GET("/openapi.json", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, document)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
