package http

import (
	"time"

	"aqualink/internal/core/application/usecases/queries"
	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// pathID binds a uuid path parameter.
func pathID(c echo.Context, name string) (kernel.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return toKernel(name, id)
}

// orderFilter binds the optional status, from and to query parameters.
func orderFilter(c echo.Context) (queries.OrderFilter, error) {
	var (
		status   *string
		from, to *time.Time
		filter   queries.OrderFilter
	)

	params := c.QueryParams()
	if err := runtime.BindQueryParameter("form", true, false, "status", params, &status); err != nil {
		return filter, errs.NewValueIsInvalidErrorWithCause("status", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "from", params, &from); err != nil {
		return filter, errs.NewValueIsInvalidErrorWithCause("from", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "to", params, &to); err != nil {
		return filter, errs.NewValueIsInvalidErrorWithCause("to", err)
	}

	if status != nil && *status != "" {
		parsed, err := order.ParseStatus(*status)
		if err != nil {
			return filter, err
		}
		filter.Status = &parsed
	}
	filter.From = from
	filter.To = to
	return filter, nil
}
