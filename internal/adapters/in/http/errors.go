package http

import (
	"errors"
	"log/slog"
	"net/http"

	"aqualink/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	kindUnauthenticated  = "Unauthenticated"
	kindDuplicateRequest = "DuplicateRequest"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// statusOf maps an error kind to its HTTP status.
func statusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindUnauthorized:
		return http.StatusForbidden
	case errs.KindInvalidTransition,
		errs.KindDuplicateQuote,
		errs.KindQuoteUnavailable,
		errs.KindRequestClosed:
		return http.StatusConflict
	case errs.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status of err's kind. Internal errors are logged and
// reported with a generic message.
func writeError(c echo.Context, logger *slog.Logger, err error) error {
	kind := errs.KindOf(err)
	code := statusOf(kind)

	message := err.Error()
	if code == http.StatusInternalServerError {
		kind = errs.KindInternal
		message = "internal error"
		logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"route", c.Path(),
			"error", err,
		)
	}

	return c.JSON(code, ErrorResponse{Code: code, Kind: string(kind), Message: message})
}

// badRequest reports a malformed body or parameter.
func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Kind:    string(errs.KindValidation),
		Message: err.Error(),
	})
}

// httpErrorHandler renders errors that escape handlers, such as echo's own 404 and
// 405, in the same shape as handler errors.
func httpErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			kind := string(errs.KindInternal)
			switch he.Code {
			case http.StatusNotFound, http.StatusMethodNotAllowed:
				kind = string(errs.KindNotFound)
			case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
				kind = string(errs.KindValidation)
			case http.StatusUnauthorized:
				kind = kindUnauthenticated
			case http.StatusForbidden:
				kind = string(errs.KindUnauthorized)
			}
			_ = c.JSON(he.Code, ErrorResponse{Code: he.Code, Kind: kind, Message: http.StatusText(he.Code)})
			return
		}

		_ = writeError(c, logger, err)
	}
}
