package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// Idempotency rejects a POST or PUT whose Idempotency-Key the same actor already
// used within the retention window. The key is claimed with SETNX before the handler
// runs and released when the request fails, so a failed request can be retried.
// Redis outages do not block writes.
func Idempotency(client redis.Cmdable, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			if method != http.MethodPost && method != http.MethodPut {
				return next(c)
			}

			key := c.Request().Header.Get(idempotencyHeader)
			if key == "" {
				return next(c)
			}

			scope := "anonymous"
			if actor, ok := ActorFrom(c); ok {
				scope = actor.ID.String()
			}
			redisKey := fmt.Sprintf("idempotency:%s:%s", scope, key)

			ctx := c.Request().Context()
			acquired, err := client.SetNX(ctx, redisKey, c.Path(), idempotencyTTL).Result()
			if err != nil {
				logger.WarnContext(ctx, "idempotency check skipped", "error", err)
				return next(c)
			}
			if !acquired {
				return c.JSON(http.StatusConflict, ErrorResponse{
					Code:    http.StatusConflict,
					Kind:    kindDuplicateRequest,
					Message: fmt.Sprintf("request with %s %q was already processed", idempotencyHeader, key),
				})
			}

			err = next(c)
			if err != nil || c.Response().Status >= http.StatusBadRequest {
				if delErr := client.Del(ctx, redisKey).Err(); delErr != nil {
					logger.WarnContext(ctx, "idempotency key not released", "key", redisKey, "error", delErr)
				}
			}
			return err
		}
	}
}
