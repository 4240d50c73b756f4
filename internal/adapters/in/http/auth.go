package http

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Role is the marketplace role carried in the access token.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleDelivery Role = "delivery"
)

func (r Role) valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleDelivery:
		return true
	default:
		return false
	}
}

// Actor is the authenticated caller of a request.
type Actor struct {
	ID   kernel.UUID
	Role Role
}

const actorKey = "actor"

// Claims are the access token claims. The subject is the user id.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate verifies the HS256 bearer token and stores the Actor in the echo
// context. Requests without a valid token are answered with 401.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := parseBearer(c.Request().Header.Get(echo.HeaderAuthorization), secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Kind:    kindUnauthenticated,
					Message: err.Error(),
				})
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// RequireRoles rejects actors whose role is not listed with 403.
func RequireRoles(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Kind:    kindUnauthenticated,
					Message: "missing credentials",
				})
			}
			if !slices.Contains(roles, actor.Role) {
				return c.JSON(http.StatusForbidden, ErrorResponse{
					Code:    http.StatusForbidden,
					Kind:    string(errs.KindUnauthorized),
					Message: fmt.Sprintf("role %s may not call this operation", actor.Role),
				})
			}
			return next(c)
		}
	}
}

// ActorFrom returns the actor stored by Authenticate.
func ActorFrom(c echo.Context) (Actor, bool) {
	actor, ok := c.Get(actorKey).(Actor)
	return actor, ok
}

// IssueToken signs an access token for the actor. It backs local tooling and tests;
// production tokens come from the identity service sharing the secret.
func IssueToken(secret []byte, actor Actor, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = actor.ID.String()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: actor.Role, RegisteredClaims: claims})
	return token.SignedString(secret)
}

func parseBearer(header string, secret []byte) (Actor, error) {
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(raw) == "" {
		return Actor{}, errors.New("missing bearer token")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Actor{}, fmt.Errorf("invalid token: %w", err)
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return Actor{}, fmt.Errorf("invalid token subject: %w", err)
	}
	if !claims.Role.valid() {
		return Actor{}, fmt.Errorf("invalid token role %q", claims.Role)
	}

	return Actor{ID: id, Role: claims.Role}, nil
}
