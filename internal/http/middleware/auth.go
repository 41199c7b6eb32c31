package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"unihub/internal/auth"
	"unihub/internal/model"
)

// UserLocalKey is the Fiber locals key holding the authenticated *model.User.
const UserLocalKey = "user"

// ErrMissingToken means a required-auth route was called without a bearer token.
var ErrMissingToken = errors.New("not authenticated")

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// AuthError is an authentication failure answered with 401.
type AuthError struct {
	Code string
	Err  error
}

func (e *AuthError) Error() string { return e.Err.Error() }

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) HTTPStatus() int { return fiber.StatusUnauthorized }

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(a Authenticator) fiber.Handler {
	return authenticate(a, true)
}

// OptionalAuth lets anonymous requests through. A token that is present but
// invalid or expired is still rejected.
func OptionalAuth(a Authenticator) fiber.Handler {
	return authenticate(a, false)
}

func authenticate(a Authenticator, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, present := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !present {
			if required {
				c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
				return &AuthError{Code: "UNAUTHORIZED", Err: ErrMissingToken}
			}
			return c.Next()
		}
		if token == "" {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return &AuthError{Code: "INVALID_TOKEN", Err: auth.ErrTokenInvalid}
		}

		user, err := a.Authenticate(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) || errors.Is(err, auth.ErrTokenInvalid) {
				c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
				return &AuthError{Code: "INVALID_TOKEN", Err: err}
			}
			return err
		}

		c.Locals(UserLocalKey, user)
		return c.Next()
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
// present is false only when the header is absent; a header with another
// scheme yields an empty token.
func bearerToken(header string) (token string, present bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	scheme, rest, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", true
	}
	return strings.TrimSpace(rest), true
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(UserLocalKey).(*model.User)
	return u
}
