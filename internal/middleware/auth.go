package middleware

import (
	"context"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/internal/auth"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const (
	// AccessTokenCookie is the cookie carrying the access token.
	AccessTokenCookie = "accessToken"

	userContextKey = "user"
)

// Authenticator resolves an access token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// JWTAuth rejects requests without a valid access token and stores the
// authenticated user in the context.
func JWTAuth(authenticator Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := AccessToken(c)
			if token == "" {
				return apperror.New(apperror.Unauthorized, "Unauthorized request")
			}
			user, err := authenticator.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// OptionalJWTAuth stores the user when a valid access token is present and
// otherwise lets the request through anonymously.
func OptionalJWTAuth(authenticator Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := AccessToken(c); token != "" {
				if user, err := authenticator.Authenticate(c.Request().Context(), token); err == nil {
					c.Set(userContextKey, user)
				}
			}
			return next(c)
		}
	}
}

// AccessToken reads the access token from the cookie, falling back to a
// bearer Authorization header.
func AccessToken(c echo.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}

// CurrentIdentity returns the identity of the authenticated user. It is the
// zero identity for anonymous requests.
func CurrentIdentity(c echo.Context) auth.Identity {
	user := CurrentUser(c)
	if user == nil {
		return auth.Identity{}
	}
	return auth.IdentityOf(user)
}
