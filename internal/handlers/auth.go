package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/auth"
	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/response"
	"github.com/labstack/echo/v4"
)

// RefreshTokenCookie is the cookie carrying the refresh token.
const RefreshTokenCookie = "refreshToken"

// AuthHandler handles login, logout, token refresh and password changes
type AuthHandler struct {
	sessions      SessionManager
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler. secureCookies marks the session
// cookies Secure and is enabled in production.
func NewAuthHandler(sessions SessionManager, secureCookies bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, secureCookies: secureCookies}
}

// RegisterAuthRoutes registers session routes. limit guards the
// unauthenticated credential endpoints.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, requireAuth, limit echo.MiddlewareFunc) {
	g.POST("/login", h.Login, limit)
	g.POST("/refresh-token", h.RefreshToken, limit)
	g.POST("/logout", h.Logout, requireAuth)
	g.POST("/change-password", h.ChangePassword, requireAuth)
}

// Login starts a session and sets both token cookies
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.sessions.Login(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookies(c, session)
	return response.OK(c, session, "User Logged In Successfully")
}

// RefreshToken rotates the token pair. The refresh token is read from its
// cookie or, failing that, from the body.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(RefreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req models.RefreshTokenRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		token = req.RefreshToken
	}

	session, err := h.sessions.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}

	h.setSessionCookies(c, session)
	return response.OK(c, map[string]string{
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
	}, "Access Token Refreshed Successfully")
}

// Logout revokes the refresh token and clears both cookies
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context(), middleware.CurrentIdentity(c)); err != nil {
		return err
	}
	h.clearSessionCookies(c)
	return response.OK(c, struct{}{}, "User Logged Out Successfully")
}

// ChangePassword replaces the current user's password
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req models.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.sessions.ChangePassword(c.Request().Context(), middleware.CurrentIdentity(c), req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return response.OK(c, struct{}{}, "Password Changed Successfully")
}

func (h *AuthHandler) setSessionCookies(c echo.Context, session *auth.Session) {
	c.SetCookie(h.cookie(middleware.AccessTokenCookie, session.AccessToken))
	c.SetCookie(h.cookie(RefreshTokenCookie, session.RefreshToken))
}

func (h *AuthHandler) clearSessionCookies(c echo.Context) {
	for _, name := range []string{middleware.AccessTokenCookie, RefreshTokenCookie} {
		cookie := h.cookie(name, "")
		cookie.MaxAge = -1
		c.SetCookie(cookie)
	}
}

func (h *AuthHandler) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
