package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tubetext/tubetext/errors"
	dtoauth "github.com/tubetext/tubetext/internal/adapter/dto/auth"
	"github.com/tubetext/tubetext/internal/adapter/dto/common"
	"github.com/tubetext/tubetext/internal/domain/entities"
	"github.com/tubetext/tubetext/internal/usecase/auth"
)

// Auth handles the Google sign-in flow and the session endpoints
type Auth struct {
	service     *auth.OAuthService
	frontendURL string
	logger      *zap.Logger
}

// NewAuth creates the auth handler
func NewAuth(service *auth.OAuthService, frontendURL string, logger *zap.Logger) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auth{
		service:     service,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// GoogleLogin redirects the browser to the Google consent screen
func (h *Auth) GoogleLogin(c echo.Context) error {
	url, err := h.service.GetGoogleAuthURL(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrOAuthFailed("google", err))
	}
	return c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback finishes the OAuth flow: validates state, upserts the
// user, sets the auth cookie and sends the browser back to the frontend.
func (h *Auth) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("code and state are required"))
	}

	result, err := h.service.HandleGoogleCallback(c.Request().Context(), code, state)
	if err != nil {
		if err == entities.ErrOAuthStateMismatch {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("OAuth state mismatch"))
		}
		return HandleError(h.logger, c, errors.ErrOAuthFailed("google", err))
	}

	SetCookie(c, AuthCookieName, result.AccessToken, int(result.ExpiresIn))
	h.logger.Info("user signed in",
		zap.String("request_id", getRequestID(c)),
		zap.String("user_id", result.User.ID.String()))

	return c.Redirect(http.StatusTemporaryRedirect, h.frontendURL)
}

// Me returns the signed-in user's profile
func (h *Auth) Me(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	return HandleSuccess(h.logger, c, http.StatusOK, dtoauth.MeResponse{
		Success: true,
		User:    dtoauth.NewUserResponse(user),
	})
}

// Logout clears the auth cookie
func (h *Auth) Logout(c echo.Context) error {
	DeleteCookie(c, AuthCookieName)
	return HandleSuccess(h.logger, c, http.StatusOK, common.SuccessResponse{
		Success: true,
		Message: "signed out",
	})
}
