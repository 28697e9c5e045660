package handler

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tubetext/tubetext/errors"
	"github.com/tubetext/tubetext/internal/adapter/dto/common"
)

// Cookie names used by the API
const (
	AuthCookieName  = "tubetext_token"
	UsageCookieName = "tubetext_usage"
)

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a success payload and logs the hit
func HandleSuccess(logger *zap.Logger, c echo.Context, status int, body interface{}) error {
	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}
	return c.JSON(status, body)
}

// HandleError centralizes error handling and logging. AppError values keep
// their status and code; anything else becomes a 500.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.String("app_code", appErr.Code.String()),
				zap.Error(err),
			)
		}

		body := common.ErrorResponse{
			Success: false,
			Error:   appErr.Message,
			Code:    appErr.Code.String(),
		}
		if len(appErr.Details) > 0 {
			body.Details = make(map[string]interface{}, len(appErr.Details))
			for k, v := range appErr.Details {
				body.Details[k] = v
			}
		}
		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Success: false,
		Error:   "Internal server error",
		Code:    errors.ErrorCode_INTERNAL.String(),
	})
}

// ExtractToken pulls the auth token from the Authorization header or the
// auth cookie.
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return strings.TrimSpace(parts[1])
		}
	}

	cookie, err := r.Cookie(AuthCookieName)
	if err == nil {
		return cookie.Value
	}
	return ""
}

// SetCookie sets an HTTP cookie with common security settings
func SetCookie(c echo.Context, name, value string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// DeleteCookie deletes an HTTP cookie by setting MaxAge to -1
func DeleteCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
