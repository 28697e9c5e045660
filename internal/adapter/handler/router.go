package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tubetext/tubetext/internal/infrastructure/http/middleware"
	"github.com/tubetext/tubetext/internal/usecase/auth"
	"github.com/tubetext/tubetext/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	videoHandler   *Video
	authHandler    *Auth
	paymentHandler *Payment
	oauthService   *auth.OAuthService
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	videoHandler *Video,
	authHandler *Auth,
	paymentHandler *Payment,
	oauthService *auth.OAuthService,
) *Router {
	return &Router{
		cfg:            cfg,
		videoHandler:   videoHandler,
		authHandler:    authHandler,
		paymentHandler: paymentHandler,
		oauthService:   oauthService,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/v1")

	rt.setupVideoRoutes(v1)
	rt.setupAuthRoutes(v1)
	rt.setupPaymentRoutes(v1)
}

func (rt *Router) setupVideoRoutes(g *echo.Group) {
	videoGroup := g.Group("/video", middleware.EchoOptionalAuth(rt.oauthService))

	videoGroup.POST("", rt.videoHandler.GetTranscript)
	videoGroup.GET("/languages", rt.videoHandler.GetLanguages)
	videoGroup.POST("/translate", rt.videoHandler.Translate)
	videoGroup.POST("/translate/stream", rt.videoHandler.StreamTranslate)
	videoGroup.POST("/summary", rt.videoHandler.Summarize)
	videoGroup.POST("/pdf", rt.videoHandler.GeneratePDF)
}

func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	authGroup.GET("/google/login", rt.authHandler.GoogleLogin)
	authGroup.GET("/google/callback", rt.authHandler.GoogleCallback)
	authGroup.GET("/logout", rt.authHandler.Logout)
	authGroup.GET("/me", rt.authHandler.Me, middleware.EchoAuth(rt.oauthService))
}

func (rt *Router) setupPaymentRoutes(g *echo.Group) {
	paymentGroup := g.Group("/payments")

	paymentGroup.POST("/checkout", rt.paymentHandler.CreateCheckout, middleware.EchoAuth(rt.oauthService))
	paymentGroup.POST("/webhook", rt.paymentHandler.Webhook)
	paymentGroup.GET("/portal", rt.paymentHandler.CustomerPortal, middleware.EchoAuth(rt.oauthService))
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := "development"
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": env,
	})
}
