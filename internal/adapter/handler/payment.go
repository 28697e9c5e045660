package handler

import (
	"context"
	stdErrors "errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tubetext/tubetext/errors"
	"github.com/tubetext/tubetext/internal/adapter/dto/common"
	"github.com/tubetext/tubetext/internal/adapter/dto/payment"
	"github.com/tubetext/tubetext/internal/domain/entities"
	"github.com/tubetext/tubetext/internal/usecase/billing"
	uerrors "github.com/tubetext/tubetext/internal/usecase/errors"
)

// BillingService drives Stripe checkout and webhook application
type BillingService interface {
	CreateCheckout(ctx context.Context, user *entities.User, plan entities.SubscriptionPlan) (string, error)
	CustomerPortalURL(ctx context.Context, user *entities.User) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

// Payment handles checkout, webhook and billing portal endpoints
type Payment struct {
	billing BillingService
	logger  *zap.Logger
}

// NewPayment creates the payment handler
func NewPayment(billingService BillingService, logger *zap.Logger) *Payment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Payment{billing: billingService, logger: logger}
}

// CreateCheckout starts a Stripe checkout session for the signed-in user
func (h *Payment) CreateCheckout(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var req payment.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("plan must be monthly, yearly or lifetime"))
	}

	url, err := h.billing.CreateCheckout(c.Request().Context(), user, entities.SubscriptionPlan(req.Plan))
	if err != nil {
		switch {
		case stdErrors.Is(err, uerrors.ErrNotConfigured):
			return HandleError(h.logger, c, errors.ErrPaymentNotConfigured())
		case stdErrors.Is(err, uerrors.ErrUnknownPlan):
			return HandleError(h.logger, c, errors.ErrInvalidArgument("unknown payment plan"))
		default:
			return HandleError(h.logger, c, err)
		}
	}
	return HandleSuccess(h.logger, c, http.StatusOK, payment.RedirectResponse{
		Success: true,
		URL:     url,
	})
}

// Webhook applies a signature-verified Stripe event
func (h *Payment) Webhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	sig := c.Request().Header.Get("Stripe-Signature")

	if err := h.billing.HandleWebhook(c.Request().Context(), payload, sig); err != nil {
		switch {
		case stdErrors.Is(err, billing.ErrInvalidSignature):
			return HandleError(h.logger, c, errors.ErrWebhookSignatureInvalid(err))
		case stdErrors.Is(err, uerrors.ErrNotConfigured):
			return HandleError(h.logger, c, errors.ErrPaymentNotConfigured())
		default:
			return HandleError(h.logger, c, err)
		}
	}
	return HandleSuccess(h.logger, c, http.StatusOK, common.SuccessResponse{Success: true})
}

// CustomerPortal returns a Stripe billing portal URL for the signed-in user
func (h *Payment) CustomerPortal(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	url, err := h.billing.CustomerPortalURL(c.Request().Context(), user)
	if err != nil {
		switch {
		case stdErrors.Is(err, uerrors.ErrNoSubscription):
			return HandleError(h.logger, c, errors.ErrSubscriptionNotFound())
		case stdErrors.Is(err, uerrors.ErrNotConfigured):
			return HandleError(h.logger, c, errors.ErrPaymentNotConfigured())
		default:
			return HandleError(h.logger, c, err)
		}
	}
	return HandleSuccess(h.logger, c, http.StatusOK, payment.RedirectResponse{
		Success: true,
		URL:     url,
	})
}
