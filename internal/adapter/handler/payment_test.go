package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tubetext/tubetext/internal/domain/entities"
	"github.com/tubetext/tubetext/internal/usecase/billing"
	uerrors "github.com/tubetext/tubetext/internal/usecase/errors"
)

type fakeBilling struct {
	checkoutURL string
	portalURL   string
	checkoutErr error
	portalErr   error
	webhookErr  error
	gotPlan     entities.SubscriptionPlan
	gotSig      string
}

func (f *fakeBilling) CreateCheckout(ctx context.Context, user *entities.User, plan entities.SubscriptionPlan) (string, error) {
	f.gotPlan = plan
	return f.checkoutURL, f.checkoutErr
}

func (f *fakeBilling) CustomerPortalURL(ctx context.Context, user *entities.User) (string, error) {
	return f.portalURL, f.portalErr
}

func (f *fakeBilling) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	f.gotSig = sigHeader
	return f.webhookErr
}

func signedIn(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, rec := newContext(t, method, target, body)
	c.Set("user", &entities.User{ID: uuid.New(), Email: "alice@example.com", Name: "Alice"})
	return c, rec
}

func TestCreateCheckout(t *testing.T) {
	fb := &fakeBilling{checkoutURL: "https://checkout.stripe.com/s/abc"}
	h := NewPayment(fb, nil)

	c, rec := signedIn(t, http.MethodPost, "/v1/payments/checkout", `{"plan":"monthly"}`)
	if err := h.CreateCheckout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "checkout.stripe.com") {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if fb.gotPlan != entities.PlanMonthly {
		t.Errorf("plan = %q", fb.gotPlan)
	}
}

func TestCreateCheckoutRequiresAuth(t *testing.T) {
	h := NewPayment(&fakeBilling{}, nil)
	c, rec := newContext(t, http.MethodPost, "/v1/payments/checkout", `{"plan":"monthly"}`)
	if err := h.CreateCheckout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCreateCheckoutRejectsUnknownPlan(t *testing.T) {
	h := NewPayment(&fakeBilling{}, nil)
	c, rec := signedIn(t, http.MethodPost, "/v1/payments/checkout", `{"plan":"weekly"}`)
	if err := h.CreateCheckout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateCheckoutNotConfigured(t *testing.T) {
	h := NewPayment(&fakeBilling{checkoutErr: uerrors.ErrNotConfigured}, nil)
	c, rec := signedIn(t, http.MethodPost, "/v1/payments/checkout", `{"plan":"monthly"}`)
	if err := h.CreateCheckout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestWebhookForwardsSignature(t *testing.T) {
	fb := &fakeBilling{}
	h := NewPayment(fb, nil)

	c, rec := newContext(t, http.MethodPost, "/v1/payments/webhook", `{"type":"checkout.session.completed"}`)
	c.Request().Header.Set("Stripe-Signature", "t=1,v1=abc")
	if err := h.Webhook(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if fb.gotSig != "t=1,v1=abc" {
		t.Errorf("signature = %q", fb.gotSig)
	}
}

func TestWebhookBadSignature(t *testing.T) {
	h := NewPayment(&fakeBilling{webhookErr: billing.ErrInvalidSignature}, nil)
	c, rec := newContext(t, http.MethodPost, "/v1/payments/webhook", `{}`)
	if err := h.Webhook(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCustomerPortalNoSubscription(t *testing.T) {
	h := NewPayment(&fakeBilling{portalErr: uerrors.ErrNoSubscription}, nil)
	c, rec := signedIn(t, http.MethodGet, "/v1/payments/portal", "")
	if err := h.CustomerPortal(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCustomerPortal(t *testing.T) {
	h := NewPayment(&fakeBilling{portalURL: "https://billing.stripe.com/p/xyz"}, nil)
	c, rec := signedIn(t, http.MethodGet, "/v1/payments/portal", "")
	if err := h.CustomerPortal(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "billing.stripe.com") {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}
