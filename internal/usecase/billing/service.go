package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v78"
	bpsession "github.com/stripe/stripe-go/v78/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/customer"
	"github.com/stripe/stripe-go/v78/webhook"
	"go.uber.org/zap"

	"github.com/tubetext/tubetext/internal/domain/entities"
	"github.com/tubetext/tubetext/internal/domain/repositories"
	uerrors "github.com/tubetext/tubetext/internal/usecase/errors"
	"github.com/tubetext/tubetext/pkg/config"
)

// ErrInvalidSignature means the webhook payload did not match its signature
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Service handles Stripe checkout and the webhook-driven subscription
// lifecycle.
type Service struct {
	userRepo    repositories.UserRepository
	subRepo     repositories.SubscriptionRepository
	cfg         *config.StripeConfig
	frontendURL string
	logger      *zap.Logger
}

// NewService creates a billing service. The Stripe API key is installed
// globally, matching how the stripe-go package is designed to be used.
func NewService(
	userRepo repositories.UserRepository,
	subRepo repositories.SubscriptionRepository,
	cfg *config.StripeConfig,
	frontendURL string,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg != nil && cfg.SecretKey != "" {
		stripe.Key = cfg.SecretKey
	}
	return &Service{
		userRepo:    userRepo,
		subRepo:     subRepo,
		cfg:         cfg,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

func (s *Service) priceID(plan entities.SubscriptionPlan) string {
	switch plan {
	case entities.PlanMonthly:
		return s.cfg.MonthlyPriceID
	case entities.PlanYearly:
		return s.cfg.YearlyPriceID
	case entities.PlanLifetime:
		return s.cfg.LifetimePriceID
	}
	return ""
}

// CreateCheckout starts a Stripe checkout session for the given plan and
// returns the hosted payment page URL.
func (s *Service) CreateCheckout(ctx context.Context, user *entities.User, plan entities.SubscriptionPlan) (string, error) {
	if s.cfg == nil || s.cfg.SecretKey == "" {
		return "", uerrors.ErrNotConfigured
	}
	if !plan.IsValid() {
		return "", uerrors.ErrUnknownPlan
	}
	priceID := s.priceID(plan)
	if priceID == "" {
		return "", uerrors.ErrUnknownPlan
	}

	// Lifetime is a one-time payment, the rest are recurring.
	mode := stripe.CheckoutSessionModeSubscription
	if plan == entities.PlanLifetime {
		mode = stripe.CheckoutSessionModePayment
	}

	cust, err := s.findOrCreateCustomer(user)
	if err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(mode)),
		Customer: stripe.String(cust.ID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(s.frontendURL),
		CancelURL:  stripe.String(s.frontendURL),
	}
	params.Context = ctx
	params.AddMetadata("user_id", user.ID.String())
	params.AddMetadata("plan", string(plan))

	session, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return session.URL, nil
}

func (s *Service) findOrCreateCustomer(user *entities.User) (*stripe.Customer, error) {
	listParams := &stripe.CustomerListParams{Email: stripe.String(user.Email)}
	listParams.Limit = stripe.Int64(1)
	iter := customer.List(listParams)
	for iter.Next() {
		return iter.Customer(), nil
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	cust, err := customer.New(&stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.Name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return cust, nil
}

// CustomerPortalURL returns a Stripe billing portal URL for the user
func (s *Service) CustomerPortalURL(ctx context.Context, user *entities.User) (string, error) {
	if s.cfg == nil || s.cfg.SecretKey == "" {
		return "", uerrors.ErrNotConfigured
	}

	sub, err := s.subRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, entities.ErrSubscriptionNotFound) {
			return "", uerrors.ErrNoSubscription
		}
		return "", err
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(sub.StripeCustomerID),
		ReturnURL: stripe.String(s.frontendURL),
	}
	params.Context = ctx
	session, err := bpsession.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}
	return session.URL, nil
}

// HandleWebhook verifies and applies a Stripe event. Events referencing
// unknown users or subscriptions are logged and acknowledged so Stripe
// stops retrying them.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	if s.cfg == nil || s.cfg.WebhookSecret == "" {
		return uerrors.ErrNotConfigured
	}

	event, err := webhook.ConstructEvent(payload, sigHeader, s.cfg.WebhookSecret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch string(event.Type) {
	case "checkout.session.completed":
		return s.applyCheckoutCompleted(ctx, event.Data.Raw)
	case "customer.subscription.updated":
		return s.applySubscriptionUpdated(ctx, event.Data.Raw)
	case "customer.subscription.deleted":
		return s.applySubscriptionDeleted(ctx, event.Data.Raw)
	default:
		s.logger.Debug("ignoring stripe event", zap.String("type", string(event.Type)))
		return nil
	}
}

func (s *Service) applyCheckoutCompleted(ctx context.Context, raw json.RawMessage) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	userIDStr := session.Metadata["user_id"]
	if userIDStr == "" {
		s.logger.Warn("checkout session missing user_id metadata", zap.String("session_id", session.ID))
		return nil
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		s.logger.Warn("checkout session has malformed user_id", zap.String("user_id", userIDStr))
		return nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			s.logger.Warn("checkout completed for unknown user", zap.String("user_id", userIDStr))
			return nil
		}
		return err
	}

	plan := entities.SubscriptionPlan(session.Metadata["plan"])
	if !plan.IsValid() {
		plan = entities.PlanMonthly
	}

	var customerID string
	if session.Customer != nil {
		customerID = session.Customer.ID
	}
	var stripeSubID *string
	if session.Subscription != nil {
		stripeSubID = &session.Subscription.ID
	}

	user.Tier = entities.TierPremium
	user.StripeCustomerID = &customerID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to upgrade user: %w", err)
	}

	sub, err := s.subRepo.FindByUserID(ctx, user.ID)
	switch {
	case err == nil:
		sub.Plan = plan
		sub.Status = entities.SubscriptionActive
		sub.StripeCustomerID = customerID
		sub.StripeSubscriptionID = stripeSubID
		sub.CanceledAt = nil
		if err := s.subRepo.Update(ctx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
	case errors.Is(err, entities.ErrSubscriptionNotFound):
		sub = entities.NewSubscription(user.ID, plan, customerID)
		sub.Status = entities.SubscriptionActive
		sub.StripeSubscriptionID = stripeSubID
		if err := s.subRepo.Create(ctx, sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
	default:
		return err
	}

	s.logger.Info("user upgraded to premium",
		zap.String("user_id", user.ID.String()),
		zap.String("plan", string(plan)))
	return nil
}

func (s *Service) applySubscriptionUpdated(ctx context.Context, raw json.RawMessage) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(raw, &stripeSub); err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}

	sub, user, err := s.findSubscriptionAndUser(ctx, stripeSub.ID)
	if err != nil || sub == nil {
		return err
	}

	switch stripeSub.Status {
	case stripe.SubscriptionStatusActive:
		sub.Status = entities.SubscriptionActive
		if stripeSub.CurrentPeriodEnd > 0 {
			end := time.Unix(stripeSub.CurrentPeriodEnd, 0)
			sub.CurrentPeriodEnd = &end
		}
		if user != nil {
			user.Tier = entities.TierPremium
		}
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		sub.Status = entities.SubscriptionStatus(stripeSub.Status)
		if sub.Status == entities.SubscriptionCanceled {
			now := time.Now()
			sub.CanceledAt = &now
		}
		if user != nil {
			user.Tier = entities.TierFree
		}
	default:
		s.logger.Debug("ignoring subscription status",
			zap.String("subscription_id", stripeSub.ID),
			zap.String("status", string(stripeSub.Status)))
		return nil
	}

	if err := s.subRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if user != nil {
		if err := s.userRepo.Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update user tier: %w", err)
		}
	}
	s.logger.Info("subscription updated",
		zap.String("subscription_id", stripeSub.ID),
		zap.String("status", string(stripeSub.Status)))
	return nil
}

func (s *Service) applySubscriptionDeleted(ctx context.Context, raw json.RawMessage) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(raw, &stripeSub); err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}

	sub, user, err := s.findSubscriptionAndUser(ctx, stripeSub.ID)
	if err != nil || sub == nil {
		return err
	}

	now := time.Now()
	sub.Status = entities.SubscriptionCanceled
	sub.CanceledAt = &now
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	if user != nil {
		user.Tier = entities.TierFree
		if err := s.userRepo.Update(ctx, user); err != nil {
			return fmt.Errorf("failed to downgrade user: %w", err)
		}
	}
	s.logger.Info("subscription cancelled", zap.String("subscription_id", stripeSub.ID))
	return nil
}

func (s *Service) findSubscriptionAndUser(ctx context.Context, stripeSubID string) (*entities.Subscription, *entities.User, error) {
	sub, err := s.subRepo.FindByStripeSubscriptionID(ctx, stripeSubID)
	if err != nil {
		if errors.Is(err, entities.ErrSubscriptionNotFound) {
			s.logger.Warn("webhook for unknown subscription", zap.String("subscription_id", stripeSubID))
			return nil, nil, nil
		}
		return nil, nil, err
	}

	user, err := s.userRepo.FindByID(ctx, sub.UserID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return sub, nil, nil
		}
		return nil, nil, err
	}
	return sub, user, nil
}
