package entities

import (
	"time"

	"github.com/google/uuid"
)

// Subscription tracks a user's Stripe billing state
type Subscription struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`

	Plan   SubscriptionPlan   `json:"plan" gorm:"type:varchar(50);not null"`
	Status SubscriptionStatus `json:"status" gorm:"type:varchar(50);default:'incomplete';not null"`

	StripeCustomerID     string  `json:"-" gorm:"column:stripe_customer_id;type:varchar(255);index;not null"`
	StripeSubscriptionID *string `json:"-" gorm:"column:stripe_subscription_id;type:varchar(255);uniqueIndex"`

	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty" gorm:"type:timestamp"`
	CanceledAt       *time.Time `json:"canceled_at,omitempty" gorm:"type:timestamp"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SubscriptionPlan identifies the purchased plan
type SubscriptionPlan string

const (
	PlanMonthly  SubscriptionPlan = "monthly"
	PlanYearly   SubscriptionPlan = "yearly"
	PlanLifetime SubscriptionPlan = "lifetime"
)

// IsValid checks if the plan is valid
func (p SubscriptionPlan) IsValid() bool {
	switch p {
	case PlanMonthly, PlanYearly, PlanLifetime:
		return true
	}
	return false
}

// SubscriptionStatus mirrors the Stripe subscription lifecycle
type SubscriptionStatus string

const (
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionPastDue    SubscriptionStatus = "past_due"
	SubscriptionCanceled   SubscriptionStatus = "canceled"
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
)

// IsActive reports whether the subscription currently grants premium access.
// Lifetime purchases never expire.
func (s *Subscription) IsActive() bool {
	if s.Plan == PlanLifetime {
		return s.Status == SubscriptionActive
	}
	if s.Status != SubscriptionActive {
		return false
	}
	if s.CurrentPeriodEnd != nil && s.CurrentPeriodEnd.Before(time.Now()) {
		return false
	}
	return true
}

// NewSubscription creates a subscription in the incomplete state
func NewSubscription(userID uuid.UUID, plan SubscriptionPlan, stripeCustomerID string) *Subscription {
	now := time.Now()
	return &Subscription{
		ID:               uuid.New(),
		UserID:           userID,
		Plan:             plan,
		Status:           SubscriptionIncomplete,
		StripeCustomerID: stripeCustomerID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
