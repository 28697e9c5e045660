package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/tubetext/tubetext/internal/domain/entities"
)

// SubscriptionRepository defines the interface for subscription data access
type SubscriptionRepository interface {
	// Create creates a new subscription
	Create(ctx context.Context, sub *entities.Subscription) error

	// FindByUserID finds the most recent subscription for a user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error)

	// FindByStripeSubscriptionID finds a subscription by its Stripe identifier
	FindByStripeSubscriptionID(ctx context.Context, stripeSubID string) (*entities.Subscription, error)

	// Update updates a subscription
	Update(ctx context.Context, sub *entities.Subscription) error
}
