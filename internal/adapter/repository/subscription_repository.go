package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tubetext/tubetext/internal/domain/entities"
)

// SubscriptionRepository implements the subscription repository interface using GORM
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{
		db: db,
	}
}

// Create creates a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, sub *entities.Subscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// FindByUserID finds the most recent subscription for a user
func (r *SubscriptionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error) {
	var sub entities.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&sub).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to find subscription by user: %w", err)
	}
	return &sub, nil
}

// FindByStripeSubscriptionID finds a subscription by its Stripe identifier
func (r *SubscriptionRepository) FindByStripeSubscriptionID(ctx context.Context, stripeSubID string) (*entities.Subscription, error) {
	var sub entities.Subscription
	if err := r.db.WithContext(ctx).
		Where("stripe_subscription_id = ?", stripeSubID).
		First(&sub).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to find subscription by stripe ID: %w", err)
	}
	return &sub, nil
}

// Update updates a subscription
func (r *SubscriptionRepository) Update(ctx context.Context, sub *entities.Subscription) error {
	if err := r.db.WithContext(ctx).Save(sub).Error; err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return nil
}
