package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User represents a user in the system
type User struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name  string    `json:"name" gorm:"type:varchar(255);not null"`
	Tier  UserTier  `json:"tier" gorm:"type:varchar(50);default:'free';not null"`

	// OAuth fields
	OAuthProvider *string `json:"oauth_provider,omitempty" gorm:"column:oauth_provider;type:varchar(50);index:idx_oauth"`
	OAuthID       *string `json:"oauth_id,omitempty" gorm:"column:oauth_id;type:varchar(255);index:idx_oauth"`

	// Profile
	AvatarURL *string `json:"avatar_url,omitempty" gorm:"type:varchar(500)"`
	Language  string  `json:"language" gorm:"type:varchar(10);default:'en';not null"`

	// Billing
	StripeCustomerID *string `json:"-" gorm:"column:stripe_customer_id;type:varchar(255);index"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty" gorm:"type:timestamp"`

	// Preferences (stored as JSONB in PostgreSQL)
	Preferences datatypes.JSON `json:"preferences" gorm:"type:jsonb;default:'{}'"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// UserTier defines subscription tiers
type UserTier string

const (
	TierFree    UserTier = "free"
	TierPremium UserTier = "premium"
)

// IsValid checks if the tier is valid
func (t UserTier) IsValid() bool {
	switch t {
	case TierFree, TierPremium:
		return true
	}
	return false
}

// IsPremium reports whether the user has an active paid tier.
func (u *User) IsPremium() bool {
	return u.Tier == TierPremium
}

// NewOAuthUser creates a user from an OAuth profile with default values
func NewOAuthUser(provider, oauthID, email, name string, avatarURL *string) *User {
	now := time.Now()

	prefs, _ := json.Marshal(map[string]interface{}{
		"default_language": "en",
	})

	return &User{
		ID:            uuid.New(),
		Email:         email,
		Name:          name,
		Tier:          TierFree,
		OAuthProvider: &provider,
		OAuthID:       &oauthID,
		AvatarURL:     avatarURL,
		Language:      "en",
		LastLoginAt:   &now,
		Preferences:   datatypes.JSON(prefs),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
