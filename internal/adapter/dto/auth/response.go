package auth

import (
	"time"

	"github.com/tubetext/tubetext/internal/domain/entities"
)

// UserResponse is the public view of a user
type UserResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Tier      string     `json:"tier"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Language  string     `json:"language"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login_at,omitempty"`
}

// NewUserResponse maps a user entity to its public view
func NewUserResponse(u *entities.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Tier:      string(u.Tier),
		AvatarURL: u.AvatarURL,
		Language:  u.Language,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLoginAt,
	}
}

// MeResponse wraps the signed-in user
type MeResponse struct {
	Success bool          `json:"success"`
	User    *UserResponse `json:"user"`
}
