package auth

import (
	"context"
	"fmt"

	"github.com/tubetext/tubetext/internal/domain/entities"
	"github.com/tubetext/tubetext/internal/domain/repositories"
	"github.com/tubetext/tubetext/internal/infrastructure/external/oauth"
	"github.com/tubetext/tubetext/pkg/jwt"
)

// OAuthService handles OAuth authentication
type OAuthService struct {
	userRepo     repositories.UserRepository
	google       *oauth.GoogleProvider
	stateManager *oauth.StateManager
	jwtManager   *jwt.Manager
}

// NewOAuthService creates a new OAuth service
func NewOAuthService(
	userRepo repositories.UserRepository,
	google *oauth.GoogleProvider,
	stateManager *oauth.StateManager,
	jwtManager *jwt.Manager,
) *OAuthService {
	return &OAuthService{
		userRepo:     userRepo,
		google:       google,
		stateManager: stateManager,
		jwtManager:   jwtManager,
	}
}

// GetGoogleAuthURL generates a Google OAuth URL with a fresh state token
func (s *OAuthService) GetGoogleAuthURL(ctx context.Context) (string, error) {
	state, err := s.stateManager.GenerateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return s.google.GetAuthURL(state), nil
}

// AuthResult is a signed-in user plus their access token
type AuthResult struct {
	User        *entities.User
	AccessToken string
	ExpiresIn   int64
}

// HandleGoogleCallback validates the OAuth callback, upserts the user and
// issues an access token.
func (s *OAuthService) HandleGoogleCallback(ctx context.Context, code, state string) (*AuthResult, error) {
	if !s.stateManager.ValidateState(state) {
		return nil, entities.ErrOAuthStateMismatch
	}

	token, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	googleUser, err := s.google.GetUserInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	user, err := s.userRepo.FindByOAuth(ctx, "google", googleUser.ID)
	switch err {
	case nil:
		// Returning user; refresh the profile bits Google may have changed.
		user.Name = googleUser.Name
		if googleUser.Picture != "" {
			user.AvatarURL = &googleUser.Picture
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to update last login: %w", err)
		}
	case entities.ErrUserNotFound:
		// A user may have signed up with the same email before; link the
		// Google identity instead of creating a duplicate.
		existing, lookupErr := s.userRepo.FindByEmail(ctx, googleUser.Email)
		if lookupErr == nil {
			provider := "google"
			existing.OAuthProvider = &provider
			existing.OAuthID = &googleUser.ID
			if googleUser.Picture != "" {
				existing.AvatarURL = &googleUser.Picture
			}
			if err := s.userRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("failed to link accounts: %w", err)
			}
			user = existing
			break
		}
		if lookupErr != entities.ErrUserNotFound {
			return nil, fmt.Errorf("failed to look up user: %w", lookupErr)
		}

		var avatar *string
		if googleUser.Picture != "" {
			avatar = &googleUser.Picture
		}
		user = entities.NewOAuthUser("google", googleUser.ID, googleUser.Email, googleUser.Name, avatar)
		if googleUser.Locale != "" {
			user.Language = googleUser.Locale
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, string(user.Tier))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResult{
		User:        user,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtManager.GetExpiry().Seconds()),
	}, nil
}

// ValidateAccessToken resolves an access token to its user
func (s *OAuthService) ValidateAccessToken(ctx context.Context, token string) (*entities.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, entities.ErrInvalidToken
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
