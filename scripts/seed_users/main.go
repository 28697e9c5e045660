package main

import (
	"context"
	"fmt"
	"log"

	"github.com/tubetext/tubetext/internal/adapter/repository"
	"github.com/tubetext/tubetext/internal/domain/entities"
	"github.com/tubetext/tubetext/internal/infrastructure/database"
	"github.com/tubetext/tubetext/pkg/config"
	pkgjwt "github.com/tubetext/tubetext/pkg/jwt"
)

// Seeds local test users and prints ready-to-use access tokens.
func main() {
	log.Println("🚀 Seeding test users...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Server.Environment == "production" {
		log.Fatalf("Refusing to seed test users in production")
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	userRepo := repository.NewUserRepository(db)
	ctx := context.Background()

	testUsers := []struct {
		Email string
		Name  string
		Tier  entities.UserTier
	}{
		{Email: "alice@test.local", Name: "Alice", Tier: entities.TierFree},
		{Email: "bob@test.local", Name: "Bob", Tier: entities.TierPremium},
	}

	for _, tu := range testUsers {
		user, err := userRepo.FindByEmail(ctx, tu.Email)
		switch err {
		case nil:
			log.Printf("👤 %s already exists", tu.Email)
		case entities.ErrUserNotFound:
			oauthID := "seed-" + tu.Email
			user = entities.NewOAuthUser("seed", oauthID, tu.Email, tu.Name, nil)
			user.Tier = tu.Tier
			if err := userRepo.Create(ctx, user); err != nil {
				log.Fatalf("Failed to create %s: %v", tu.Email, err)
			}
			log.Printf("✅ Created %s (%s)", tu.Email, tu.Tier)
		default:
			log.Fatalf("Failed to look up %s: %v", tu.Email, err)
		}

		token, err := jwtManager.GenerateAccessToken(user.ID, user.Email, string(user.Tier))
		if err != nil {
			log.Fatalf("Failed to generate token for %s: %v", tu.Email, err)
		}
		fmt.Printf("\n%s (%s)\n  token: %s\n", user.Email, user.Tier, token)
	}
}
