// seed creates the initial admin account in the configured database.
// Run: SEED_ADMIN_EMAIL=... SEED_ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ErlanBelekov/groupsite-api/internal/domain"
	"github.com/ErlanBelekov/groupsite-api/internal/infrastructure/database"
	"github.com/ErlanBelekov/groupsite-api/internal/password"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type seedConfig struct {
	DatabaseURL   string `env:"DATABASE_URL,required"        validate:"required"`
	AdminEmail    string `env:"SEED_ADMIN_EMAIL,required"    validate:"required,email"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD,required" validate:"required,min=8,max=72"`
	BcryptCost    int    `env:"BCRYPT_COST" envDefault:"12"  validate:"min=10,max=14"`
}

func main() {
	var cfg seedConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse env: %v", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		log.Fatalf("invalid seed config: %v", err)
	}

	ctx := context.Background()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		log.Fatalf("migrate: %v", err)
	}

	hasher, err := password.NewHasher(cfg.BcryptCost)
	if err != nil {
		db.Close()
		log.Fatalf("hasher: %v", err)
	}
	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		db.Close()
		log.Fatalf("hash password: %v", err)
	}

	users := database.NewUserRepository(db)
	user, err := users.Create(ctx, &domain.User{Email: cfg.AdminEmail, PasswordHash: hash, Role: domain.RoleAdmin})
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		fmt.Printf("Admin %s already exists, nothing to do\n", cfg.AdminEmail)
		return
	case err != nil:
		db.Close()
		log.Fatalf("create admin: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Admin:    %s\n", user.Email)
	fmt.Printf("  User ID:  %s\n", user.ID)
	fmt.Println()
	fmt.Println("Log in with:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/api/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"...\"}'\n", user.Email)
}
