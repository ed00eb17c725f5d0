package main

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artfolio/artfolio-api/internal/config"
	"github.com/artfolio/artfolio-api/internal/domain/user"
	"github.com/artfolio/artfolio-api/internal/pkg/database"
	"github.com/artfolio/artfolio-api/internal/pkg/password"
)

// Bootstraps the first admin account from ADMIN_EMAIL / ADMIN_PASSWORD.
// Safe to run repeatedly; an existing account is left untouched.
func main() {
	cfg := config.Load()

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal().Msg("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx := context.Background()
	repo := user.NewRepository(db)
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	existing, err := repo.GetByEmail(ctx, email)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to look up admin account")
	}
	if existing != nil {
		log.Info().Str("email", email).Msg("Admin account already exists")
		return
	}

	hash, err := password.Hash(cfg.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash admin password")
	}

	now := time.Now()
	admin := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := repo.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin account")
	}

	log.Info().Str("email", email).Msg("Admin account created")
}
