package model

import (
	"context"
	"strings"
	"wiremill/internal/auth"
	"wiremill/internal/config"
	"wiremill/internal/entity"
)

// SeedDefaultAdmin creates the bootstrap administrator account when the
// user table is empty. An existing installation is never modified.
func SeedDefaultAdmin(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	count, err := repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" {
		email = "admin@example.com"
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	admin := entity.DbUser{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  cfg.SeedAdminName,
		Role:         entity.UserRoleAdmin,
		IsActive:     true,
	}
	return repo.CreateUser(ctx, &admin)
}
