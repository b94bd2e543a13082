// Command migrate brings the store schema up to date and bootstraps the first administrator.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"shop_backend/internal/app/config"
	"shop_backend/internal/app/di"
	"shop_backend/internal/feature/auth/domain/entity"
	authusecase "shop_backend/internal/feature/auth/usecase"
	"shop_backend/internal/shared/ids"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg := config.LoadConfigFromEnv()
	// migrations always run here, whatever RUN_MIGRATIONS says
	cfg.Store.RunMigrations = true

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := di.OpenStore(ctx, cfg)
	if err != nil {
		slog.Error("migration failed", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	if err := bootstrapAdmin(ctx, store.Users, cfg.Admin); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}
	slog.Info("migrate ok", "driver", cfg.Store.Driver)
}

// bootstrapAdmin creates the configured administrator unless that email is already taken.
func bootstrapAdmin(ctx context.Context, users di.UserStore, admin config.AdminConfig) error {
	if admin.Email == "" || admin.Password == "" {
		slog.Info("ADMIN_EMAIL or ADMIN_PASSWORD not set; skipping admin bootstrap")
		return nil
	}
	email := authusecase.NormalizeEmail(admin.Email)
	if _, err := users.FindByEmail(ctx, email); err == nil {
		slog.Info("admin already present", "email", email)
		return nil
	} else if !errors.Is(err, authusecase.ErrUserNotFound) {
		return err
	}

	hash, err := authusecase.HashPassword(admin.Password)
	if err != nil {
		return err
	}
	if err := users.Create(ctx, &entity.User{
		ID:       ids.New(),
		Name:     admin.Name,
		Email:    email,
		Password: hash,
		Role:     entity.RoleAdmin,
	}); err != nil {
		return err
	}
	slog.Info("admin created", "email", email)
	return nil
}
