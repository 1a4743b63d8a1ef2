package database

import (
	"context"
	"io"
	"log/slog"
	"testing"

	config "github.com/anjiri1684/agriconnect/configs"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/repository"
)

func TestSeedAdminIsIdempotent(t *testing.T) {
	store := repository.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.AdminConfig{Email: "admin@agriconnect.ng", Password: "change-me", FullName: "Admin"}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := SeedAdmin(ctx, store.Users(), cfg, log); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	admin, err := store.Users().FindByEmail(ctx, cfg.Email)
	if err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}
}

func TestSeedAdminSkipsWithoutCredentials(t *testing.T) {
	store := repository.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := SeedAdmin(context.Background(), store.Users(), config.AdminConfig{}, log); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestConnectRequiresURL(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := Connect(config.DatabaseConfig{}, log); err == nil {
		t.Fatalf("expected an error without DATABASE_URL")
	}
}
