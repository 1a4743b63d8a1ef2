package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	config "github.com/anjiri1684/agriconnect/configs"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/anjiri1684/agriconnect/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnLifetime)

	log.Info("database connected")
	return db, nil
}

// activeSlotIndex stops two live bookings from claiming the same start slot.
const activeSlotIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_slot
	ON bookings (expert_id, booking_date, booking_time)
	WHERE status IN ('pending', 'confirmed')`

func Migrate(db *gorm.DB, log *slog.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Expert{},
		&models.Booking{},
		&models.Review{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	if err := db.Exec(activeSlotIndex).Error; err != nil {
		return fmt.Errorf("create booking slot index: %w", err)
	}
	log.Info("database migration successful")
	return nil
}

// SeedAdmin creates the admin account named in cfg unless it already exists.
func SeedAdmin(ctx context.Context, users repository.UserRepository, cfg config.AdminConfig, log *slog.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		log.Warn("admin credentials not configured, skipping admin seed")
		return nil
	}

	_, err := users.FindByEmail(ctx, cfg.Email)
	if err == nil {
		log.Debug("admin user already exists")
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("check for admin user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &models.User{
		FullName: cfg.FullName,
		Email:    cfg.Email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("seed admin user: %w", err)
	}
	log.Info("admin user seeded")
	return nil
}
