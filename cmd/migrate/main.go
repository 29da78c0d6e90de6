package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/itam/backend/internal/domain/identity"
	"github.com/itam/backend/internal/domain/settings"
	"github.com/itam/backend/internal/infrastructure/config"
	"github.com/itam/backend/internal/infrastructure/logger"
	"github.com/itam/backend/internal/infrastructure/persistence"
)

func main() {
	var (
		logLevel      string
		adminPassword string
		skipSeed      bool
	)
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&adminPassword, "admin-password", "", "Password for the seeded admin user (defaults to $INVENTORY_ADMIN_PASSWORD)")
	flag.BoolVar(&skipSeed, "skip-seed", false, "Run migrations only, without seeding")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Migrations applied", zap.String("path", cfg.Database.Path))

	if skipSeed {
		return
	}

	ctx := context.Background()
	if err := seedAdmin(ctx, db, adminPassword, log); err != nil {
		log.Fatal("Failed to seed admin user", zap.Error(err))
	}
	if err := seedSettings(ctx, db, log); err != nil {
		log.Fatal("Failed to seed settings", zap.Error(err))
	}
}

// seedAdmin creates the initial admin account when the user table is empty
func seedAdmin(ctx context.Context, db *persistence.Database, password string, log *zap.Logger) error {
	users := persistence.NewGormUserRepository(db.DB)

	existing, err := users.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info("Users already present, skipping admin seed", zap.Int("count", len(existing)))
		return nil
	}

	if password == "" {
		password = os.Getenv("INVENTORY_ADMIN_PASSWORD")
	}
	if password == "" {
		return fmt.Errorf("no admin password supplied: use -admin-password or INVENTORY_ADMIN_PASSWORD")
	}

	admin, err := identity.NewUser("admin", password, true)
	if err != nil {
		return err
	}
	admin.DisplayName = "Administrator"
	if err := users.Save(ctx, admin); err != nil {
		return err
	}
	log.Info("Admin user created", zap.String("username", admin.Username))
	return nil
}

// seedSettings writes defaults for settings keys that have never been set
func seedSettings(ctx context.Context, db *persistence.Database, log *zap.Logger) error {
	repo := persistence.NewGormSettingRepository(db.DB)

	defaults := map[string]string{
		settings.KeyAppName:        settings.DefaultAppName,
		settings.KeyAssetTagPrefix: settings.DefaultAssetTagPrefix,
	}
	for key, value := range defaults {
		if _, err := repo.Get(ctx, key); err == nil {
			continue
		}
		if err := repo.Set(ctx, key, value); err != nil {
			return err
		}
		log.Info("Setting seeded", zap.String("key", key), zap.String("value", value))
	}
	return nil
}
