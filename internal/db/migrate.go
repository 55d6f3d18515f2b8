package db

import (
	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/pkg/logger"
	"gorm.io/gorm"
)

// Models is every table owned by the service, in creation order.
func Models() []interface{} {
	return []interface{}{
		&model.Account{},
		&model.UserProfile{},
		&model.VendorProfile{},
		&model.IntakeLead{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB runs the migrations against an explicit handle.
func MigrateDB(gdb *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := gdb.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
