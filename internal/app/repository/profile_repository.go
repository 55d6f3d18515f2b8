package repository

import (
	"context"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository reads and writes the role rows used for access gating.
type ProfileRepository interface {
	// FindByID returns gorm.ErrRecordNotFound when the row is missing.
	FindByID(ctx context.Context, id string) (*model.UserProfile, error)
	Upsert(ctx context.Context, profile *model.UserProfile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByID(ctx context.Context, id string) (*model.UserProfile, error) {
	logger.Debug("Finding profile by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var profile model.UserProfile
	if err := r.db.WithContext(ctx).Select("id", "role").Where("id = ?", id).First(&profile).Error; err != nil {
		logger.Warn("Profile lookup failed", map[string]interface{}{
			"user_id": id,
			"error":   err.Error(),
		})
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *model.UserProfile) error {
	profile.UpdatedAt = time.Now()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		logger.Error("Failed to upsert profile", err, map[string]interface{}{
			"user_id": profile.ID,
			"role":    profile.Role,
		})
		return err
	}

	logger.Debug("Profile upserted", map[string]interface{}{
		"user_id": profile.ID,
		"role":    profile.Role,
	})
	return nil
}
