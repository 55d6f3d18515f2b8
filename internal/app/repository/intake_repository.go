package repository

import (
	"context"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"gorm.io/gorm"
)

type IntakeRepository interface {
	Create(ctx context.Context, lead *model.IntakeLead) error
	ListRecent(ctx context.Context, limit int) ([]model.IntakeLead, error)
}

type intakeRepository struct {
	db *gorm.DB
}

func NewIntakeRepository(db *gorm.DB) IntakeRepository {
	return &intakeRepository{db: db}
}

func (r *intakeRepository) Create(ctx context.Context, lead *model.IntakeLead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *intakeRepository) ListRecent(ctx context.Context, limit int) ([]model.IntakeLead, error) {
	var leads []model.IntakeLead
	err := r.db.WithContext(ctx).Order("submitted_at DESC").Limit(limit).Find(&leads).Error
	return leads, err
}
