package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VendorFilter narrows List. Zero value lists every profile, newest first.
type VendorFilter struct {
	Status  string
	Columns []string
}

// VendorListColumns is the column set of the admin review list.
var VendorListColumns = []string{"id", "legal_name", "status", "created_at"}

type VendorRepository interface {
	// FindByID is a nullable point select: a missing row is (nil, nil).
	FindByID(ctx context.Context, id string) (*model.VendorProfile, error)
	List(ctx context.Context, filter VendorFilter) ([]model.VendorProfile, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	// Upsert inserts or overwrites every vendor-editable column plus status.
	// created_at is only set on insert.
	Upsert(ctx context.Context, vendor *model.VendorProfile) error
	// UpdateStatus returns gorm.ErrRecordNotFound when no row has the id.
	UpdateStatus(ctx context.Context, id string, status string, at time.Time) error
}

type vendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) FindByID(ctx context.Context, id string) (*model.VendorProfile, error) {
	logger.Debug("Finding vendor by ID in database", map[string]interface{}{
		"vendor_id": id,
	})

	var vendor model.VendorProfile
	err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Take(&vendor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to find vendor by ID in database", err, map[string]interface{}{
			"vendor_id": id,
		})
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) List(ctx context.Context, filter VendorFilter) ([]model.VendorProfile, error) {
	query := r.db.WithContext(ctx).Model(&model.VendorProfile{})
	if len(filter.Columns) > 0 {
		query = query.Select(filter.Columns)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var vendors []model.VendorProfile
	if err := query.Order("created_at DESC").Find(&vendors).Error; err != nil {
		logger.Error("Failed to list vendors", err, map[string]interface{}{
			"status": filter.Status,
		})
		return nil, err
	}

	logger.Debug("Vendors listed", map[string]interface{}{
		"count":  len(vendors),
		"status": filter.Status,
	})
	return vendors, nil
}

func (r *vendorRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.VendorProfile{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *vendorRepository) Upsert(ctx context.Context, vendor *model.VendorProfile) error {
	logger.Debug("Upserting vendor in database", map[string]interface{}{
		"vendor_id": vendor.ID,
		"status":    vendor.Status,
	})

	updates := append([]string{"owner_user_id", "status", "updated_at"}, model.VendorContentColumns...)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(vendor).Error
	if err != nil {
		logger.Error("Failed to upsert vendor in database", err, map[string]interface{}{
			"vendor_id": vendor.ID,
		})
		return err
	}
	return nil
}

func (r *vendorRepository) UpdateStatus(ctx context.Context, id string, status string, at time.Time) error {
	logger.Debug("Updating vendor status in database", map[string]interface{}{
		"vendor_id": id,
		"status":    status,
	})

	result := r.db.WithContext(ctx).
		Model(&model.VendorProfile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": at,
		})
	if result.Error != nil {
		logger.Error("Failed to update vendor status", result.Error, map[string]interface{}{
			"vendor_id": id,
			"status":    status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
