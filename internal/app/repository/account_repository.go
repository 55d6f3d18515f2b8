package repository

import (
	"context"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/pkg/logger"
	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id string) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	TouchSignIn(ctx context.Context, id string, at time.Time) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	logger.Debug("Creating account in database", map[string]interface{}{
		"email": account.Email,
	})

	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		logger.Error("Failed to create account in database", err, map[string]interface{}{
			"email": account.Email,
		})
		return err
	}
	return nil
}

func (r *accountRepository) FindByID(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Update("last_sign_in_at", at).Error
}
