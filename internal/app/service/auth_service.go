package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/internal/app/repository"
	"github.com/cuckooblock/vendor-portal/internal/app/workflow"
	"github.com/cuckooblock/vendor-portal/internal/metrics"
	"github.com/cuckooblock/vendor-portal/pkg/logger"
	"github.com/cuckooblock/vendor-portal/pkg/redis"
	"github.com/cuckooblock/vendor-portal/pkg/util"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("a valid email is required")
	ErrSessionRevoked     = errors.New("session has been signed out")
)

// Session is the identity carried by a valid, unrevoked session token.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*model.Account, *util.SessionToken, error)
	SignIn(ctx context.Context, email, password string) (*model.Account, *util.SessionToken, error)
	// GetSession validates token and checks it has not been signed out.
	GetSession(ctx context.Context, token string) (*Session, error)
	SignOut(ctx context.Context, token string) error
}

type authService struct {
	accountRepo repository.AccountRepository
	profileRepo repository.ProfileRepository
	tokens      redis.TokenStore
	secret      string
	ttl         time.Duration
	now         func() time.Time
}

func NewAuthService(
	accountRepo repository.AccountRepository,
	profileRepo repository.ProfileRepository,
	tokens redis.TokenStore,
	secret string,
	ttl time.Duration,
) AuthService {
	return &authService{
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		tokens:      tokens,
		secret:      secret,
		ttl:         ttl,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SignUp(ctx context.Context, email, password string) (*model.Account, *util.SessionToken, error) {
	email = normalizeEmail(email)
	logger.Info("Attempting sign-up", map[string]interface{}{
		"email": email,
	})

	if email == "" || !strings.Contains(email, "@") {
		metrics.RecordAuth("signup", "failure")
		return nil, nil, ErrInvalidEmail
	}

	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing account", err, map[string]interface{}{
			"email": email,
		})
		metrics.RecordAuth("signup", "failure")
		return nil, nil, err
	}
	if existing != nil {
		logger.Warn("Sign-up failed: email already exists", map[string]interface{}{
			"email": email,
		})
		metrics.RecordAuth("signup", "failure")
		return nil, nil, ErrEmailAlreadyExists
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		metrics.RecordAuth("signup", "failure")
		return nil, nil, err
	}

	account := &model.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		metrics.RecordAuth("signup", "failure")
		return nil, nil, err
	}

	// A missing profile row only degrades role lookup, which fails open.
	if err := s.profileRepo.Upsert(ctx, &model.UserProfile{ID: account.ID, Role: string(workflow.RoleVendor)}); err != nil {
		logger.Error("Failed to create profile for new account", err, map[string]interface{}{
			"user_id": account.ID,
		})
	}

	token, err := util.GenerateSessionToken(account.ID, account.Email, s.secret, s.ttl)
	if err != nil {
		logger.Error("Failed to generate session token", err, map[string]interface{}{
			"user_id": account.ID,
		})
		metrics.RecordAuth("signup", "failure")
		return nil, nil, err
	}

	logger.Info("Account signed up", map[string]interface{}{
		"user_id": account.ID,
		"email":   email,
	})
	metrics.RecordAuth("signup", "success")
	return account, token, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*model.Account, *util.SessionToken, error) {
	email = normalizeEmail(email)
	logger.Info("Sign-in attempt", map[string]interface{}{
		"email": email,
	})

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Sign-in failed: account not found", map[string]interface{}{
				"email": email,
			})
			metrics.RecordAuth("signin", "failure")
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find account", err, map[string]interface{}{
			"email": email,
		})
		metrics.RecordAuth("signin", "failure")
		return nil, nil, err
	}

	if !util.VerifyPassword(account.PasswordHash, password) {
		logger.Warn("Sign-in failed: invalid password", map[string]interface{}{
			"user_id": account.ID,
		})
		metrics.RecordAuth("signin", "failure")
		return nil, nil, ErrInvalidCredentials
	}

	token, err := util.GenerateSessionToken(account.ID, account.Email, s.secret, s.ttl)
	if err != nil {
		logger.Error("Failed to generate session token", err, map[string]interface{}{
			"user_id": account.ID,
		})
		metrics.RecordAuth("signin", "failure")
		return nil, nil, err
	}

	if err := s.accountRepo.TouchSignIn(ctx, account.ID, s.now()); err != nil {
		logger.Warn("Failed to record sign-in time", map[string]interface{}{
			"user_id": account.ID,
			"error":   err.Error(),
		})
	}

	logger.Info("Account signed in", map[string]interface{}{
		"user_id": account.ID,
	})
	metrics.RecordAuth("signin", "success")
	return account, token, nil
}

func (s *authService) GetSession(ctx context.Context, token string) (*Session, error) {
	claims, err := util.ValidateToken(token, s.secret)
	if err != nil {
		return nil, err
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrSessionRevoked
	}

	session := &Session{
		UserID:  claims.UserID,
		Email:   claims.Email,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func (s *authService) SignOut(ctx context.Context, token string) error {
	claims, err := util.ValidateToken(token, s.secret)
	if err != nil {
		// an expired or foreign token is already unusable
		return nil
	}

	ttl := time.Hour
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	if err := s.tokens.Revoke(ctx, claims.ID, ttl); err != nil {
		return err
	}

	logger.Info("Account signed out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}
