package service

import (
	"context"
	"testing"
	"time"

	"github.com/cuckooblock/vendor-portal/internal/app/workflow"
	"github.com/cuckooblock/vendor-portal/pkg/redis"
	"github.com/cuckooblock/vendor-portal/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-session-secret"

func setupAuthServiceTest(t *testing.T) (AuthService, testRepos) {
	repos := setupRepos(t)
	svc := NewAuthService(repos.accounts, repos.profiles, redis.NewMemoryTokenStore(), testSecret, time.Hour)
	return svc, repos
}

func TestAuthService_SignUp(t *testing.T) {
	svc, repos := setupAuthServiceTest(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "Valid sign-up", email: "Vendor@Example.com ", password: "password123"},
		{name: "Duplicate email", email: "vendor@example.com", password: "password456", wantErr: ErrEmailAlreadyExists},
		{name: "Weak password", email: "other@example.com", password: "123", wantErr: util.ErrWeakPassword},
		{name: "Missing email", email: "  ", password: "password123", wantErr: ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, token, err := svc.SignUp(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, account)
				assert.Nil(t, token)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, account)
			require.NotNil(t, token)
			assert.Equal(t, "vendor@example.com", account.Email)
			assert.NotEmpty(t, account.ID)
			assert.NotEqual(t, "password123", account.PasswordHash)

			profile, err := repos.profiles.FindByID(ctx, account.ID)
			require.NoError(t, err)
			assert.Equal(t, string(workflow.RoleVendor), profile.Role)
		})
	}
}

func TestAuthService_SignIn(t *testing.T) {
	svc, repos := setupAuthServiceTest(t)
	ctx := context.Background()

	created, _, err := svc.SignUp(ctx, "vendor@example.com", "password123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "Valid sign-in", email: "vendor@example.com", password: "password123"},
		{name: "Wrong password", email: "vendor@example.com", password: "wrong-password", wantErr: ErrInvalidCredentials},
		{name: "Unknown email", email: "nobody@example.com", password: "password123", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, token, err := svc.SignIn(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, account)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, account.ID)
			assert.NotEmpty(t, token.AccessToken)

			stored, err := repos.accounts.FindByID(ctx, created.ID)
			require.NoError(t, err)
			assert.NotNil(t, stored.LastSignInAt)
		})
	}
}

func TestAuthService_SessionLifecycle(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	ctx := context.Background()

	account, token, err := svc.SignUp(ctx, "vendor@example.com", "password123")
	require.NoError(t, err)

	session, err := svc.GetSession(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, session.UserID)
	assert.Equal(t, account.Email, session.Email)
	assert.NotEmpty(t, session.TokenID)

	require.NoError(t, svc.SignOut(ctx, token.AccessToken))

	_, err = svc.GetSession(ctx, token.AccessToken)
	assert.ErrorIs(t, err, ErrSessionRevoked)
}

func TestAuthService_GetSessionRejectsGarbage(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	_, err := svc.GetSession(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, util.ErrInvalidToken)

	assert.NoError(t, svc.SignOut(context.Background(), "not-a-token"))
}
