package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateSessionToken(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		email   string
		wantErr bool
	}{
		{
			name:    "Valid token generation",
			userID:  "7d9f7c2e-3b1a-4c55-9a51-0a8b2d6f1e11",
			email:   "vendor@example.com",
			wantErr: false,
		},
		{
			name:    "Empty user id",
			userID:  "",
			email:   "vendor@example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateSessionToken(tt.userID, tt.email, testSecret, 15*time.Minute)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, token)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, token)
			assert.NotEmpty(t, token.AccessToken)
			assert.Equal(t, "Bearer", token.TokenType)
			assert.True(t, token.ExpiresAt.After(time.Now()))
		})
	}
}

func TestValidateToken(t *testing.T) {
	userID := "user-123"
	email := "test@example.com"

	token, err := GenerateSessionToken(userID, email, testSecret, 15*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{
			name:    "Valid token",
			token:   token.AccessToken,
			secret:  testSecret,
			wantErr: nil,
		},
		{
			name:    "Invalid secret",
			token:   token.AccessToken,
			secret:  "wrong-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Invalid token format",
			token:   "invalid.token.format",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Empty token",
			token:   "",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, userID, claims.UserID)
				assert.Equal(t, email, claims.Email)
				assert.NotEmpty(t, claims.ID)
			}
		})
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateSessionToken("user-1", "test@example.com", testSecret, -time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestTokensAreUnique(t *testing.T) {
	a, err := GenerateSessionToken("user-1", "test@example.com", testSecret, time.Minute)
	require.NoError(t, err)
	b, err := GenerateSessionToken("user-1", "test@example.com", testSecret, time.Minute)
	require.NoError(t, err)

	assert.NotEqual(t, a.AccessToken, b.AccessToken)
}
