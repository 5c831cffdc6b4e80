package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name    string
		email   string
		role    string
		userUID string
	}{
		{
			name:    "librarian",
			email:   "librarian@library.local",
			role:    "librarian",
			userUID: "7f1b6d94-1d10-4c57-8a1e-2b64c6f0a111",
		},
		{
			name:    "borrower",
			email:   "reader@example.com",
			role:    "borrower",
			userUID: "8d3a6f2e-5a60-4f0c-9f3e-0b2c5a1d7e44",
		},
		{
			name:    "email with plus sign",
			email:   "reader+books@example.com",
			role:    "borrower",
			userUID: "03bb1fd0-9102-4c43-95c8-6df2a40d0f02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.email, tt.role, tt.userUID)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, tt.userUID, claims.UserUID)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "garbage string",
			token: func(_ *testing.T) string {
				return "not.a.token"
			},
		},
		{
			name: "empty string",
			token: func(_ *testing.T) string {
				return ""
			},
		},
		{
			name: "wrong signing key",
			token: func(t *testing.T) string {
				other := NewJWTMaker("another_secret_key", 15*time.Minute)
				token, err := other.GenerateToken("reader@example.com", "borrower", "uid")
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "expired token",
			token: func(t *testing.T) string {
				expired := NewJWTMaker("test_secret_key_1234567890", -time.Minute)
				token, err := expired.GenerateToken("reader@example.com", "borrower", "uid")
				require.NoError(t, err)
				return token
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token(t))
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
