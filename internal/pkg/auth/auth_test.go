package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/cafe-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Cafe Test"},
		JWT: config.JWTConfig{
			Secret:            "a-test-secret-that-is-long-enough-for-hs256",
			AccessTokenExpiry: time.Hour,
		},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, expiresAt, err := manager.GenerateAccessToken(7658129475, "BARISTA")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7658129475), claims.UserID)
	assert.Equal(t, "BARISTA", claims.Role)
	assert.Equal(t, "user:7658129475", claims.Subject)
}

func TestValidateAccessTokenRejects(t *testing.T) {
	cfg := testConfig()
	manager := NewJWTManager(cfg)

	expired := testConfig()
	expired.JWT.AccessTokenExpiry = -time.Minute
	expiredToken, _, err := NewJWTManager(expired).GenerateAccessToken(1, "CLIENT")
	require.NoError(t, err)

	otherSecret := testConfig()
	otherSecret.JWT.Secret = "another-secret-that-is-long-enough-for-hs256"
	foreignToken, _, err := NewJWTManager(otherSecret).GenerateAccessToken(1, "ADMIN")
	require.NoError(t, err)

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           1,
		TokenType:        "refresh",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: cfg.App.Name},
	})
	refreshToken, err := refresh.SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":      "not-a-token",
		"expired":      expiredToken,
		"wrong secret": foreignToken,
		"wrong type":   refreshToken,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := manager.ValidateAccessToken(token)
			assert.Error(t, err)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Bearer "))
}

func TestKeyVerifier(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	assert.Len(t, key, MinKeyLength*2)

	hash, err := HashKey(key, bcrypt.MinCost)
	require.NoError(t, err)

	verifier := NewKeyVerifier(hash)
	assert.NoError(t, verifier.Verify(key))
	assert.ErrorIs(t, verifier.Verify(key+"x"), ErrInvalidAPIKey)
	assert.ErrorIs(t, verifier.Verify(""), ErrInvalidAPIKey)

	assert.ErrorIs(t, NewKeyVerifier("").Verify(key), ErrInvalidAPIKey, "no configured hash rejects everything")

	_, err = HashKey("short", bcrypt.MinCost)
	assert.Error(t, err)
}
