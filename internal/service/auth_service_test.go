package service

import (
	"context"
	"testing"
	"time"

	"quran-coach/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService("")
	assert.Error(t, err)
}

func TestAuthService_CreateAndValidateJWT(t *testing.T) {
	svc, err := NewAuthService("test-secret")
	require.NoError(t, err)

	token, err := svc.CreateJWT(context.Background(), "user-1", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateJWT(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestAuthService_ValidateJWT_ExpiredToken(t *testing.T) {
	svc, err := NewAuthService("test-secret")
	require.NoError(t, err)

	token, err := svc.CreateJWT(context.Background(), "user-1", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateJWT(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestAuthService_ValidateJWT_WrongSecret(t *testing.T) {
	issuer, err := NewAuthService("secret-a")
	require.NoError(t, err)
	verifier, err := NewAuthService("secret-b")
	require.NoError(t, err)

	token, err := issuer.CreateJWT(context.Background(), "user-1", time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateJWT(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestAuthService_ValidateJWT_MissingUserID(t *testing.T) {
	svc, err := NewAuthService("test-secret")
	require.NoError(t, err)

	claims := &dto.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateJWT(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestAuthService_ValidateJWT_Garbage(t *testing.T) {
	svc, err := NewAuthService("test-secret")
	require.NoError(t, err)

	_, err = svc.ValidateJWT(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}
