package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quran-coach/internal/dto"
	"quran-coach/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrInvalidJWTToken is returned when a token fails signature or claims checks.
var ErrInvalidJWTToken = errors.New("invalid JWT token")

// AuthService validates and issues access tokens for API clients.
type AuthService interface {
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(ctx context.Context, userID string, ttl time.Duration) (string, error)
}

type authServiceImpl struct {
	secretKey []byte
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(secretKey string) (AuthService, error) {
	if secretKey == "" {
		return nil, errors.New("JWT secret key is not configured")
	}
	return &authServiceImpl{secretKey: []byte(secretKey)}, nil
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired", zap.Error(err))
		} else {
			appLogger.Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		if claims.UserID == "" {
			return nil, ErrInvalidJWTToken
		}
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &dto.AuthClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}
