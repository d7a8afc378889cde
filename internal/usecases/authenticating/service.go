package authenticating

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

const sessionDuration = 24 * time.Hour

// Authenticator is the auth gate: it checks the configured operator
// credentials and issues/validates session tokens. Nothing else in the API
// runs without a token that passed ValidateToken.
type Authenticator interface {
	Login(username, password string) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
}

type Service struct {
	cfg *config.Config
}

func NewService(cfg *config.Config) Authenticator {
	return &Service{
		cfg: cfg,
	}
}

// Login compares the submitted pair against the configured admin credential
// and returns a signed session token on match. A mismatch returns an
// AuthError and changes no state. There is no lockout or rate limiting.
func (s *Service) Login(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", NewAuthError(ErrMissingCredentials, apiErrors.ErrMissingCredentials, "")
	}

	if subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Auth.AdminUsername)) != 1 {
		return "", NewAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "")
	}

	if !s.passwordMatches(password) {
		return "", NewAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "")
	}

	token, err := generateJWT(username, s.cfg.SecretKey)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "failed to sign session token")
	}

	return token, nil
}

// passwordMatches prefers the bcrypt hash when one is configured and falls
// back to an exact comparison against the plain configured secret.
func (s *Service) passwordMatches(password string) bool {
	if s.cfg.Auth.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.Auth.AdminPasswordHash), []byte(password)) == nil
	}

	if s.cfg.Auth.AdminPassword == "" {
		// No credential configured at all: refuse every login rather than
		// accepting an empty password.
		return false
	}

	return subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Auth.AdminPassword)) == 1
}

func generateJWT(username, secretKey string) (string, error) {
	claims := domain.Claims{
		Username: username,
		Role:     domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

// ValidateToken parses and verifies a session token, returning its claims.
func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, err
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
