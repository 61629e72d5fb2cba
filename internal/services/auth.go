package services

import (
	"crypto/subtle"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/iwen-conf/DormDB/internal/config"
)

// AdminClaims is the token payload issued to a logged-in administrator.
type AdminClaims struct {
	Role      string `json:"role"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// AuthService issues and validates admin session tokens. Login is a single
// shared password; the session itself is a signed HS256 token.
type AuthService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	if cfg.AdminPasswordHash == "" && cfg.AdminPassword != "" {
		log.Println("auth: ADMIN_PASSWORD_HASH not set, comparing against plaintext ADMIN_PASSWORD")
	}
	return &AuthService{cfg: cfg}
}

// Login checks the admin password and returns a signed session token.
// A bcrypt hash takes precedence over a plaintext password when both are
// configured.
func (s *AuthService) Login(password string) (string, error) {
	switch {
	case s.cfg.AdminPasswordHash != "":
		if bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)) != nil {
			return "", ErrBadCredentials
		}
	case s.cfg.AdminPassword != "":
		if subtle.ConstantTimeCompare([]byte(s.cfg.AdminPassword), []byte(password)) != 1 {
			return "", ErrBadCredentials
		}
	default:
		return "", ErrLoginDisabled
	}

	now := time.Now()
	claims := AdminClaims{
		Role:      "admin",
		SessionID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies an admin session token.
func (s *AuthService) ValidateToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Role != "admin" {
		return nil, ErrBadCredentials
	}
	return claims, nil
}
