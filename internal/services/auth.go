package services

import (
	"errors"
	"fmt"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/incvoting/voting-api/internal/config"
	"github.com/incvoting/voting-api/internal/logger"
)

// ErrInvalidCredentials is returned for a bad username or password. The same
// error covers both so responses do not reveal which was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidSession is returned for a missing, malformed or expired session
// token.
var ErrInvalidSession = errors.New("invalid session")

// AuthService authenticates the single admin account and manages its JWT
// sessions.
type AuthService struct {
	username     string
	passwordHash []byte
	jwtSecret    []byte
	sessionTTL   time.Duration
	log          *charmlog.Logger
}

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewAuthService builds the auth service from config. When no password hash
// is configured the plaintext admin password is hashed at startup, so the
// comparison path is always bcrypt.
func NewAuthService(cfg *config.Config) (*AuthService, error) {
	hash := []byte(cfg.Admin.PasswordHash)
	if len(hash) == 0 {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	}

	return &AuthService{
		username:     cfg.Admin.Username,
		passwordHash: hash,
		jwtSecret:    []byte(cfg.Admin.JWTSecret),
		sessionTTL:   time.Duration(cfg.Admin.SessionTTL) * time.Hour,
		log:          logger.Service("auth"),
	}, nil
}

// SessionTTL returns how long issued sessions stay valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Login checks credentials and returns a signed session token.
func (s *AuthService) Login(username, password string) (string, error) {
	if username != s.username {
		s.log.Warn("login rejected", "username", username)
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		s.log.Warn("login rejected", "username", username)
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	s.log.Info("admin logged in", "username", username)
	return token, nil
}

// ValidateSession parses and verifies a session token, returning the admin
// username it belongs to.
func (s *AuthService) ValidateSession(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidSession
	}

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidSession
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok {
		return "", ErrInvalidSession
	}
	return claims.Username, nil
}
