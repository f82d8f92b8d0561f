package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hunet324/expertlink/internal/models"
)

var ErrTokenInvalid = errors.New("invalid or expired token")

// Claims carries the identity payload shared by access and refresh tokens.
type Claims struct {
	Email    string `json:"email"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return uint(id), nil
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Signer issues and verifies the access/refresh token pair. The two tokens
// share a payload but are signed with independent secrets and expiries.
type Signer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewSigner(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *Signer {
	return &Signer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// GeneratePair is side-effect free; persistence of the refresh token is the
// caller's concern.
func (s *Signer) GeneratePair(userID uint, email string, userType models.UserType) (*TokenPair, error) {
	access, err := s.sign(userID, email, userType, s.accessSecret, s.accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := s.sign(userID, email, userType, s.refreshSecret, s.refreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Signer) sign(userID uint, email string, userType models.UserType, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:    email,
		UserType: string(userType),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			// Unique per token so rotation always produces distinct bytes,
			// even for two tokens signed within the same second.
			ID: uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccess validates signature and expiry of an access token.
func (s *Signer) VerifyAccess(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.accessSecret)
}

// VerifyRefresh validates signature and expiry of a refresh token.
func (s *Signer) VerifyRefresh(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.refreshSecret)
}

func (s *Signer) verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
