package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hunet324/expertlink/internal/auth"
	"github.com/hunet324/expertlink/internal/models"
	"github.com/hunet324/expertlink/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordReuse      = errors.New("new password must differ from the current one")
)

type RegisterParams struct {
	Email    string
	Password string
	Name     string
	UserType models.UserType
}

// AuthResult is what a successful register/login/refresh hands back upward.
type AuthResult struct {
	User   *models.User
	Tokens *auth.TokenPair
}

type AuthService struct {
	users      repository.UserRepository
	signer     *auth.Signer
	tokenStore *auth.TokenStore
	presence   *auth.Presence
	audit      AuditLogger
}

func NewAuthService(users repository.UserRepository, signer *auth.Signer, tokenStore *auth.TokenStore, presence *auth.Presence, audit AuditLogger) *AuthService {
	return &AuthService{
		users:      users,
		signer:     signer,
		tokenStore: tokenStore,
		presence:   presence,
		audit:      audit,
	}
}

func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if params.Email == "" || len(params.Password) < 8 {
		return nil, errors.New("email required and password must be at least 8 characters")
	}

	userType := params.UserType
	if userType == "" {
		userType = models.UserTypeGeneral
	}

	user := &models.User{
		Email:    params.Email,
		Password: params.Password,
		Name:     params.Name,
		UserType: userType,
		Status:   models.UserStatusActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Login deliberately reports the same error for an unknown email, a blocked
// account, and a wrong password, so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password, ip, userAgent string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.CanLogin() {
		return nil, ErrInvalidCredentials
	}

	if !s.users.ValidatePassword(user, password) {
		return nil, ErrInvalidCredentials
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.presence.SetOnline(ctx, user.ID); err != nil {
		slog.Warn("failed to mark user online", "user_id", user.ID, "error", err)
	}

	if err := s.users.UpdateLoginInfo(ctx, user.ID, time.Now(), ip); err != nil {
		slog.Warn("failed to update login info", "user_id", user.ID, "error", err)
	}

	s.audit.LogUserLogin(user.ID, ip, userAgent)

	return result, nil
}

// Logout is idempotent: deleting an absent token or set member is not an error.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.tokenStore.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	if err := s.presence.SetOffline(ctx, userID); err != nil {
		slog.Warn("failed to mark user offline", "user_id", userID, "error", err)
	}
	return nil
}

// Refresh rotates the token pair. Every failure mode collapses into
// ErrInvalidToken so the caller cannot probe which check rejected it.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.signer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	stored, err := s.tokenStore.Get(ctx, userID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Byte-exact match prevents replay of a superseded token.
	if stored != refreshToken {
		return nil, ErrInvalidToken
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		slog.Warn("token rotation failed during refresh", "user_id", userID, "error", err)
		return nil, ErrInvalidToken
	}

	if err := s.presence.Touch(ctx, userID); err != nil {
		slog.Warn("failed to refresh presence", "user_id", userID, "error", err)
	}

	return result, nil
}

// ChangePassword delegates credential verification to the identity store, then
// invalidates the stored refresh token. When the calling request carried an
// active refresh token, a fresh pair is issued so the session survives; that
// rotation is best-effort and never aborts the password change.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, newPassword, activeRefreshToken, ip, userAgent string) (*auth.TokenPair, error) {
	if err := s.users.ChangePassword(ctx, userID, current, newPassword); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrInvalidPassword):
			return nil, ErrInvalidCredentials
		case errors.Is(err, repository.ErrPasswordReuse):
			return nil, ErrPasswordReuse
		default:
			return nil, fmt.Errorf("failed to change password: %w", err)
		}
	}

	if err := s.tokenStore.Delete(ctx, userID); err != nil {
		slog.Warn("failed to invalidate refresh token after password change", "user_id", userID, "error", err)
	}

	var rotated *auth.TokenPair
	if activeRefreshToken != "" {
		user, err := s.users.FindByID(ctx, userID)
		if err == nil {
			if result, err := s.issueTokens(ctx, user); err == nil {
				rotated = result.Tokens
			} else {
				slog.Warn("session rotation after password change failed", "user_id", userID, "error", err)
			}
		}
	}

	s.audit.LogPasswordChange(userID, ip, userAgent)

	return rotated, nil
}

// OnlineUsers returns the ids of users currently marked online.
func (s *AuthService) OnlineUsers(ctx context.Context) ([]uint, error) {
	return s.presence.Online(ctx)
}

// Heartbeat refreshes the caller's presence marker.
func (s *AuthService) Heartbeat(ctx context.Context, userID uint) error {
	return s.presence.Touch(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*AuthResult, error) {
	pair, err := s.signer.GeneratePair(user.ID, user.Email, user.UserType)
	if err != nil {
		return nil, err
	}

	// Overwrites any prior token, enforcing at most one live refresh token
	// per user. Already-issued access tokens stay valid until their expiry.
	if err := s.tokenStore.Save(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Tokens: pair}, nil
}
