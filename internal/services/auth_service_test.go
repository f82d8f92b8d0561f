package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunet324/expertlink/internal/auth"
	"github.com/hunet324/expertlink/internal/models"
	"github.com/hunet324/expertlink/internal/repository"
	"github.com/hunet324/expertlink/internal/store"
)

// fakeUserRepo keeps users in memory and compares passwords by equality, so
// tests exercise the service's control flow without bcrypt or a database.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) ValidatePassword(user *models.User, password string) bool {
	return user.Password == password
}

func (r *fakeUserRepo) ChangePassword(_ context.Context, id uint, current, newPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if u.Password != current {
		return repository.ErrInvalidPassword
	}
	if current == newPassword {
		return repository.ErrPasswordReuse
	}
	u.Password = newPassword
	return nil
}

func (r *fakeUserRepo) UpdateLoginInfo(_ context.Context, id uint, at time.Time, ip string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.LastLoginAt = &at
	u.LastLoginIP = ip
	return nil
}

type auditCall struct {
	action string
	userID uint
}

type fakeAudit struct {
	mu    sync.Mutex
	calls []auditCall
}

func (a *fakeAudit) LogUserLogin(userID uint, _, _ string) {
	a.record("user.login", userID)
}

func (a *fakeAudit) LogPasswordChange(userID uint, _, _ string) {
	a.record("user.password_change", userID)
}

func (a *fakeAudit) LogSystemSettingChange(userID uint, _, _, _ string) {
	a.record("settings.change", userID)
}

func (a *fakeAudit) record(action string, userID uint) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, auditCall{action: action, userID: userID})
}

func (a *fakeAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.calls))
	for _, c := range a.calls {
		out = append(out, c.action)
	}
	return out
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeAudit) {
	t.Helper()
	repo := newFakeUserRepo()
	kv := store.NewMemoryStore()
	signer := auth.NewSigner("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	tokens := auth.NewTokenStore(kv, 24*time.Hour)
	presence := auth.NewPresence(kv, time.Minute)
	audit := &fakeAudit{}
	return NewAuthService(repo, signer, tokens, presence, audit), repo, audit
}

func registerUser(t *testing.T, svc *AuthService, email string) *AuthResult {
	t.Helper()
	result, err := svc.Register(context.Background(), RegisterParams{
		Email:    email,
		Password: "initial-password",
		Name:     "Test User",
	})
	require.NoError(t, err)
	return result
}

func TestRegister_IssuesUsableTokens(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	result := registerUser(t, svc, "new@example.com")
	require.NotNil(t, result.Tokens)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Equal(t, models.UserTypeGeneral, result.User.UserType)

	refreshed, err := svc.Refresh(ctx, result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, refreshed.User.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	registerUser(t, svc, "taken@example.com")
	_, err := svc.Register(context.Background(), RegisterParams{
		Email:    "taken@example.com",
		Password: "another-password",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), RegisterParams{
		Email:    "short@example.com",
		Password: "1234567",
	})
	assert.Error(t, err)
}

func TestLogin_Success(t *testing.T) {
	svc, _, audit := newAuthFixture(t)
	ctx := context.Background()

	registerUser(t, svc, "user@example.com")
	result, err := svc.Login(ctx, "user@example.com", "initial-password", "10.0.0.1", "test-agent")
	require.NoError(t, err)
	require.NotNil(t, result.Tokens)

	online, err := svc.OnlineUsers(ctx)
	require.NoError(t, err)
	assert.Contains(t, online, result.User.ID)
	assert.Contains(t, audit.actions(), "user.login")
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	result := registerUser(t, svc, "user@example.com")

	_, err := svc.Login(ctx, "user@example.com", "wrong-password", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "initial-password", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	repo.users[result.User.ID].Status = models.UserStatusInactive
	_, err = svc.Login(ctx, "user@example.com", "initial-password", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_RotationInvalidatesOldToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	first := registerUser(t, svc, "user@example.com")

	second, err := svc.Refresh(ctx, first.Tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	// The superseded token must be rejected even though it is still unexpired.
	_, err = svc.Refresh(ctx, first.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The rotated token keeps working.
	_, err = svc.Refresh(ctx, second.Tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_Garbage(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_WrongSecret(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	result := registerUser(t, svc, "user@example.com")

	forged := auth.NewSigner("other-access", "other-refresh", time.Minute, time.Hour)
	pair, err := forged.GeneratePair(result.User.ID, result.User.Email, result.User.UserType)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_InvalidatesRefreshToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	result := registerUser(t, svc, "user@example.com")
	_, err := svc.Login(ctx, "user@example.com", "initial-password", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.User.ID))

	_, err = svc.Refresh(ctx, result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	online, err := svc.OnlineUsers(ctx)
	require.NoError(t, err)
	assert.NotContains(t, online, result.User.ID)

	// Logging out twice is fine.
	assert.NoError(t, svc.Logout(ctx, result.User.ID))
}

func TestChangePassword_InvalidatesOldSession(t *testing.T) {
	svc, _, audit := newAuthFixture(t)
	ctx := context.Background()

	result := registerUser(t, svc, "user@example.com")

	rotated, err := svc.ChangePassword(ctx, result.User.ID, "initial-password", "rotated-password", "", "", "")
	require.NoError(t, err)
	assert.Nil(t, rotated)

	_, err = svc.Refresh(ctx, result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Login(ctx, "user@example.com", "initial-password", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "user@example.com", "rotated-password", "", "")
	assert.NoError(t, err)
	assert.Contains(t, audit.actions(), "user.password_change")
}

func TestChangePassword_RotatesActiveSession(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	result := registerUser(t, svc, "user@example.com")

	rotated, err := svc.ChangePassword(ctx, result.User.ID, "initial-password", "rotated-password", result.Tokens.RefreshToken, "", "")
	require.NoError(t, err)
	require.NotNil(t, rotated)

	// The old refresh token is dead, the rotated one works immediately.
	_, err = svc.Refresh(ctx, result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestChangePassword_Failures(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	result := registerUser(t, svc, "user@example.com")

	_, err := svc.ChangePassword(ctx, result.User.ID, "wrong-current", "rotated-password", "", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.ChangePassword(ctx, result.User.ID, "initial-password", "initial-password", "", "", "")
	assert.ErrorIs(t, err, ErrPasswordReuse)

	_, err = svc.ChangePassword(ctx, 9999, "initial-password", "rotated-password", "", "", "")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// A failed attempt must not kill the live session.
	_, err = svc.Refresh(ctx, result.Tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestHeartbeat_KeepsUserOnline(t *testing.T) {
	repo := newFakeUserRepo()
	kv := store.NewMemoryStore()
	signer := auth.NewSigner("access-secret", "refresh-secret", time.Minute, time.Hour)
	tokens := auth.NewTokenStore(kv, time.Hour)
	presence := auth.NewPresence(kv, 30*time.Millisecond)
	svc := NewAuthService(repo, signer, tokens, presence, &fakeAudit{})
	ctx := context.Background()

	result := registerUser(t, svc, "user@example.com")
	_, err := svc.Login(ctx, "user@example.com", "initial-password", "", "")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, svc.Heartbeat(ctx, result.User.ID))
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, presence.Sweep(ctx))
	online, err := svc.OnlineUsers(ctx)
	require.NoError(t, err)
	assert.Contains(t, online, result.User.ID)
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)
var _ AuditLogger = (*fakeAudit)(nil)
