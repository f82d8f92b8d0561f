package auth

import (
	"testing"
	"time"

	"github.com/hunet324/expertlink/internal/models"
)

func newTestSigner() *Signer {
	return NewSigner("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestGeneratePair_VerifyRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	pair, err := s.GeneratePair(42, "a@x.com", models.UserTypeGeneral)
	if err != nil {
		t.Fatalf("GeneratePair error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected non-empty token pair")
	}

	claims, err := s.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccess error: %v", err)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID error: %v", err)
	}
	if id != 42 {
		t.Fatalf("user id mismatch: got %d want 42", id)
	}
	if claims.Email != "a@x.com" {
		t.Fatalf("email mismatch: got %q", claims.Email)
	}
	if claims.UserType != string(models.UserTypeGeneral) {
		t.Fatalf("user type mismatch: got %q", claims.UserType)
	}

	if _, err := s.VerifyRefresh(pair.RefreshToken); err != nil {
		t.Fatalf("VerifyRefresh error: %v", err)
	}
}

func TestVerify_CrossSecretRejected(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	pair, err := s.GeneratePair(1, "u@x.com", models.UserTypeExpert)
	if err != nil {
		t.Fatalf("GeneratePair error: %v", err)
	}

	// An access token must not verify as a refresh token and vice versa.
	if _, err := s.VerifyRefresh(pair.AccessToken); err == nil {
		t.Fatal("expected access token to fail refresh verification")
	}
	if _, err := s.VerifyAccess(pair.RefreshToken); err == nil {
		t.Fatal("expected refresh token to fail access verification")
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	s := NewSigner("a", "r", -1*time.Second, -1*time.Second)
	pair, err := s.GeneratePair(7, "u@x.com", models.UserTypeGeneral)
	if err != nil {
		t.Fatalf("GeneratePair error: %v", err)
	}

	if _, err := s.VerifyAccess(pair.AccessToken); err == nil {
		t.Fatal("expected error for expired access token")
	}
	if _, err := s.VerifyRefresh(pair.RefreshToken); err == nil {
		t.Fatal("expected error for expired refresh token")
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	if _, err := s.VerifyAccess("not.a.jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestGeneratePair_RotationProducesDistinctTokens(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	first, err := s.GeneratePair(9, "u@x.com", models.UserTypeGeneral)
	if err != nil {
		t.Fatalf("GeneratePair error: %v", err)
	}
	second, err := s.GeneratePair(9, "u@x.com", models.UserTypeGeneral)
	if err != nil {
		t.Fatalf("GeneratePair error: %v", err)
	}

	if first.RefreshToken == second.RefreshToken {
		t.Fatal("rotated refresh token must differ from its predecessor")
	}
}
