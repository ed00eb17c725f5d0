package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/artfolio/artfolio-api/internal/domain/user"
	"github.com/artfolio/artfolio-api/internal/pkg/jwt"
	"github.com/artfolio/artfolio-api/internal/pkg/password"
)

type fakeUserRepo struct {
	byEmail *user.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if f.byEmail != nil && f.byEmail.ID == id {
		return f.byEmail, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.byEmail != nil && f.byEmail.Email == email {
		return f.byEmail, nil
	}
	return nil, nil
}

func newTestService(u *user.User) *Service {
	jwtSvc := jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)
	return NewService(&fakeUserRepo{byEmail: u}, jwtSvc)
}

func testUser(t *testing.T, email, pass string, isAdmin bool) *user.User {
	t.Helper()
	hash, err := password.Hash(pass)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
}

func TestLoginSuccess(t *testing.T) {
	u := testUser(t, "admin@example.com", "correct-horse", true)
	svc := newTestService(u)

	tokens, err := svc.Login(context.Background(), "admin@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("expected non-empty token pair")
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	u := testUser(t, "admin@example.com", "correct-horse", true)
	svc := newTestService(u)

	if _, err := svc.Login(context.Background(), "  ADMIN@example.com ", "correct-horse"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestLoginWrongPasswordAndUnknownUserAreIndistinguishable(t *testing.T) {
	u := testUser(t, "admin@example.com", "correct-horse", true)
	svc := newTestService(u)

	_, errWrongPass := svc.Login(context.Background(), "admin@example.com", "wrong-password")
	_, errUnknown := svc.Login(context.Background(), "nobody@example.com", "whatever-pass")

	if errWrongPass != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", errWrongPass)
	}
	if errUnknown != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", errUnknown)
	}
}

func TestLoginCarriesAdminFlagInAccessToken(t *testing.T) {
	u := testUser(t, "admin@example.com", "correct-horse", true)
	svc := newTestService(u)

	tokens, err := svc.Login(context.Background(), "admin@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	jwtSvc := jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)
	claims, err := jwtSvc.ValidateAccessToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("token should validate: %v", err)
	}
	if !claims.IsAdmin {
		t.Fatalf("expected is_admin claim to be true")
	}
	if claims.UserID != u.ID {
		t.Fatalf("expected user id %s, got %s", u.ID, claims.UserID)
	}
}

func TestRefreshIssuesNewPair(t *testing.T) {
	u := testUser(t, "admin@example.com", "correct-horse", false)
	svc := newTestService(u)

	tokens, err := svc.Login(context.Background(), "admin@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Fatalf("expected new access token")
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := newTestService(nil)
	if _, err := svc.Refresh(context.Background(), "not-a-token"); err != ErrInvalidRefresh {
		t.Fatalf("expected ErrInvalidRefresh, got %v", err)
	}
}
