package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/artfolio/artfolio-api/internal/domain/user"
	"github.com/artfolio/artfolio-api/internal/pkg/jwt"
	"github.com/artfolio/artfolio-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	users userRepository
	jwt   *jwt.Service
}

type userRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// NewService creates auth service
func NewService(users userRepository, jwtService *jwt.Service) *Service {
	return &Service{users: users, jwt: jwtService}
}

// Login verifies an email/password pair and issues a token pair. Unknown
// email and wrong password return the same ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, pass string) (*TokenResponse, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil || !password.Verify(pass, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(u)
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidRefresh
	}
	return s.issueTokens(u)
}

// Me returns the signed-in user
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) issueTokens(u *user.User) (*TokenResponse, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID, u.IsAdmin)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwt.GetAccessTTL().Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
