// Package auth signs dashboard users in and seeds the first admin account.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/internal/repository"
	"github.com/rivacortez/management-demo/pkg/jwtutil"

	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the role of the seeded account
const RoleAdmin = "admin"

// ErrInvalidCredentials is returned for an unknown email or a wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore looks up and creates users
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// Service checks passwords and issues tokens
type Service struct {
	users UserStore
	jwt   *jwtutil.JWTUtil
}

// NewService creates an auth service
func NewService(users UserStore, jwt *jwtutil.JWTUtil) *Service {
	return &Service{users: users, jwt: jwt}
}

// SignIn verifies the password and returns a signed token for the user
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.Email, user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// SeedAdmin creates an admin account unless one with the email already exists.
// It reports whether a user was created.
func (s *Service) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	user := &model.User{Email: email, PasswordHash: hash, Role: RoleAdmin}
	if err := s.users.Create(ctx, user); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}

// HashPassword hashes a password with bcrypt's default cost
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
