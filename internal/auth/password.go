package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/minhng/tripfund/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// UserStorage is the subset of the store the authenticator needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// PasswordAuthenticator registers and verifies planner accounts with
// bcrypt-hashed passwords.
type PasswordAuthenticator struct {
	store UserStorage
}

func NewPasswordAuthenticator(store UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{store: store}
}

// Register creates a new account. The first account a deployment registers is
// typically an admin; callers decide the role.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, name, password string, role models.Role) (*models.User, error) {
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	if existing, err := a.store.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies the email/password pair and returns the account.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil || user == nil {
		// Burn a comparison so lookups and mismatches take similar time.
		bcrypt.CompareHashAndPassword([]byte("$2a$10$N9qo8uLOickgx2ZMRZoMye"), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
