package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
)

type UserStore interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	ListUsers(ctx context.Context, opts ListOpts) ([]User, error)
}

// TokenIssuer signs an identity token for a user id. Implemented by the
// middleware AuthService.
type TokenIssuer interface {
	IssueJWT(userID int64) (string, error)
}

type Service struct {
	store  UserStore
	tokens TokenIssuer
}

func NewService(store UserStore, tokens TokenIssuer) *Service {
	return &Service{store: store, tokens: tokens}
}

// Login verifies credentials and issues a signed, time-bounded token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.IssueJWT(u.ID)
}

// CreateUser hashes the password before persisting. The plaintext never
// leaves this call and the stored hash is not serialized.
func (s *Service) CreateUser(ctx context.Context, username, email, password string, role Role) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return s.store.CreateUser(ctx, User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
}

func (s *Service) Users(ctx context.Context, opts ListOpts) ([]User, error) {
	return s.store.ListUsers(ctx, opts)
}
