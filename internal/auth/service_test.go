package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/deepakranpise0/vulse-backend/internal/auth"
	authmw "github.com/deepakranpise0/vulse-backend/internal/auth/middleware"
)

type fakeUserStore struct {
	byUsername map[string]auth.User
	nextID     int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byUsername: map[string]auth.User{}}
}

func (s *fakeUserStore) CreateUser(ctx context.Context, u auth.User) (auth.User, error) {
	if _, ok := s.byUsername[u.Username]; ok {
		return auth.User{}, auth.ErrUsernameTaken
	}
	s.nextID++
	u.ID = s.nextID
	s.byUsername[u.Username] = u
	return u, nil
}

func (s *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (auth.User, error) {
	u, ok := s.byUsername[username]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetUserByID(ctx context.Context, id int64) (auth.User, error) {
	for _, u := range s.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (s *fakeUserStore) ListUsers(ctx context.Context, opts auth.ListOpts) ([]auth.User, error) {
	out := []auth.User{}
	for _, u := range s.byUsername {
		out = append(out, u)
	}
	return out, nil
}

func newTestService() (*auth.Service, *authmw.AuthService) {
	tokens := authmw.NewAuthService("test-secret")
	return auth.NewService(newFakeUserStore(), tokens), tokens
}

func TestLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newTestService()

	created, err := svc.CreateUser(ctx, "u", "u@example.com", "secret1", auth.RoleUser)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.PasswordHash == "secret1" || created.PasswordHash == "" {
		t.Fatalf("password must be stored as a hash")
	}

	tok, err := svc.Login(ctx, "u", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected a non-empty token")
	}
	claims, err := tokens.Parse(tok)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != created.ID {
		t.Fatalf("token carries wrong user id: %d", claims.UserID)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatalf("token must be time-bounded")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got.Hours() != 1 {
		t.Fatalf("expected 1h validity, got %v", got)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	if _, err := svc.CreateUser(ctx, "u", "u@example.com", "secret1", auth.RoleUser); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := svc.Login(ctx, "u", "wrong")
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Login(context.Background(), "ghost", "whatever")
	if !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	if _, err := svc.CreateUser(ctx, "u", "u@example.com", "secret1", auth.RoleUser); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := svc.CreateUser(ctx, "u", "other@example.com", "secret2", auth.RoleAdmin)
	if !errors.Is(err, auth.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}
