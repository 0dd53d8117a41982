package auth

import (
	"context"
	"errors"
	"testing"

	"teamskills/internal/permissions"
	"teamskills/internal/repository"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	users  map[uuid.UUID]repository.User
	grants map[uuid.UUID]permissions.Set

	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  map[uuid.UUID]repository.User{},
		grants: map[uuid.UUID]permissions.Set{},
	}
}

// CreateUserWithGrants mirrors the transactional contract: on failure
// neither the user nor any grant is recorded.
func (m *mockUserRepo) CreateUserWithGrants(_ context.Context, u repository.User, grants []permissions.Permission) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.users[u.ID] = u
	m.grants[u.ID] = permissions.NewSet(grants...)
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := m.users[id]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrUserNotFound
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) ListUsers(context.Context) ([]repository.User, error) { return nil, nil }

func (m *mockUserRepo) GetGlobalPermissions(_ context.Context, userID uuid.UUID) (permissions.Set, error) {
	if s, ok := m.grants[userID]; ok {
		return s, nil
	}
	return permissions.NewSet(), nil
}

func (m *mockUserRepo) AddGlobalPermissions(_ context.Context, userID uuid.UUID, perms []permissions.Permission) error {
	if m.grants[userID] == nil {
		m.grants[userID] = permissions.NewSet()
	}
	for _, p := range perms {
		m.grants[userID].Add(p)
	}
	return nil
}

func (m *mockUserRepo) RemoveGlobalPermissions(_ context.Context, userID uuid.UUID, perms []permissions.Permission) error {
	for _, p := range perms {
		m.grants[userID].Remove(p)
	}
	return nil
}

func TestRegister_AssignsDefaultGrants(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	u, err := svc.Register(context.Background(), RegisterInput{Email: "New@Example.com", Password: "correcthorse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "new@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.PasswordHash != "" {
		t.Fatalf("password hash leaked")
	}

	set := repo.grants[u.ID]
	if !set.Has(permissions.PermReader) || !set.Has(permissions.PermGuest) {
		t.Fatalf("default grants missing: %v", set.Slice())
	}
	if set.Has(permissions.PermAdmin) {
		t.Fatalf("registration must never grant ADMIN")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@example.com", Password: "correcthorse"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), RegisterInput{Email: "A@example.com", Password: "correcthorse"})
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestRegister_FailedCreateIsRetriable(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	repo.createErr = errors.New("connection reset")
	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@example.com", Password: "correcthorse"}); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if len(repo.users) != 0 || len(repo.grants) != 0 {
		t.Fatalf("failed registration left state behind: users=%d grants=%d", len(repo.users), len(repo.grants))
	}

	repo.createErr = nil
	u, err := svc.Register(context.Background(), RegisterInput{Email: "a@example.com", Password: "correcthorse"})
	if err != nil {
		t.Fatalf("retry after failed registration: %v", err)
	}
	if !repo.grants[u.ID].Has(permissions.PermReader) {
		t.Fatalf("retried registration missing default grants")
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := NewService(newMockUserRepo())
	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@example.com", Password: "short"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@example.com", Password: "correcthorse"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginInput{Email: "a@example.com", Password: "correcthorse"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@example.com", Password: "wrongwrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "correcthorse"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
